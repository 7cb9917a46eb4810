package xhtml

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var specialChars = strings.NewReplacer(
	"'", "&apos;",
	`"`, "&quot;",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape replaces the characters with a meaning in markup by entities.
func Escape(s string) string {
	return specialChars.Replace(s)
}

var (
	// first space of each line of a pre block
	firstSpace = regexp2.MustCompile(`^[ ]`, regexp2.Multiline)

	// quote marker of each line, the space after it being optional
	quoteMarker = regexp2.MustCompile(`^>(?:[ ]|$)`, regexp2.Multiline)

	// two or more newlines before more text
	blockSeparator = regexp2.MustCompile(`\n\n+(?=\S)`, regexp2.None)

	nonWord = regexp2.MustCompile(`\W+`, regexp2.None)
)

func replace(re *regexp2.Regexp, s, with string) (string, error) {
	return re.Replace(s, with, -1, -1)
}

func split(re *regexp2.Regexp, s string) ([]string, error) {
	runes := []rune(s)
	var parts []string
	pos := 0

	m, err := re.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		parts = append(parts, string(runes[pos:m.Index]))
		pos = m.Index + m.Length
	}
	if err != nil {
		return nil, err
	}
	return append(parts, string(runes[pos:])), nil
}
