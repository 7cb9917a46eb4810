package listtree

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Marker symbols, one per nesting level.
const (
	Unordered = '*'
	Ordered   = '#'
)

// Fragment is one list item as it appears in the source: its marker prefix
// (outermost level first) and its content.
type Fragment struct {
	Prefix  string
	Content string
	// Offset is the rune offset of Content inside the text given to Split.
	Offset int
}

// Depth returns the nesting level of the fragment.
func (f Fragment) Depth() int { return len(f.Prefix) }

// Split cuts list markup into fragments. Every line whose first
// non-blank character is a marker starts a fragment; other lines continue
// the previous one.
func Split(text string) ([]Fragment, error) {
	var frags []Fragment
	offset := 0

	for _, line := range strings.Split(text, "\n") {
		lineRunes := utf8.RuneCountInString(line)
		trimmed := strings.TrimLeft(line, " \t")
		marker := markerRun(trimmed)

		if marker == "" {
			if len(frags) == 0 {
				if strings.TrimSpace(line) != "" {
					return nil, fmt.Errorf("%w: text before the first list marker: %q", ErrMalformedFragmentSequence, line)
				}
			} else {
				frags[len(frags)-1].Content += "\n" + line
			}
			offset += lineRunes + 1
			continue
		}

		content := strings.TrimLeft(trimmed[len(marker):], " \t")
		skipped := lineRunes - utf8.RuneCountInString(content)
		frags = append(frags, Fragment{
			Prefix:  marker,
			Content: content,
			Offset:  offset + skipped,
		})
		offset += lineRunes + 1
	}

	return frags, nil
}

// markerRun returns the leading run of marker symbols of s.
func markerRun(s string) string {
	i := 0
	for i < len(s) && (s[i] == Unordered || s[i] == Ordered) {
		i++
	}
	return s[:i]
}
