// Package grammar classifies spans of wiki text into typed constructs with
// named fields. A Grammar is an ordered alternation of rules; scanning it
// over a text yields non-overlapping matches from left to right.
package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Kind names a construct (a rule's primary group).
type Kind string

// Rule is one alternative of a grammar. Kinds lists the named groups that
// identify the construct, probed in order; most rules have exactly one.
type Rule struct {
	Kinds   []Kind
	Pattern string
}

// Field is a named sub-span of a match. Offsets are in runes.
type Field struct {
	Value      string
	Start, End int
}

// Match is one classified span. Offsets are in runes.
type Match struct {
	Kind       Kind
	Start, End int
	Text       string
	fields     map[string]Field
}

// NewMatch builds a match by hand, mostly for handlers and tests.
func NewMatch(kind Kind, start int, text string, fields map[string]string) Match {
	m := Match{
		Kind:  kind,
		Start: start,
		End:   start + len([]rune(text)),
		Text:  text,
	}
	if len(fields) > 0 {
		m.fields = make(map[string]Field, len(fields))
		for k, v := range fields {
			m.fields[k] = Field{Value: v, Start: start, End: start + len([]rune(v))}
		}
	}
	return m
}

// Field returns the text of a named field, or "" when it did not take part.
func (m Match) Field(name string) string {
	return m.fields[name].Value
}

// Lookup returns a named field and whether it took part in the match.
func (m Match) Lookup(name string) (Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Grammar is a compiled set of rules.
type Grammar struct {
	name   string
	re     *regexp2.Regexp
	kinds  []Kind
	fields []string
}

// Compile joins the rules into one alternation. prefix is prepended to the
// whole alternation (for instance a shared lookbehind guard).
func Compile(name, prefix string, rules []Rule) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar %s: no rules", name)
	}

	alts := make([]string, len(rules))
	var kinds []Kind
	for i, r := range rules {
		if len(r.Kinds) == 0 {
			return nil, fmt.Errorf("grammar %s: rule %d has no kind", name, i)
		}
		alts[i] = r.Pattern
		kinds = append(kinds, r.Kinds...)
	}

	expr := prefix + "(?:" + strings.Join(alts, "|") + ")"
	re, err := regexp2.Compile(expr, regexp2.Multiline)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", name, err)
	}

	g := &Grammar{name: name, re: re, kinds: kinds}
	for _, groupName := range re.GetGroupNames() {
		if _, err := strconv.Atoi(groupName); err == nil {
			continue
		}
		g.fields = append(g.fields, groupName)
	}

	for _, k := range kinds {
		if !g.hasGroup(string(k)) {
			return nil, fmt.Errorf("grammar %s: kind %q has no named group", name, k)
		}
	}
	return g, nil
}

// Name returns the grammar's name.
func (g *Grammar) Name() string { return g.name }

// Kinds returns the constructs the grammar can produce, in rule order.
func (g *Grammar) Kinds() []Kind {
	out := make([]Kind, len(g.kinds))
	copy(out, g.kinds)
	return out
}

// Defines reports whether k is one of the grammar's constructs.
func (g *Grammar) Defines(k Kind) bool {
	for _, known := range g.kinds {
		if known == k {
			return true
		}
	}
	return false
}

// Scan returns the matches of text with offsets relative to text.
func (g *Grammar) Scan(text string) ([]Match, error) {
	return g.ScanAt(text, 0)
}

// ScanAt is like Scan but shifts every offset by base, so matches found in
// a substring carry their position in the enclosing document.
func (g *Grammar) ScanAt(text string, base int) ([]Match, error) {
	runes := []rune(text)
	var matches []Match

	m, err := g.re.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = g.re.FindNextMatch(m) {
		match, convErr := g.convert(m, base)
		if convErr != nil {
			return nil, convErr
		}
		matches = append(matches, match)
	}
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %w", g.name, err)
	}
	return matches, nil
}

func (g *Grammar) convert(m *regexp2.Match, base int) (Match, error) {
	match := Match{
		Start: base + m.Index,
		End:   base + m.Index + m.Length,
		Text:  m.String(),
	}

	for _, name := range g.fields {
		grp := m.GroupByName(name)
		if grp == nil || len(grp.Captures) == 0 {
			continue
		}
		if match.fields == nil {
			match.fields = make(map[string]Field)
		}
		match.fields[name] = Field{
			Value: grp.String(),
			Start: base + grp.Index,
			End:   base + grp.Index + grp.Length,
		}
	}

	for _, k := range g.kinds {
		if _, ok := match.fields[string(k)]; ok {
			match.Kind = k
			return match, nil
		}
	}
	return Match{}, fmt.Errorf("grammar %s: match at %d has no construct group", g.name, match.Start)
}

func (g *Grammar) hasGroup(name string) bool {
	for _, f := range g.fields {
		if f == name {
			return true
		}
	}
	return false
}
