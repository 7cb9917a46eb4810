// Package serialize renders a node tree as indented markup.
package serialize

import (
	"strings"

	"github.com/gerunddev/dotwiki/internal/node"
)

// DefaultIndent is repeated once per depth level.
const DefaultIndent = " "

// Option configures a Serializer.
type Option func(*Serializer)

// WithIndent sets the per-level indentation.
func WithIndent(indent string) Option {
	return func(s *Serializer) { s.indent = indent }
}

// WithTight controls whether text leaves hug the tags around them.
func WithTight(tight bool) Option {
	return func(s *Serializer) { s.tight = tight }
}

// Serializer turns walker events into text. Text leaves and attribute
// values are written verbatim; escaping is the caller's job.
type Serializer struct {
	indent string
	tight  bool
}

// New creates a serializer. It is tight with a one-space indent unless
// configured otherwise.
func New(opts ...Option) *Serializer {
	s := &Serializer{indent: DefaultIndent, tight: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render serializes the subtree rooted at root, one event per line. In
// tight mode a text leaf that opens its parent stays on the open tag's line
// and a close tag following a text leaf stays on the leaf's line.
func (s *Serializer) Render(root *node.Node) string {
	var b strings.Builder

	for step := range node.Walk(root) {
		n := step.Node
		switch step.Event {
		case node.Enter:
			s.newline(&b, step.Depth)
			writeOpen(&b, n, false)

		case node.Leave:
			if !s.tight || !n.LastChild().IsText() {
				s.newline(&b, step.Depth)
			}
			b.WriteString("</" + n.Name + ">")

		case node.Singleton:
			if !n.IsText() {
				s.newline(&b, step.Depth)
				writeOpen(&b, n, true)
				continue
			}
			if !s.tight || n == root || n.Prev() != nil {
				s.newline(&b, step.Depth)
			}
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

func (s *Serializer) newline(b *strings.Builder, depth int) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(s.indent, depth))
}

func writeOpen(b *strings.Builder, n *node.Node, selfClosing bool) {
	b.WriteString("<" + n.Name)
	for _, k := range n.AttrKeys() {
		v, _ := n.Attr(k)
		b.WriteString(" " + k + `="` + v + `"`)
	}
	if selfClosing {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
}
