package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gerunddev/dotwiki/internal/grammar"
)

// Diagnostic reports a construct that was passed through or only partly
// rendered. Offsets are in runes.
type Diagnostic struct {
	Kind    grammar.Kind
	Start   int
	End     int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("warning: [%s](%d, %d): %s", d.Kind, d.Start, d.End, d.Message)
}

// Context carries the state of a single render. It is not shared between
// renders and not safe for concurrent use.
type Context struct {
	id          string
	d           *Dispatcher
	diagnostics []Diagnostic
	values      map[string]any
}

func newContext(d *Dispatcher) *Context {
	return &Context{id: uuid.NewString(), d: d}
}

// ID identifies the render in logs.
func (c *Context) ID() string { return c.id }

// Inline runs the inline phase over text.
func (c *Context) Inline(text string) (string, error) {
	return c.d.Run(c, Inline, text, 0)
}

// InlineAt runs the inline phase over text found at rune offset base.
func (c *Context) InlineAt(text string, base int) (string, error) {
	return c.d.Run(c, Inline, text, base)
}

// InlineField runs the inline phase over a field of m, keeping its offsets.
// An absent field renders as "".
func (c *Context) InlineField(m grammar.Match, name string) (string, error) {
	f, ok := m.Lookup(name)
	if !ok {
		return "", nil
	}
	return c.d.Run(c, Inline, f.Value, f.Start)
}

// Warn records a diagnostic spanning m.
func (c *Context) Warn(m grammar.Match, message string) {
	c.Report(Diagnostic{Kind: m.Kind, Start: m.Start, End: m.End, Message: message})
}

// Report records a diagnostic.
func (c *Context) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	c.d.log.Diagnostic(c.id, string(d.Kind), d.Start, d.End, d.Message)
}

// Diagnostics returns the diagnostics recorded so far, in order.
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Set stores a per-render value.
func (c *Context) Set(key string, v any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = v
}

// Value returns a per-render value.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}
