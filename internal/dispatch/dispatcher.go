// Package dispatch routes classified matches to registered handlers and
// drives the two-phase (block, then inline) render of a document.
package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/gerunddev/dotwiki/internal/grammar"
	"github.com/gerunddev/dotwiki/internal/logger"
)

// Fallback renders a match whose kind has no handler.
type Fallback func(c *Context, p Phase, m grammar.Match) (string, error)

// PassThrough reports the match and returns its source text unchanged.
func PassThrough(c *Context, p Phase, m grammar.Match) (string, error) {
	c.Warn(m, fmt.Sprintf("missing %s handler", p))
	return m.Text, nil
}

// Epilogue produces text appended after the rendered document, such as
// collected footnotes.
type Epilogue func(c *Context) (string, error)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger diagnostics are mirrored to.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithFallback replaces PassThrough.
func WithFallback(f Fallback) Option {
	return func(d *Dispatcher) { d.fallback = f }
}

// WithEpilogue adds an epilogue. Epilogues run in the order added.
func WithEpilogue(e Epilogue) Option {
	return func(d *Dispatcher) { d.epilogues = append(d.epilogues, e) }
}

// Result is the outcome of one render.
type Result struct {
	ID          string
	Output      string
	Diagnostics []Diagnostic
}

// Dispatcher renders documents with the handlers of a Registry. Once
// configured it can serve concurrent renders; each gets its own Context.
type Dispatcher struct {
	reg       *Registry
	log       *logger.Logger
	fallback  Fallback
	epilogues []Epilogue
}

// New creates a dispatcher over reg.
func New(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reg:      reg,
		log:      logger.Discard(),
		fallback: PassThrough,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the dispatcher's registry.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// NewContext starts a render outside of Render, mostly for tests and for
// callers dispatching single matches.
func (d *Dispatcher) NewContext() *Context { return newContext(d) }

// Dispatch renders a single match.
func (d *Dispatcher) Dispatch(c *Context, p Phase, m grammar.Match) (string, error) {
	h, ok := d.reg.Handler(p, m.Kind)
	if !ok {
		return d.fallback(c, p, m)
	}
	out, err := h(c, m)
	if err != nil {
		return "", fmt.Errorf("%s %s at %d: %w", p, m.Kind, m.Start, err)
	}
	return out, nil
}

// Run scans text with the phase's grammar and replaces every match by its
// rendering. Text between matches is copied unchanged. base is the rune
// offset of text in the document.
func (d *Dispatcher) Run(c *Context, p Phase, text string, base int) (string, error) {
	g := d.reg.Grammar(p)
	if g == nil {
		return "", fmt.Errorf("no grammar for %s phase", p)
	}

	matches, err := g.ScanAt(text, base)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return text, nil
	}

	runes := []rune(text)
	var sb strings.Builder
	pos := 0
	for _, m := range matches {
		sb.WriteString(string(runes[pos : m.Start-base]))
		out, err := d.Dispatch(c, p, m)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
		pos = m.End - base
	}
	sb.WriteString(string(runes[pos:]))
	return sb.String(), nil
}

// Render transforms a whole document. With skipBlocks only the inline phase
// runs, over the entire text.
func (d *Dispatcher) Render(text string, skipBlocks bool) (*Result, error) {
	start := time.Now()
	c := newContext(d)
	d.log.RenderStarted(c.id, len([]rune(text)), skipBlocks)

	phase := Block
	if skipBlocks {
		phase = Inline
	}
	out, err := d.Run(c, phase, text, 0)
	if err != nil {
		return nil, err
	}

	for _, e := range d.epilogues {
		tail, err := e(c)
		if err != nil {
			return nil, fmt.Errorf("epilogue: %w", err)
		}
		out += tail
	}

	d.log.RenderCompleted(c.id, len(c.diagnostics), time.Since(start))
	return &Result{ID: c.id, Output: out, Diagnostics: c.Diagnostics()}, nil
}
