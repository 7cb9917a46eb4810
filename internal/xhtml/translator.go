// Package xhtml renders dotclear wiki markup to XHTML.
//
// Each block and inline construct of the dotclear grammar has a handler
// registered with a dispatcher. Lists go through the list tree builder and
// the serializer; footnotes are collected during the render and appended as
// a tree once the document is done.
package xhtml

import (
	"fmt"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/grammar"
	"github.com/gerunddev/dotwiki/internal/logger"
	"github.com/gerunddev/dotwiki/internal/serialize"
)

// DefaultFootnotePrefix prefixes footnote ids.
const DefaultFootnotePrefix = "wiki-footnote-"

type options struct {
	indent         string
	footnotePrefix string
	disabled       map[grammar.Kind]bool
	log            *logger.Logger
}

// Option configures a Translator.
type Option func(*options)

// WithIndent sets the indentation used for lists and footnotes.
func WithIndent(indent string) Option {
	return func(o *options) { o.indent = indent }
}

// WithFootnotePrefix sets the prefix of footnote anchors.
func WithFootnotePrefix(prefix string) Option {
	return func(o *options) { o.footnotePrefix = prefix }
}

// WithDisabled leaves the given constructs without a handler, so they pass
// through unchanged with a diagnostic.
func WithDisabled(kinds ...string) Option {
	return func(o *options) {
		for _, k := range kinds {
			o.disabled[grammar.Kind(k)] = true
		}
	}
}

// WithLogger sets the logger diagnostics are mirrored to.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Translator renders documents. It is safe for concurrent use.
type Translator struct {
	d              *dispatch.Dispatcher
	ser            *serialize.Serializer
	footnotePrefix string
}

// New compiles the grammars and registers every enabled handler.
func New(opts ...Option) (*Translator, error) {
	o := options{
		indent:         serialize.DefaultIndent,
		footnotePrefix: DefaultFootnotePrefix,
		disabled:       make(map[grammar.Kind]bool),
		log:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	block, err := grammar.Block()
	if err != nil {
		return nil, err
	}
	inline, err := grammar.Inline()
	if err != nil {
		return nil, err
	}

	t := &Translator{
		ser:            serialize.New(serialize.WithIndent(o.indent)),
		footnotePrefix: o.footnotePrefix,
	}

	for k := range o.disabled {
		if !block.Defines(k) && !inline.Defines(k) {
			return nil, fmt.Errorf("cannot disable %q: %w", k, dispatch.ErrUnknownKind)
		}
	}

	reg := dispatch.NewRegistry(block, inline)
	phases := []struct {
		phase    dispatch.Phase
		g        *grammar.Grammar
		handlers map[grammar.Kind]dispatch.Handler
	}{
		{dispatch.Block, block, t.blockHandlers()},
		{dispatch.Inline, inline, t.inlineHandlers()},
	}
	for _, p := range phases {
		for _, k := range p.g.Kinds() {
			if o.disabled[k] {
				continue
			}
			if err := reg.Register(p.phase, k, p.handlers[k]); err != nil {
				return nil, err
			}
		}
	}

	t.d = dispatch.New(reg,
		dispatch.WithLogger(o.log),
		dispatch.WithEpilogue(t.footnotes))
	return t, nil
}

// Render transforms text. With skipBlocks only inline constructs are
// rendered.
func (t *Translator) Render(text string, skipBlocks bool) (*dispatch.Result, error) {
	return t.d.Render(text, skipBlocks)
}

// Dispatcher exposes the underlying dispatcher.
func (t *Translator) Dispatcher() *dispatch.Dispatcher { return t.d }
