package dispatch

import (
	"errors"
	"fmt"

	"github.com/gerunddev/dotwiki/internal/grammar"
)

var (
	// ErrUnknownKind is returned when registering a handler for a construct
	// the phase's grammar never produces.
	ErrUnknownKind = errors.New("unknown construct kind")

	// ErrDuplicateHandler is returned when a kind already has a handler.
	ErrDuplicateHandler = errors.New("handler already registered")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("nil handler")
)

// Phase selects the grammar a match comes from.
type Phase int

const (
	Block Phase = iota
	Inline
)

func (p Phase) String() string {
	switch p {
	case Block:
		return "block"
	case Inline:
		return "inline"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) valid() bool { return p == Block || p == Inline }

// Handler rewrites one match into output text.
type Handler func(c *Context, m grammar.Match) (string, error)

// Registry maps construct kinds to handlers, per phase. Registration is not
// safe for use concurrently with rendering.
type Registry struct {
	grammars [2]*grammar.Grammar
	handlers [2]map[grammar.Kind]Handler
}

// NewRegistry creates an empty registry over the two grammars.
func NewRegistry(block, inline *grammar.Grammar) *Registry {
	return &Registry{
		grammars: [2]*grammar.Grammar{block, inline},
		handlers: [2]map[grammar.Kind]Handler{
			make(map[grammar.Kind]Handler),
			make(map[grammar.Kind]Handler),
		},
	}
}

// Grammar returns the grammar scanned in the given phase.
func (r *Registry) Grammar(p Phase) *grammar.Grammar {
	if !p.valid() {
		return nil
	}
	return r.grammars[p]
}

// Register binds h to kind in phase p.
func (r *Registry) Register(p Phase, kind grammar.Kind, h Handler) error {
	if h == nil {
		return fmt.Errorf("%s %s: %w", p, kind, ErrNilHandler)
	}
	g := r.Grammar(p)
	if g == nil || !g.Defines(kind) {
		return fmt.Errorf("%s %s: %w", p, kind, ErrUnknownKind)
	}
	if _, ok := r.handlers[p][kind]; ok {
		return fmt.Errorf("%s %s: %w", p, kind, ErrDuplicateHandler)
	}
	r.handlers[p][kind] = h
	return nil
}

// Unregister removes the handler for kind, if any.
func (r *Registry) Unregister(p Phase, kind grammar.Kind) {
	if p.valid() {
		delete(r.handlers[p], kind)
	}
}

// Handler returns the handler bound to kind.
func (r *Registry) Handler(p Phase, kind grammar.Kind) (Handler, bool) {
	if !p.valid() {
		return nil, false
	}
	h, ok := r.handlers[p][kind]
	return h, ok
}
