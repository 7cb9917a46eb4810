// Package listtree turns flat, prefix-delimited list fragments into a tree
// of nested list containers.
package listtree

import (
	"errors"
	"fmt"

	"github.com/gerunddev/dotwiki/internal/node"
)

// ErrMalformedFragmentSequence is returned when the fragments cannot describe
// a well-nested list.
var ErrMalformedFragmentSequence = errors.New("malformed fragment sequence")

// Node names used in the built tree.
const (
	Container     = "div"
	UnorderedList = "ul"
	OrderedList   = "ol"
	ListItem      = "li"
)

// Rewriter turns fragment content into the text stored in an item.
type Rewriter func(f Fragment) (string, error)

// Option configures a Builder.
type Option func(*Builder)

// WithRewriter sets the function applied to each fragment's content.
func WithRewriter(fn Rewriter) Option {
	return func(b *Builder) { b.rewrite = fn }
}

// Builder grows a list tree one fragment at a time.
type Builder struct {
	root    *node.Node
	cur     *node.Node // container receiving the next item
	prev    string
	rewrite Rewriter
}

// NewBuilder creates a builder with an empty synthetic container as root.
func NewBuilder(opts ...Option) *Builder {
	root := node.New(Container)
	b := &Builder{root: root, cur: root}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root returns the synthetic container holding the top-level lists.
func (b *Builder) Root() *node.Node { return b.root }

// Add places a fragment in the tree.
func (b *Builder) Add(f Fragment) error {
	if f.Prefix == "" {
		return fmt.Errorf("%w: empty marker prefix", ErrMalformedFragmentSequence)
	}
	if r := markerRun(f.Prefix); r != f.Prefix {
		return fmt.Errorf("%w: invalid marker prefix %q", ErrMalformedFragmentSequence, f.Prefix)
	}
	if b.prev == "" && len(f.Prefix) != 1 {
		return fmt.Errorf("%w: first fragment must be at depth 1, got %q", ErrMalformedFragmentSequence, f.Prefix)
	}

	common := commonPrefixLen(b.prev, f.Prefix)
	for i := len(b.prev); i > common; i-- {
		if err := b.ascend(); err != nil {
			return err
		}
	}
	for i := common; i < len(f.Prefix); i++ {
		if err := b.descend(f.Prefix[i]); err != nil {
			return err
		}
	}

	content := f.Content
	if b.rewrite != nil {
		var err error
		if content, err = b.rewrite(f); err != nil {
			return err
		}
	}

	item := node.New(ListItem)
	if err := item.AppendChild(node.NewText(content)); err != nil {
		return err
	}
	if err := b.cur.AppendChild(item); err != nil {
		return err
	}

	b.prev = f.Prefix
	return nil
}

// ascend moves the insertion point from a nested container up to the
// container owning its item.
func (b *Builder) ascend() error {
	p := b.cur.Parent()
	if p == nil {
		return fmt.Errorf("%w: cannot ascend above the root", ErrMalformedFragmentSequence)
	}
	if p.Name == ListItem {
		p = p.Parent()
	}
	b.cur = p
	return nil
}

// descend opens a new container of the given type one level down.
func (b *Builder) descend(symbol byte) error {
	name := UnorderedList
	if symbol == Ordered {
		name = OrderedList
	}

	host := b.cur
	if host != b.root {
		item := host.LastChild()
		if item == nil || item.Name != ListItem {
			// Skipping a level: the new container needs an item to live in.
			item = node.New(ListItem)
			if err := host.AppendChild(item); err != nil {
				return err
			}
		}
		host = item
	}

	list := node.New(name)
	if err := host.AppendChild(list); err != nil {
		return err
	}
	b.cur = list
	return nil
}

// Build feeds all fragments into a new builder and returns the root.
func Build(frags []Fragment, opts ...Option) (*node.Node, error) {
	b := NewBuilder(opts...)
	for i, f := range frags {
		if err := b.Add(f); err != nil {
			return nil, fmt.Errorf("fragment %d: %w", i, err)
		}
	}
	return b.Root(), nil
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
