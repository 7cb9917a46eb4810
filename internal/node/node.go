// Package node holds the tree used to build nested output before it is
// serialized. Children are kept as a doubly linked sibling chain hanging off
// the parent's first and last child pointers; the parent link is a plain
// back-reference used for walking upwards.
package node

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
)

// ErrInvalidStructure is returned when a mutation would break ownership or
// sibling invariants of the tree.
var ErrInvalidStructure = errors.New("invalid structure")

// Node is an element (non-empty Name) or a text leaf (empty Name).
type Node struct {
	Name  string
	Text  string
	attrs map[string]string

	parent *Node
	first  *Node
	last   *Node
	prev   *Node
	next   *Node
}

// New creates an unattached element node.
func New(name string) *Node {
	return &Node{Name: name}
}

// NewText creates an unattached text leaf.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool { return n.Name == "" }

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) FirstChild() *Node { return n.first }
func (n *Node) LastChild() *Node  { return n.last }
func (n *Node) Next() *Node       { return n.next }
func (n *Node) Prev() *Node       { return n.prev }

// HasChildren reports whether n owns at least one child.
func (n *Node) HasChildren() bool { return n.first != nil }

// Attr returns the value of an attribute and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute and returns n so calls can be chained.
func (n *Node) SetAttr(key, value string) *Node {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	return n
}

// AttrKeys returns the attribute names in sorted order.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AppendChild attaches child as the last element of n's child chain.
func (n *Node) AppendChild(child *Node) error {
	if err := n.checkAdoptable(child); err != nil {
		return err
	}

	child.parent = n
	if n.last == nil {
		n.first = child
	} else {
		n.last.next = child
		child.prev = n.last
	}
	n.last = child
	return nil
}

// InsertSiblingAfter inserts sibling immediately after n, under n's parent.
func (n *Node) InsertSiblingAfter(sibling *Node) error {
	if n.parent == nil {
		return fmt.Errorf("%w: cannot add a sibling to parentless node %q", ErrInvalidStructure, n.Name)
	}
	if err := n.parent.checkAdoptable(sibling); err != nil {
		return err
	}

	sibling.parent = n.parent
	sibling.prev = n
	sibling.next = n.next
	if n.next != nil {
		n.next.prev = sibling
	} else {
		n.parent.last = sibling
	}
	n.next = sibling
	return nil
}

// Detach unlinks n from its parent and siblings. The subtree under n stays
// intact. Detaching a root is a no-op.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.last = n.prev
	}
	n.parent, n.prev, n.next = nil, nil, nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	c := 0
	for child := n.first; child != nil; child = child.next {
		c++
	}
	return c
}

// Children iterates over the direct children in order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for child := n.first; child != nil; {
			next := child.next
			if !yield(child) {
				return
			}
			child = next
		}
	}
}

// String renders the subtree compactly, e.g. <ul><li>a</li></ul>.
func (n *Node) String() string {
	var b strings.Builder
	for step := range Walk(n) {
		switch {
		case step.Node.IsText():
			b.WriteString(step.Node.Text)
		case step.Event == Enter:
			b.WriteString("<" + step.Node.Name + ">")
		case step.Event == Leave:
			b.WriteString("</" + step.Node.Name + ">")
		default:
			b.WriteString("<" + step.Node.Name + " />")
		}
	}
	return b.String()
}

// checkAdoptable verifies that n may take ownership of child.
func (n *Node) checkAdoptable(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidStructure)
	}
	if n.IsText() {
		return fmt.Errorf("%w: text node cannot own children", ErrInvalidStructure)
	}
	if child.parent != nil || child.prev != nil || child.next != nil {
		return fmt.Errorf("%w: node %q is already attached", ErrInvalidStructure, child.Name)
	}
	// child is unattached, so only the root of n's own tree could close a
	// cycle. Only child == n is detected; deeper cases are not checked.
	if child == n {
		return fmt.Errorf("%w: node %q cannot own itself", ErrInvalidStructure, child.Name)
	}
	return nil
}
