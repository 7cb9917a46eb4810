package node

import (
	"errors"
	"testing"
)

func TestNewNodeIsUnattached(t *testing.T) {
	n := New("ul")

	if n.Parent() != nil || n.Next() != nil || n.Prev() != nil {
		t.Error("Expected a fresh node to have no parent and no siblings")
	}
	if n.HasChildren() || n.ChildCount() != 0 {
		t.Error("Expected a fresh node to have no children")
	}
	if n.IsText() {
		t.Error("Expected a named node not to be a text leaf")
	}
	if !NewText("a").IsText() {
		t.Error("Expected NewText to create a text leaf")
	}
}

func TestAppendChild(t *testing.T) {
	body := New("body")
	p := New("p")
	quote := New("blockquote")

	if err := body.AppendChild(p); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	if err := body.AppendChild(quote); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	for _, name := range []string{"strong", "br"} {
		if err := p.AppendChild(New(name)); err != nil {
			t.Fatalf("AppendChild failed: %v", err)
		}
	}
	if err := p.AppendChild(NewText("text")); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}

	if got := body.ChildCount(); got != 2 {
		t.Errorf("Expected 2 children, got %d", got)
	}
	if body.FirstChild() != p || body.LastChild() != quote {
		t.Error("Expected first child p and last child blockquote")
	}
	if p.Next() != quote || quote.Prev() != p {
		t.Error("Expected p and blockquote to be linked siblings")
	}
	if p.Prev() != nil || quote.Next() != nil {
		t.Error("Expected chain ends to have no outer links")
	}
	if quote.Parent() != body {
		t.Error("Expected every child to point at its parent")
	}

	expected := "<body><p><strong /><br />text</p><blockquote /></body>"
	if got := body.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestAppendChildInvalid(t *testing.T) {
	attached := New("li")
	owner := New("ul")
	if err := owner.AppendChild(attached); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}

	root := New("div")
	child := New("ul")
	if err := root.AppendChild(child); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}

	tests := []struct {
		name   string
		parent *Node
		child  *Node
	}{
		{name: "text parent", parent: NewText("x"), child: New("b")},
		{name: "already attached", parent: New("ol"), child: attached},
		{name: "nil child", parent: New("ol"), child: nil},
		{name: "self", parent: root, child: root},
		{name: "attached child of the parent", parent: root, child: child},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.AppendChild(tt.child)
			if !errors.Is(err, ErrInvalidStructure) {
				t.Errorf("Expected ErrInvalidStructure, got %v", err)
			}
		})
	}

	if owner.ChildCount() != 1 || attached.Parent() != owner {
		t.Error("Expected a failed append to leave the tree untouched")
	}
}

func TestInsertSiblingAfter(t *testing.T) {
	ul := New("ul")
	a, c := New("a"), New("c")
	for _, n := range []*Node{a, c} {
		if err := ul.AppendChild(n); err != nil {
			t.Fatalf("AppendChild failed: %v", err)
		}
	}

	b := New("b")
	if err := a.InsertSiblingAfter(b); err != nil {
		t.Fatalf("InsertSiblingAfter failed: %v", err)
	}
	d := New("d")
	if err := c.InsertSiblingAfter(d); err != nil {
		t.Fatalf("InsertSiblingAfter failed: %v", err)
	}

	if got := ul.String(); got != "<ul><a /><b /><c /><d /></ul>" {
		t.Errorf("Unexpected order: %s", got)
	}
	if b.Parent() != ul || d.Parent() != ul {
		t.Error("Expected inserted siblings to inherit the parent")
	}
	if ul.LastChild() != d {
		t.Error("Expected tail pointer to follow an insert at the end")
	}
	assertChain(t, ul)
}

func TestInsertSiblingAfterInvalid(t *testing.T) {
	if err := New("root").InsertSiblingAfter(New("x")); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("Expected ErrInvalidStructure for a parentless node, got %v", err)
	}

	ul := New("ul")
	li := New("li")
	if err := ul.AppendChild(li); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	other := New("ol")
	owned := New("li")
	if err := other.AppendChild(owned); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	if err := li.InsertSiblingAfter(owned); !errors.Is(err, ErrInvalidStructure) {
		t.Errorf("Expected ErrInvalidStructure for an attached sibling, got %v", err)
	}
}

func TestDetach(t *testing.T) {
	ul := New("ul")
	items := []*Node{New("a"), New("b"), New("c")}
	for _, n := range items {
		if err := ul.AppendChild(n); err != nil {
			t.Fatalf("AppendChild failed: %v", err)
		}
	}

	items[1].Detach()
	if got := ul.String(); got != "<ul><a /><c /></ul>" {
		t.Errorf("Unexpected tree after detaching the middle: %s", got)
	}
	items[2].Detach()
	items[0].Detach()
	if ul.HasChildren() || ul.FirstChild() != nil || ul.LastChild() != nil {
		t.Error("Expected an empty chain after detaching every child")
	}

	// A detached node can be attached elsewhere.
	ol := New("ol")
	if err := ol.AppendChild(items[1]); err != nil {
		t.Errorf("Expected re-attaching a detached node to succeed, got %v", err)
	}
}

func TestAttributes(t *testing.T) {
	n := New("li").SetAttr("id", "x").SetAttr("class", "y")

	if v, ok := n.Attr("id"); !ok || v != "x" {
		t.Errorf("Expected id=x, got %q (%v)", v, ok)
	}
	if _, ok := n.Attr("missing"); ok {
		t.Error("Expected missing attribute to be absent")
	}
	keys := n.AttrKeys()
	if len(keys) != 2 || keys[0] != "class" || keys[1] != "id" {
		t.Errorf("Expected sorted keys [class id], got %v", keys)
	}
}

// assertChain checks prev/next symmetry across n's children.
func assertChain(t *testing.T, n *Node) {
	t.Helper()
	var prev *Node
	for child := range n.Children() {
		if child.Prev() != prev {
			t.Errorf("Broken prev link at %q", child.Name)
		}
		if prev != nil && prev.Next() != child {
			t.Errorf("Broken next link at %q", prev.Name)
		}
		prev = child
	}
	if n.LastChild() != prev {
		t.Error("Tail pointer does not match the chain end")
	}
}

func TestAppendChildDeepChain(t *testing.T) {
	const depth = 1 << 18
	root := New("n")
	cur := root
	for range depth {
		next := New("n")
		if err := cur.AppendChild(next); err != nil {
			t.Fatalf("AppendChild failed: %v", err)
		}
		cur = next
	}

	// Appending below the deepest node only touches that node.
	for i := range 1000 {
		if err := cur.AppendChild(NewText("leaf")); err != nil {
			t.Fatalf("AppendChild %d failed: %v", i, err)
		}
	}
	if cur.ChildCount() != 1000 {
		t.Errorf("Expected 1000 leaves, got %d", cur.ChildCount())
	}
	if cur.FirstChild().Parent() != cur || cur.LastChild().Next() != nil {
		t.Error("Expected the leaves to be linked under the deepest node")
	}
}
