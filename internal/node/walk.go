package node

import "iter"

// Event classifies a step of a walk.
type Event int

const (
	// Enter is emitted on the first visit of a node that has children.
	Enter Event = iota
	// Leave is emitted once all children of a node have been visited.
	Leave
	// Singleton is emitted for a node without children.
	Singleton
)

func (e Event) String() string {
	switch e {
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Step is one record of a walk.
type Step struct {
	Event Event
	Node  *Node
	Depth int
}

type walkAction int

const (
	actionStart walkAction = iota
	actionDescend
	actionAdvance
	actionDone
)

// Walker is an iterative depth-first traversal bounded by the node it was
// created with: it never looks at that node's siblings or ancestors, even
// when the node is embedded in a larger tree.
type Walker struct {
	root   *Node
	cur    *Node
	depth  int
	action walkAction
}

// NewWalker creates a walker over the subtree rooted at root.
func NewWalker(root *Node) *Walker {
	return &Walker{root: root}
}

// Reset rewinds the walker to the beginning.
func (w *Walker) Reset() {
	w.cur = nil
	w.depth = 0
	w.action = actionStart
}

// Next returns the next step, or false once the walk is over.
func (w *Walker) Next() (Step, bool) {
	switch w.action {
	case actionStart:
		if w.root == nil {
			w.action = actionDone
			return Step{}, false
		}
		w.cur = w.root
		return w.visit(), true

	case actionDescend:
		w.cur = w.cur.first
		w.depth++
		return w.visit(), true

	case actionAdvance:
		if w.cur == w.root {
			w.action = actionDone
			return Step{}, false
		}
		if w.cur.next != nil {
			w.cur = w.cur.next
			return w.visit(), true
		}
		// Last child done: close the parent. The parent is still inside the
		// walk because cur != root.
		w.cur = w.cur.parent
		w.depth--
		return Step{Event: Leave, Node: w.cur, Depth: w.depth}, true
	}

	return Step{}, false
}

// visit emits the first-visit event for cur and decides what comes next.
func (w *Walker) visit() Step {
	if w.cur.first != nil {
		w.action = actionDescend
		return Step{Event: Enter, Node: w.cur, Depth: w.depth}
	}
	w.action = actionAdvance
	return Step{Event: Singleton, Node: w.cur, Depth: w.depth}
}

// Walk returns a restartable sequence of steps over the subtree at root.
// Every range over it starts a fresh walk.
func Walk(root *Node) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		w := NewWalker(root)
		for {
			step, ok := w.Next()
			if !ok || !yield(step) {
				return
			}
		}
	}
}
