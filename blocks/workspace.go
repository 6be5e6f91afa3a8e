// Package blocks is an in-memory block graph implementing the capabilities in
// package graph. It models the editor's variable getters and setters for each
// scope, the local-introducing loops, and plain statement blocks that carry no
// variables at all.
//
// A Workspace is not safe for concurrent use. Hosts drive it from a single
// goroutine, normally an eventloop.Loop.
package blocks

import (
	"errors"

	"github.com/google/uuid"

	"github.com/chazu/blockvars/graph"
)

// Node is a block that can live in a Workspace.
type Node interface {
	graph.Block
	base() *Base
}

// Workspace holds a forest of blocks.
type Workspace struct {
	ID string

	top      []Node
	disposed bool
}

// NewWorkspace creates an empty workspace with a fresh id.
func NewWorkspace() *Workspace {
	return &Workspace{ID: uuid.NewString()}
}

// ErrCycle is returned by Attach when the new parent is the block itself or
// one of its descendants.
var ErrCycle = errors.New("block cannot be attached under itself")

// Add attaches n under parent, or as a top-level block when parent is nil.
// It returns n so construction can be chained. Adding to a disposed
// workspace does nothing, and neither does an add that would make n its own
// ancestor.
func (w *Workspace) Add(parent, n Node) Node {
	_ = w.Attach(parent, n)
	return n
}

// Attach is Add reporting ErrCycle instead of ignoring a cyclic add. The
// graph is unchanged when it fails.
func (w *Workspace) Attach(parent, n Node) error {
	if w.disposed {
		return nil
	}
	for p := parent; p != nil; p = p.base().parent {
		if p == n {
			return ErrCycle
		}
	}
	detach(n)
	if parent == nil {
		w.top = append(w.top, n)
	} else {
		p := parent.base()
		p.children = append(p.children, n)
		n.base().parent = parent
	}
	setWorkspace(n, w)
	return nil
}

// Remove detaches n (and its descendants) from the workspace.
func (w *Workspace) Remove(n Node) {
	if n.base().ws != w {
		return
	}
	detach(n)
}

func detach(n Node) {
	b := n.base()
	if b.parent != nil {
		p := b.parent.base()
		p.children = without(p.children, n)
		b.parent = nil
	} else if b.ws != nil {
		b.ws.top = without(b.ws.top, n)
	}
	setWorkspace(n, nil)
}

// TopBlocks returns the top-level blocks in insertion order.
func (w *Workspace) TopBlocks() []Node {
	if w.disposed {
		return nil
	}
	out := make([]Node, len(w.top))
	copy(out, w.top)
	return out
}

// AllBlocks returns every block, depth-first from each top block in order.
func (w *Workspace) AllBlocks() []graph.Block {
	if w.disposed {
		return nil
	}
	var out []graph.Block
	for _, n := range w.top {
		out = appendTree(out, n)
	}
	return out
}

// Len returns the number of blocks in the workspace.
func (w *Workspace) Len() int {
	return len(w.AllBlocks())
}

// Find returns the block with the given id.
func (w *Workspace) Find(id string) (Node, bool) {
	for _, b := range w.AllBlocks() {
		n := b.(Node)
		if n.base().ID == id {
			return n, true
		}
	}
	return nil, false
}

// Dispose tears the workspace down. Every later query returns nothing and
// every later mutation is ignored.
func (w *Workspace) Dispose() {
	w.disposed = true
	w.top = nil
}

// Disposed reports whether Dispose has been called.
func (w *Workspace) Disposed() bool {
	return w.disposed
}

func appendTree(out []graph.Block, n Node) []graph.Block {
	out = append(out, n)
	for _, c := range n.base().children {
		out = appendTree(out, c)
	}
	return out
}

func setWorkspace(n Node, w *Workspace) {
	n.base().ws = w
	for _, c := range n.base().children {
		setWorkspace(c, w)
	}
}

func without(nodes []Node, n Node) []Node {
	out := nodes[:0]
	for _, x := range nodes {
		if x != n {
			out = append(out, x)
		}
	}
	return out
}

// Info returns the id and kind of a block built by this package.
func Info(b graph.Block) (id, kind string, ok bool) {
	n, ok := b.(Node)
	if !ok {
		return "", "", false
	}
	return n.base().ID, n.base().Kind, true
}
