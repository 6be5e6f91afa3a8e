// Package graph declares the capabilities a visual block graph exposes to the
// variable registry.
//
// Each capability is its own small interface. A block implements whichever
// subset applies to it; the registry type-asserts before every dispatch and
// silently skips blocks that lack the capability in question.
package graph

import (
	"strings"

	"github.com/chazu/blockvars/vartype"
)

// VarField is the field id holding a block's variable name.
const VarField = "VAR"

// Block is the minimal node interface: every block can report field values.
type Block interface {
	FieldValue(id string) string
}

// DescendantLister is implemented by blocks usable as a traversal root.
// The result includes the block itself.
type DescendantLister interface {
	Descendants() []Block
}

// BlockLister is implemented by workspaces. AllBlocks returns every block in
// traversal order.
type BlockLister interface {
	AllBlocks() []Block
}

// WorkspaceOwner is implemented by blocks that know their workspace.
type WorkspaceOwner interface {
	Workspace() BlockLister
}

// Disposable is implemented by graphs that can be torn down. Work scheduled
// against a disposed graph is dropped.
type Disposable interface {
	Disposed() bool
}

// ---------------------------------------------------------------------------
// Property scope
// ---------------------------------------------------------------------------

type PropertyVars interface {
	Vars() []string
}

type PropertyTyper interface {
	TypeOf(name string) vartype.Type
}

type PropertyRetyper interface {
	ChangeType(name string, t vartype.Type)
}

type PropertyRenamer interface {
	RenameVar(oldName, newName string)
}

// ---------------------------------------------------------------------------
// Local scope
// ---------------------------------------------------------------------------

type LocalVars interface {
	LocalVars() []string
}

type LocalTyper interface {
	LocalTypeOf(name string) vartype.Type
}

type LocalRetyper interface {
	LocalChangeType(name string, t vartype.Type)
}

type LocalRenamer interface {
	LocalRenameVar(oldName, newName string)
}

// LocalImmutability is implemented by blocks that introduce a local whose
// type the user may not change, such as a counting loop's counter.
type LocalImmutability interface {
	LocalIsImmutable() bool
}

// ---------------------------------------------------------------------------
// Global scope
// ---------------------------------------------------------------------------

type GlobalVars interface {
	GlobalVars() []string
}

type GlobalTyper interface {
	GlobalTypeOf(name string) vartype.Type
}

type GlobalRetyper interface {
	GlobalChangeType(name string, t vartype.Type)
}

type GlobalRenamer interface {
	GlobalRenameVar(oldName, newName string)
}

// NamesEqual reports whether two variable names denote the same binding.
// Identity is case-insensitive.
func NamesEqual(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// Key returns the identity key for a variable name.
func Key(name string) string {
	return strings.ToLower(name)
}
