package scope

import (
	"fmt"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// Namespace is the registry's view of a single scope.
type Namespace struct {
	r             *Registry
	scope         Scope
	workspaceOnly bool
}

// Scope returns the scope this namespace covers.
func (n *Namespace) Scope() Scope { return n.scope }

// WorkspaceOnly returns a view of the same scope that ignores declared
// globals when listing variables. It only differs from n for Global.
func (n *Namespace) WorkspaceOnly() *Namespace {
	return &Namespace{r: n.r, scope: n.scope, workspaceOnly: true}
}

func (n *Namespace) hooks() hooks {
	return scopeHooks[n.scope]
}

// staticLister adapts a fixed block list to graph.BlockLister.
type staticLister []graph.Block

func (s staticLister) AllBlocks() []graph.Block { return s }

// blocksOf resolves a traversal root to its blocks and the workspace used
// for type lookups.
func blocksOf(root any) ([]graph.Block, graph.BlockLister, error) {
	switch r := root.(type) {
	case graph.DescendantLister:
		blocks := r.Descendants()
		var ws graph.BlockLister
		if o, ok := root.(graph.WorkspaceOwner); ok {
			ws = o.Workspace()
		}
		if ws == nil {
			ws = staticLister(blocks)
		}
		return blocks, ws, nil
	case graph.BlockLister:
		return r.AllBlocks(), r, nil
	}
	return nil, nil, fmt.Errorf("%w: %T", ErrInvalidRootKind, root)
}

// allBlocks is AllBlocks tolerating a nil workspace.
func allBlocks(ws graph.BlockLister) []graph.Block {
	if ws == nil {
		return nil
	}
	return ws.AllBlocks()
}

// nameSet de-duplicates names case-insensitively, remembering insertion
// order and a display casing per name.
type nameSet struct {
	keys    []string
	display map[string]string
}

func newNameSet() *nameSet {
	return &nameSet{display: make(map[string]string)}
}

// add records name unless an equal name is already present. Empty names
// come from half-built blocks and are ignored.
func (s *nameSet) add(name string) {
	if name == "" {
		return
	}
	k := graph.Key(name)
	if _, ok := s.display[k]; ok {
		return
	}
	s.keys = append(s.keys, k)
	s.display[k] = name
}

// override records name, replacing the display casing of an equal name.
func (s *nameSet) override(name string) {
	if name == "" {
		return
	}
	k := graph.Key(name)
	if _, ok := s.display[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.display[k] = name
}

func (s *nameSet) names() []string {
	out := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.display[k])
	}
	return out
}

func (n *Namespace) collect(blocks []graph.Block) *nameSet {
	set := newNameSet()
	h := n.hooks()
	for _, b := range blocks {
		names, ok := h.vars(b)
		if !ok {
			continue
		}
		for _, name := range names {
			set.add(name)
		}
	}
	if n.scope == Global && !n.workspaceOnly {
		for _, decl := range n.r.decls.All() {
			set.override(decl.Name)
		}
	}
	return set
}

// AllVariables lists the variables of this scope reachable from root, a
// block (its descendants are scanned) or a workspace (every block is
// scanned). Names are unique case-insensitively and appear in discovery
// order, not sorted. The Global scope also lists declared globals, whose
// casing wins over the graph's.
func (n *Namespace) AllVariables(root any) ([]string, error) {
	blocks, _, err := blocksOf(root)
	if err != nil {
		return nil, err
	}
	return n.collect(blocks).names(), nil
}

// AllVariablesAndTypes is AllVariables with each variable's type and
// mutability. Unresolved types are Any.
func (n *Namespace) AllVariablesAndTypes(root any) ([]Binding, error) {
	blocks, ws, err := blocksOf(root)
	if err != nil {
		return nil, err
	}
	names := n.collect(blocks).names()
	out := make([]Binding, 0, len(names))
	for _, name := range names {
		t, _ := n.TypeOf(name, ws)
		out = append(out, Binding{
			Name:    name,
			Scope:   n.scope,
			Type:    t,
			Mutable: !n.IsImmutable(name, ws),
		})
	}
	return out, nil
}

// TypeOf returns the type of a variable. For the Global scope a declared
// type wins unconditionally. Otherwise the first block (in traversal order)
// reporting a type other than Any decides; there is no conflict check.
func (n *Namespace) TypeOf(name string, ws graph.BlockLister) (vartype.Type, bool) {
	if n.scope == Global {
		if decl, ok := n.r.decls.Lookup(name); ok && decl.Type != vartype.Any {
			return decl.Type, true
		}
	}
	h := n.hooks()
	for _, b := range allBlocks(ws) {
		if t, ok := h.typeOf(b, name); ok && t != vartype.Any {
			return t, true
		}
	}
	return vartype.Any, false
}

// RenameVariable renames a variable on every block of the scope. A rename
// onto an existing name merges the two variables; no collision check is
// made. It returns how many blocks were offered the rename.
func (n *Namespace) RenameVariable(oldName, newName string, ws graph.BlockLister) int {
	h := n.hooks()
	count := 0
	for _, b := range allBlocks(ws) {
		if h.rename(b, oldName, newName) {
			count++
		}
	}
	n.r.log.Debugf("renamed %s variable %q to %q (%d blocks offered)", n.scope, oldName, newName, count)
	return count
}

// IsImmutable reports whether the user may not change the variable's type.
// A local is immutable when a block naming it in its VAR field says so; a
// global is immutable when it is declared. Properties are always mutable.
func (n *Namespace) IsImmutable(name string, ws graph.BlockLister) bool {
	switch n.scope {
	case Global:
		_, declared := n.r.decls.Lookup(name)
		return declared
	case Local:
		_, ok := n.immutableProducer(name, ws)
		return ok
	}
	return false
}

// immutableProducer finds the first block that makes a local immutable.
func (n *Namespace) immutableProducer(name string, ws graph.BlockLister) (graph.Block, bool) {
	if n.scope != Local {
		return nil, false
	}
	for _, b := range allBlocks(ws) {
		im, ok := b.(graph.LocalImmutability)
		if !ok {
			continue
		}
		if graph.NamesEqual(name, b.FieldValue(graph.VarField)) && im.LocalIsImmutable() {
			return b, true
		}
	}
	return nil, false
}

// GenerateUniqueName returns a name not used in this scope under root.
func (n *Namespace) GenerateUniqueName(root any) (string, error) {
	return GenerateUniqueName(root, n.AllVariables)
}

// VariablesOf returns the names block b contributes to this scope, or nil
// if b has no variables here.
func (n *Namespace) VariablesOf(b graph.Block) []string {
	names, _ := n.hooks().vars(b)
	return names
}
