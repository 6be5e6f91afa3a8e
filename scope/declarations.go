package scope

import (
	"sync"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// Declaration is a global declared from outside the block graph, e.g. by the
// host project. Declared globals are immutable inside the editor.
type Declaration struct {
	Name string       `toml:"name" json:"name"`
	Type vartype.Type `toml:"type" json:"type"`
}

// Declarations is the ordered list of externally declared globals for one
// project. It is safe for concurrent use.
type Declarations struct {
	mu   sync.RWMutex
	list []Declaration
}

// NewDeclarations returns an empty declaration list.
func NewDeclarations() *Declarations {
	return &Declarations{}
}

// Add declares a global. An empty type defaults to Boolean. If a global of
// the same name (case-insensitively) is already declared, Add leaves it
// untouched and returns false.
func (d *Declarations) Add(name string, t vartype.Type) bool {
	if name == "" {
		return false
	}
	if t == vartype.Any {
		t = vartype.Boolean
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, decl := range d.list {
		if graph.NamesEqual(decl.Name, name) {
			return false
		}
	}
	d.list = append(d.list, Declaration{Name: name, Type: t})
	return true
}

// Remove drops every declaration matching name case-insensitively. It
// reports whether anything was removed.
func (d *Declarations) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.list[:0]
	for _, decl := range d.list {
		if !graph.NamesEqual(decl.Name, name) {
			kept = append(kept, decl)
		}
	}
	removed := len(kept) != len(d.list)
	d.list = kept
	return removed
}

// Clear drops every declaration. Blocks already using those globals are not
// touched.
func (d *Declarations) Clear() {
	d.mu.Lock()
	d.list = nil
	d.mu.Unlock()
}

// Lookup finds a declaration by case-insensitive name.
func (d *Declarations) Lookup(name string) (Declaration, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, decl := range d.list {
		if graph.NamesEqual(decl.Name, name) {
			return decl, true
		}
	}
	return Declaration{}, false
}

// All returns a copy of the declarations in declaration order.
func (d *Declarations) All() []Declaration {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Declaration, len(d.list))
	copy(out, d.list)
	return out
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.list)
}

// Replace swaps the whole list in one step, applying the same defaulting
// and de-duplication rules as Add.
func (d *Declarations) Replace(decls []Declaration) {
	fresh := NewDeclarations()
	for _, decl := range decls {
		fresh.Add(decl.Name, decl.Type)
	}

	d.mu.Lock()
	d.list = fresh.list
	d.mu.Unlock()
}
