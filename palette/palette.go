// Package palette builds the variable flyout: one category per scope listing
// the variables a user can drag out as getter and setter blocks.
package palette

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

// Entry is one variable offered in a category.
type Entry struct {
	Name    string       `json:"name"`
	Type    vartype.Type `json:"type"`
	Mutable bool         `json:"mutable"`
	// Default marks the placeholder variable offered when the name is not
	// otherwise in use.
	Default bool `json:"default,omitempty"`
}

// Category is the flyout content for one scope.
type Category struct {
	Title    string           `json:"title"`
	Scope    scope.Scope      `json:"scope"`
	Category vartype.Category `json:"category"`
	Colour   string           `json:"colour"`
	GetKind  string           `json:"getKind"`
	SetKind  string           `json:"setKind"`
	Entries  []Entry          `json:"entries"`
}

// Names returns the entry names in flyout order.
func (c Category) Names() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Name
	}
	return out
}

type layout struct {
	title    string
	category vartype.Category
	getKind  string
	setKind  string
}

var layouts = map[scope.Scope]layout{
	scope.Global:   {"Global", vartype.CategoryGlobalVariables, "variables_global_get", "variables_global_set"},
	scope.Property: {"Properties", vartype.CategoryVariables, "variables_get", "variables_set"},
	scope.Local:    {"Local", vartype.CategoryLocalVariables, "variables_local_get", "variables_local_set"},
}

// Build returns the categories for ws in order Global, Properties, Local.
// Each lists defaultName first, unless the scope already has a variable of
// that name, followed by the scope's variables sorted case-insensitively.
// An empty defaultName adds no placeholder.
func Build(reg *scope.Registry, ws graph.BlockLister, defaultName string) ([]Category, error) {
	col := collate.New(language.Und, collate.IgnoreCase)

	cats := make([]Category, 0, len(scope.Scopes))
	for _, sc := range scope.Scopes {
		bindings, err := reg.Namespace(sc).AllVariablesAndTypes(ws)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(bindings, func(i, j int) bool {
			return col.CompareString(bindings[i].Name, bindings[j].Name) < 0
		})

		l := layouts[sc]
		cat := Category{
			Title:    l.title,
			Scope:    sc,
			Category: l.category,
			Colour:   vartype.CategoryColour(l.category),
			GetKind:  l.getKind,
			SetKind:  l.setKind,
			Entries:  make([]Entry, 0, len(bindings)+1),
		}
		if defaultName != "" && !contains(bindings, defaultName) {
			cat.Entries = append(cat.Entries, Entry{Name: defaultName, Mutable: true, Default: true})
		}
		for _, b := range bindings {
			cat.Entries = append(cat.Entries, Entry{Name: b.Name, Type: b.Type, Mutable: b.Mutable})
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func contains(bindings []scope.Binding, name string) bool {
	for _, b := range bindings {
		if graph.NamesEqual(b.Name, name) {
			return true
		}
	}
	return false
}
