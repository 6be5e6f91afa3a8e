package scope

import (
	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// hooks binds one scope to its capability interfaces. Every function reports
// false when the block lacks the capability.
type hooks struct {
	vars       func(b graph.Block) ([]string, bool)
	typeOf     func(b graph.Block, name string) (vartype.Type, bool)
	changeType func(b graph.Block, name string, t vartype.Type) bool
	rename     func(b graph.Block, oldName, newName string) bool
}

var scopeHooks = map[Scope]hooks{
	Property: {
		vars: func(b graph.Block) ([]string, bool) {
			if h, ok := b.(graph.PropertyVars); ok {
				return h.Vars(), true
			}
			return nil, false
		},
		typeOf: func(b graph.Block, name string) (vartype.Type, bool) {
			if h, ok := b.(graph.PropertyTyper); ok {
				return h.TypeOf(name), true
			}
			return vartype.Any, false
		},
		changeType: func(b graph.Block, name string, t vartype.Type) bool {
			if h, ok := b.(graph.PropertyRetyper); ok {
				h.ChangeType(name, t)
				return true
			}
			return false
		},
		rename: func(b graph.Block, oldName, newName string) bool {
			if h, ok := b.(graph.PropertyRenamer); ok {
				h.RenameVar(oldName, newName)
				return true
			}
			return false
		},
	},
	Local: {
		vars: func(b graph.Block) ([]string, bool) {
			if h, ok := b.(graph.LocalVars); ok {
				return h.LocalVars(), true
			}
			return nil, false
		},
		typeOf: func(b graph.Block, name string) (vartype.Type, bool) {
			if h, ok := b.(graph.LocalTyper); ok {
				return h.LocalTypeOf(name), true
			}
			return vartype.Any, false
		},
		changeType: func(b graph.Block, name string, t vartype.Type) bool {
			if h, ok := b.(graph.LocalRetyper); ok {
				h.LocalChangeType(name, t)
				return true
			}
			return false
		},
		rename: func(b graph.Block, oldName, newName string) bool {
			if h, ok := b.(graph.LocalRenamer); ok {
				h.LocalRenameVar(oldName, newName)
				return true
			}
			return false
		},
	},
	Global: {
		vars: func(b graph.Block) ([]string, bool) {
			if h, ok := b.(graph.GlobalVars); ok {
				return h.GlobalVars(), true
			}
			return nil, false
		},
		typeOf: func(b graph.Block, name string) (vartype.Type, bool) {
			if h, ok := b.(graph.GlobalTyper); ok {
				return h.GlobalTypeOf(name), true
			}
			return vartype.Any, false
		},
		changeType: func(b graph.Block, name string, t vartype.Type) bool {
			if h, ok := b.(graph.GlobalRetyper); ok {
				h.GlobalChangeType(name, t)
				return true
			}
			return false
		},
		rename: func(b graph.Block, oldName, newName string) bool {
			if h, ok := b.(graph.GlobalRenamer); ok {
				h.GlobalRenameVar(oldName, newName)
				return true
			}
			return false
		},
	},
}
