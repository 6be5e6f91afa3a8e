package blocks

import (
	"github.com/google/uuid"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// TypeField is the field id holding a variable block's declared type.
const TypeField = "TYPE"

// Base carries the state shared by every block: identity, kind, fields and
// tree position.
type Base struct {
	ID   string
	Kind string

	self     Node
	fields   map[string]string
	parent   Node
	children []Node
	ws       *Workspace
}

func (b *Base) base() *Base { return b }

func (b *Base) init(self Node, kind string) {
	b.ID = uuid.NewString()
	b.Kind = kind
	b.self = self
	b.fields = make(map[string]string)
}

// FieldValue returns the value of a field, or "" if unset.
func (b *Base) FieldValue(id string) string {
	return b.fields[id]
}

// SetFieldValue sets a field. Blocks of a disposed workspace ignore writes.
func (b *Base) SetFieldValue(value, id string) {
	if !b.live() {
		return
	}
	b.fields[id] = value
}

// Descendants returns this block and every block nested under it,
// depth-first.
func (b *Base) Descendants() []graph.Block {
	if !b.live() {
		return nil
	}
	return appendTree(nil, b.self)
}

// Workspace returns the workspace the block lives in. The result is a nil
// interface for detached blocks.
func (b *Base) Workspace() graph.BlockLister {
	if b.ws == nil {
		return nil
	}
	return b.ws
}

// Parent returns the enclosing block, or nil for a top-level block.
func (b *Base) Parent() Node { return b.parent }

// Children returns the directly nested blocks.
func (b *Base) Children() []Node {
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

func (b *Base) live() bool {
	return b.ws == nil || !b.ws.disposed
}

// ---------------------------------------------------------------------------
// Plain statements
// ---------------------------------------------------------------------------

// Statement is a block with no variable capabilities, e.g. controls_repeat or
// an event handler. It exists so graphs contain blocks the registry skips.
type Statement struct {
	Base
}

// NewStatement creates a plain block of the given kind.
func NewStatement(kind string) *Statement {
	s := &Statement{}
	s.init(s, kind)
	return s
}

// ---------------------------------------------------------------------------
// Variable getters and setters
// ---------------------------------------------------------------------------

// varBlock is the shared core of the getter/setter blocks of every scope.
type varBlock struct {
	Base
}

func (v *varBlock) setup(self Node, kind, name string, t vartype.Type) {
	v.init(self, kind)
	v.fields[graph.VarField] = name
	v.fields[TypeField] = string(t)
}

// Name returns the referenced variable name.
func (v *varBlock) Name() string { return v.FieldValue(graph.VarField) }

// Type returns the type the block currently carries.
func (v *varBlock) Type() vartype.Type { return vartype.Type(v.FieldValue(TypeField)) }

func (v *varBlock) vars() []string {
	return []string{v.Name()}
}

func (v *varBlock) typeOf(name string) vartype.Type {
	if graph.NamesEqual(name, v.Name()) {
		return v.Type()
	}
	return vartype.Any
}

func (v *varBlock) changeType(name string, t vartype.Type) {
	if graph.NamesEqual(name, v.Name()) {
		v.SetFieldValue(string(t), TypeField)
	}
}

func (v *varBlock) rename(oldName, newName string) {
	if graph.NamesEqual(oldName, v.Name()) {
		v.SetFieldValue(newName, graph.VarField)
	}
}

// PropertyVar is a variables_get / variables_set block on an instance
// property.
type PropertyVar struct {
	varBlock
}

// NewPropertyGetter creates a variables_get block.
func NewPropertyGetter(name string, t vartype.Type) *PropertyVar {
	return newPropertyVar("variables_get", name, t)
}

// NewPropertySetter creates a variables_set block.
func NewPropertySetter(name string, t vartype.Type) *PropertyVar {
	return newPropertyVar("variables_set", name, t)
}

func newPropertyVar(kind, name string, t vartype.Type) *PropertyVar {
	p := &PropertyVar{}
	p.setup(p, kind, name, t)
	return p
}

func (p *PropertyVar) Vars() []string                         { return p.vars() }
func (p *PropertyVar) TypeOf(name string) vartype.Type        { return p.typeOf(name) }
func (p *PropertyVar) ChangeType(name string, t vartype.Type) { p.changeType(name, t) }
func (p *PropertyVar) RenameVar(oldName, newName string)      { p.rename(oldName, newName) }

// LocalVar is a variables_local_get / variables_local_set block.
type LocalVar struct {
	varBlock
}

// NewLocalGetter creates a variables_local_get block.
func NewLocalGetter(name string, t vartype.Type) *LocalVar {
	return newLocalVar("variables_local_get", name, t)
}

// NewLocalSetter creates a variables_local_set block.
func NewLocalSetter(name string, t vartype.Type) *LocalVar {
	return newLocalVar("variables_local_set", name, t)
}

func newLocalVar(kind, name string, t vartype.Type) *LocalVar {
	l := &LocalVar{}
	l.setup(l, kind, name, t)
	return l
}

func (l *LocalVar) LocalVars() []string                         { return l.vars() }
func (l *LocalVar) LocalTypeOf(name string) vartype.Type        { return l.typeOf(name) }
func (l *LocalVar) LocalChangeType(name string, t vartype.Type) { l.changeType(name, t) }
func (l *LocalVar) LocalRenameVar(oldName, newName string)      { l.rename(oldName, newName) }

// GlobalVar is a variables_global_get / variables_global_set block.
type GlobalVar struct {
	varBlock
}

// NewGlobalGetter creates a variables_global_get block.
func NewGlobalGetter(name string, t vartype.Type) *GlobalVar {
	return newGlobalVar("variables_global_get", name, t)
}

// NewGlobalSetter creates a variables_global_set block.
func NewGlobalSetter(name string, t vartype.Type) *GlobalVar {
	return newGlobalVar("variables_global_set", name, t)
}

func newGlobalVar(kind, name string, t vartype.Type) *GlobalVar {
	g := &GlobalVar{}
	g.setup(g, kind, name, t)
	return g
}

func (g *GlobalVar) GlobalVars() []string                         { return g.vars() }
func (g *GlobalVar) GlobalTypeOf(name string) vartype.Type        { return g.typeOf(name) }
func (g *GlobalVar) GlobalChangeType(name string, t vartype.Type) { g.changeType(name, t) }
func (g *GlobalVar) GlobalRenameVar(oldName, newName string)      { g.rename(oldName, newName) }

// ---------------------------------------------------------------------------
// Loops introducing locals
// ---------------------------------------------------------------------------

// ForLoop is controls_for_local: count VAR from FROM to TO by BY. The counter
// is always a Number and its type cannot be changed, so the block reports a
// type but deliberately has no retype hook.
type ForLoop struct {
	Base
}

// NewForLoop creates a counting loop over the named local.
func NewForLoop(name string) *ForLoop {
	f := &ForLoop{}
	f.init(f, "controls_for_local")
	f.fields[graph.VarField] = name
	return f
}

// Name returns the counter variable.
func (f *ForLoop) Name() string { return f.FieldValue(graph.VarField) }

func (f *ForLoop) LocalVars() []string { return []string{f.Name()} }

func (f *ForLoop) LocalTypeOf(name string) vartype.Type {
	if graph.NamesEqual(name, f.Name()) {
		return vartype.Number
	}
	return vartype.Any
}

func (f *ForLoop) LocalIsImmutable() bool { return true }

func (f *ForLoop) LocalRenameVar(oldName, newName string) {
	if graph.NamesEqual(oldName, f.Name()) {
		f.SetFieldValue(newName, graph.VarField)
	}
}

// ForEach is controls_forEach_local: bind VAR to each item of LIST. The item
// type is unknown, so the block only contributes the name.
type ForEach struct {
	Base
}

// NewForEach creates a for-each loop over the named local.
func NewForEach(name string) *ForEach {
	f := &ForEach{}
	f.init(f, "controls_forEach_local")
	f.fields[graph.VarField] = name
	return f
}

// Name returns the item variable.
func (f *ForEach) Name() string { return f.FieldValue(graph.VarField) }

func (f *ForEach) LocalVars() []string { return []string{f.Name()} }

func (f *ForEach) LocalRenameVar(oldName, newName string) {
	if graph.NamesEqual(oldName, f.Name()) {
		f.SetFieldValue(newName, graph.VarField)
	}
}
