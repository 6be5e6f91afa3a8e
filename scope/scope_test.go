package scope

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/blockvars/blocks"
	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// halfBuilt reports an empty property name, as a block being dragged out of
// the flyout does.
type halfBuilt struct{}

func (halfBuilt) FieldValue(string) string { return "" }
func (halfBuilt) Vars() []string           { return []string{""} }

// lockedLocal fixes the type of a local without reporting one.
type lockedLocal struct{ name string }

func (l lockedLocal) FieldValue(id string) string {
	if id == graph.VarField {
		return l.name
	}
	return ""
}
func (l lockedLocal) LocalVars() []string    { return []string{l.name} }
func (l lockedLocal) LocalIsImmutable() bool { return true }

// loopWorkspace builds:
//
//	for i ...                     (immutable local Number)
//	  local get i : Number
//	  local set i : Number
//	  set x : String              (property)
//	global get Score : Any
func loopWorkspace() (*blocks.Workspace, *blocks.LocalVar, *blocks.LocalVar) {
	ws := blocks.NewWorkspace()
	loop := ws.Add(nil, blocks.NewForLoop("i"))
	get := blocks.NewLocalGetter("i", vartype.Number)
	set := blocks.NewLocalSetter("i", vartype.Number)
	ws.Add(loop, get)
	ws.Add(loop, set)
	ws.Add(loop, blocks.NewPropertySetter("x", vartype.String))
	ws.Add(nil, blocks.NewGlobalGetter("Score", vartype.Any))
	return ws, get, set
}

func sortedLower(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestCaseInsensitiveIdentity(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewPropertySetter("Speed", vartype.Number))
	ws.Add(nil, blocks.NewPropertyGetter("speed", vartype.Number))
	ws.Add(nil, blocks.NewPropertyGetter("SPEED", vartype.Number))

	r := NewRegistry()
	got, err := r.Property().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Speed"}, got); diff != "" {
		t.Errorf("AllVariables mismatch (-want +got):\n%s", diff)
	}

	typ, ok := r.Property().TypeOf("sPeEd", ws)
	if !ok || typ != vartype.Number {
		t.Errorf("TypeOf(sPeEd) = %q, %v, want Number", typ, ok)
	}
}

func TestAllVariablesPerScope(t *testing.T) {
	ws, _, _ := loopWorkspace()
	r := NewRegistry()

	tests := []struct {
		ns   *Namespace
		want []string
	}{
		{r.Local(), []string{"i"}},
		{r.Property(), []string{"x"}},
		{r.Global(), []string{"Score"}},
	}
	for _, tt := range tests {
		got, err := tt.ns.AllVariables(ws)
		if err != nil {
			t.Fatalf("%s: %v", tt.ns.Scope(), err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s AllVariables mismatch (-want +got):\n%s", tt.ns.Scope(), diff)
		}
	}
}

func TestAllVariablesFromBlockRoot(t *testing.T) {
	ws := blocks.NewWorkspace()
	a := ws.Add(nil, blocks.NewStatement("kiwi_event_animation"))
	ws.Add(a, blocks.NewPropertyGetter("inside", vartype.Any))
	ws.Add(nil, blocks.NewPropertyGetter("outside", vartype.Any))

	got, err := NewRegistry().Property().AllVariables(a)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"inside"}, got); diff != "" {
		t.Errorf("AllVariables(block) mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidRootKind(t *testing.T) {
	r := NewRegistry()
	for _, root := range []any{nil, "workspace", halfBuilt{}} {
		if _, err := r.Property().AllVariables(root); !errors.Is(err, ErrInvalidRootKind) {
			t.Errorf("AllVariables(%T) error = %v, want ErrInvalidRootKind", root, err)
		}
		if _, err := r.Global().AllVariablesAndTypes(root); !errors.Is(err, ErrInvalidRootKind) {
			t.Errorf("AllVariablesAndTypes(%T) error = %v, want ErrInvalidRootKind", root, err)
		}
	}
}

func TestHalfBuiltNamesSkipped(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewPropertyGetter("", vartype.Any))
	ws.Add(nil, blocks.NewPropertyGetter("a", vartype.Any))

	got, err := NewRegistry().Property().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, got); diff != "" {
		t.Errorf("AllVariables mismatch (-want +got):\n%s", diff)
	}

	got, err = NewRegistry().Property().AllVariables(staticLister{halfBuilt{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("AllVariables(half built) = %v, want empty", got)
	}
}

func TestIdempotentRecompute(t *testing.T) {
	ws, _, _ := loopWorkspace()
	ws.Add(nil, blocks.NewPropertyGetter("Y", vartype.Any))
	ws.Add(nil, blocks.NewPropertyGetter("z", vartype.Any))
	r := NewRegistry()

	first, err := r.Property().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Property().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sortedLower(first), sortedLower(second)); diff != "" {
		t.Errorf("recompute changed the set (-first +second):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Globals and declarations
// ---------------------------------------------------------------------------

func TestDeclaredGlobalPrecedence(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewGlobalGetter("Score", vartype.Any))

	r := NewRegistry()
	r.Declarations().Add("score", vartype.Number)

	typ, ok := r.Global().TypeOf("score", ws)
	if !ok || typ != vartype.Number {
		t.Errorf("TypeOf(score) = %q, %v, want Number", typ, ok)
	}

	// The declared type also beats a conflicting graph answer.
	ws.Add(nil, blocks.NewGlobalSetter("SCORE", vartype.String))
	typ, _ = r.Global().TypeOf("Score", ws)
	if typ != vartype.Number {
		t.Errorf("TypeOf with conflicting block = %q, want Number", typ)
	}
}

func TestDeclaredGlobalsJoinListing(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewGlobalGetter("SCORE", vartype.Any))
	ws.Add(nil, blocks.NewGlobalGetter("lives", vartype.Number))

	r := NewRegistry()
	r.Declarations().Add("Score", vartype.Number)
	r.Declarations().Add("level", vartype.String)

	got, err := r.Global().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	// Declared casing overrides the graph's.
	want := []string{"Score", "lives", "level"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Global AllVariables mismatch (-want +got):\n%s", diff)
	}

	got, err = r.Global().WorkspaceOnly().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"SCORE", "lives"}, got); diff != "" {
		t.Errorf("workspace-only mismatch (-want +got):\n%s", diff)
	}
}

func TestAllVariablesAndTypes(t *testing.T) {
	ws, _, _ := loopWorkspace()
	ws.Add(nil, blocks.NewGlobalGetter("mystery", vartype.Any))

	r := NewRegistry()
	r.Declarations().Add("score", vartype.Number)

	got, err := r.Global().AllVariablesAndTypes(ws)
	if err != nil {
		t.Fatal(err)
	}
	want := []Binding{
		{Name: "score", Scope: Global, Type: vartype.Number, Mutable: false},
		{Name: "mystery", Scope: Global, Type: vartype.Any, Mutable: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Global bindings mismatch (-want +got):\n%s", diff)
	}

	local, err := r.Local().AllVariablesAndTypes(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Binding{{Name: "i", Scope: Local, Type: vartype.Number}}, local); diff != "" {
		t.Errorf("Local bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeOfFirstMatchWins(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewPropertyGetter("v", vartype.Any))
	ws.Add(nil, blocks.NewPropertyGetter("v", vartype.Sound))
	ws.Add(nil, blocks.NewPropertyGetter("v", vartype.Array))

	typ, ok := NewRegistry().Property().TypeOf("v", ws)
	if !ok || typ != vartype.Sound {
		t.Errorf("TypeOf(v) = %q, %v, want Sound", typ, ok)
	}

	if _, ok := NewRegistry().Property().TypeOf("nope", ws); ok {
		t.Error("TypeOf(nope) resolved")
	}
}

func TestDeclarations(t *testing.T) {
	d := NewDeclarations()
	if !d.Add("Score", vartype.Any) {
		t.Fatal("Add(Score) = false")
	}
	if d.Add("SCORE", vartype.String) {
		t.Error("duplicate Add succeeded")
	}
	decl, ok := d.Lookup("score")
	if !ok || decl.Name != "Score" || decl.Type != vartype.Boolean {
		t.Errorf("Lookup(score) = %+v, %v, want Score/Boolean", decl, ok)
	}
	if d.Add("", vartype.Number) {
		t.Error("Add with empty name succeeded")
	}

	d.Add("lives", vartype.Number)
	if !d.Remove("LIVES") {
		t.Error("Remove(LIVES) = false")
	}
	if d.Remove("lives") {
		t.Error("second Remove(lives) = true")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}

	d.Replace([]Declaration{{Name: "a", Type: vartype.Number}, {Name: "A"}, {Name: "b"}})
	want := []Declaration{{Name: "a", Type: vartype.Number}, {Name: "b", Type: vartype.Boolean}}
	if diff := cmp.Diff(want, d.All()); diff != "" {
		t.Errorf("Replace mismatch (-want +got):\n%s", diff)
	}

	d.Clear()
	if d.Len() != 0 {
		t.Errorf("Len after Clear = %d", d.Len())
	}
}

// ---------------------------------------------------------------------------
// Rename
// ---------------------------------------------------------------------------

func TestRenamePropagation(t *testing.T) {
	ws := blocks.NewWorkspace()
	var props []*blocks.PropertyVar
	for i := 0; i < 4; i++ {
		p := blocks.NewPropertyGetter("x", vartype.Number)
		props = append(props, p)
		ws.Add(nil, p)
	}
	localX := blocks.NewLocalGetter("x", vartype.Number)
	globalX := blocks.NewGlobalGetter("X", vartype.Number)
	ws.Add(nil, localX)
	ws.Add(nil, globalX)

	n := NewRegistry().Property().RenameVariable("x", "y", ws)
	if n != 4 {
		t.Errorf("RenameVariable offered to %d blocks, want 4", n)
	}
	for i, p := range props {
		if p.Name() != "y" {
			t.Errorf("props[%d].Name() = %q, want y", i, p.Name())
		}
	}
	if localX.Name() != "x" {
		t.Errorf("local block renamed to %q", localX.Name())
	}
	if globalX.Name() != "X" {
		t.Errorf("global block renamed to %q", globalX.Name())
	}
}

func TestRenameCollisionMerges(t *testing.T) {
	ws := blocks.NewWorkspace()
	ws.Add(nil, blocks.NewPropertyGetter("a", vartype.Number))
	ws.Add(nil, blocks.NewPropertyGetter("B", vartype.String))

	r := NewRegistry()
	r.Property().RenameVariable("a", "b", ws)

	got, err := r.Property().AllVariables(ws)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b"}, got); diff != "" {
		t.Errorf("after colliding rename (-want +got):\n%s", diff)
	}
}

func TestRenameLoopCounter(t *testing.T) {
	ws, get, _ := loopWorkspace()
	r := NewRegistry()
	r.Local().RenameVariable("I", "row", ws)

	got, _ := r.Local().AllVariables(ws)
	if diff := cmp.Diff([]string{"row"}, got); diff != "" {
		t.Errorf("locals after rename (-want +got):\n%s", diff)
	}
	if get.Name() != "row" {
		t.Errorf("getter name = %q, want row", get.Name())
	}
	if !r.Local().IsImmutable("row", ws) {
		t.Error("renamed counter lost its immutability")
	}
}

// ---------------------------------------------------------------------------
// Type coherence
// ---------------------------------------------------------------------------

func TestMutableChangeTypeIsImmediate(t *testing.T) {
	ws := blocks.NewWorkspace()
	a := blocks.NewPropertyGetter("hp", vartype.Number)
	b := blocks.NewPropertySetter("HP", vartype.Number)
	ws.Add(nil, a)
	ws.Add(nil, b)

	r := NewRegistry()
	if err := r.Property().ChangeType("hp", vartype.String, ws); err != nil {
		t.Fatal(err)
	}
	if a.Type() != vartype.String || b.Type() != vartype.String {
		t.Errorf("types = %q, %q, want String", a.Type(), b.Type())
	}
	if r.Pending().Len() != 0 {
		t.Error("mutable retype scheduled a revert")
	}
}

func TestImmutableLocalRevert(t *testing.T) {
	ws, get, set := loopWorkspace()
	r := NewRegistry()

	if !r.Local().IsImmutable("i", ws) {
		t.Fatal("loop counter not immutable")
	}
	if err := r.Local().ChangeType("i", vartype.String, ws); err != nil {
		t.Fatal(err)
	}

	// Transient state: the write reached the blocks.
	if get.Type() != vartype.String || set.Type() != vartype.String {
		t.Errorf("transient types = %q, %q, want String", get.Type(), set.Type())
	}
	if r.Pending().Len() != 1 {
		t.Fatalf("pending reverts = %d, want 1", r.Pending().Len())
	}

	r.Pending().RunPending()

	if get.Type() != vartype.Number || set.Type() != vartype.Number {
		t.Errorf("types after revert = %q, %q, want Number", get.Type(), set.Type())
	}
	typ, _ := r.Local().TypeOf("i", ws)
	if typ != vartype.Number {
		t.Errorf("observed type = %q, want Number", typ)
	}
}

func TestImmutableSameTypeSchedulesNothing(t *testing.T) {
	ws, _, _ := loopWorkspace()
	r := NewRegistry()
	if err := r.Local().ChangeType("i", vartype.Number, ws); err != nil {
		t.Fatal(err)
	}
	if r.Pending().Len() != 0 {
		t.Errorf("pending reverts = %d, want 0", r.Pending().Len())
	}
}

func TestMultipleAttemptsBeforeRevert(t *testing.T) {
	ws, get, _ := loopWorkspace()
	r := NewRegistry()

	r.Local().ChangeType("i", vartype.String, ws)
	r.Local().ChangeType("i", vartype.Array, ws)
	if get.Type() != vartype.Array {
		t.Errorf("transient type = %q, want Array", get.Type())
	}
	if n := r.Pending().RunPending(); n != 2 {
		t.Errorf("ran %d reverts, want 2", n)
	}
	if get.Type() != vartype.Number {
		t.Errorf("type after reverts = %q, want Number", get.Type())
	}
}

func TestDeclaredGlobalRevert(t *testing.T) {
	ws := blocks.NewWorkspace()
	g := blocks.NewGlobalGetter("score", vartype.Number)
	ws.Add(nil, g)

	r := NewRegistry()
	r.Declarations().Add("Score", vartype.Number)

	if err := r.Global().ChangeType("SCORE", vartype.Boolean, ws); err != nil {
		t.Fatal(err)
	}
	if g.Type() != vartype.Boolean {
		t.Errorf("transient type = %q, want Boolean", g.Type())
	}
	r.Pending().RunPending()
	if g.Type() != vartype.Number {
		t.Errorf("type after revert = %q, want Number", g.Type())
	}
}

func TestRevertRereadsStableTypeAtFireTime(t *testing.T) {
	ws := blocks.NewWorkspace()
	g := blocks.NewGlobalGetter("score", vartype.Number)
	ws.Add(nil, g)

	r := NewRegistry()
	r.Declarations().Add("score", vartype.Number)
	r.Global().ChangeType("score", vartype.Boolean, ws)

	// The declaration changes before the revert fires.
	r.Declarations().Replace([]Declaration{{Name: "score", Type: vartype.String}})
	r.Pending().RunPending()
	if g.Type() != vartype.String {
		t.Errorf("type after revert = %q, want String", g.Type())
	}
}

func TestRevertDroppedWhenUndeclared(t *testing.T) {
	ws := blocks.NewWorkspace()
	g := blocks.NewGlobalGetter("score", vartype.Number)
	ws.Add(nil, g)

	r := NewRegistry()
	r.Declarations().Add("score", vartype.Number)
	r.Global().ChangeType("score", vartype.Boolean, ws)
	r.Declarations().Remove("score")
	r.Pending().RunPending()

	if g.Type() != vartype.Boolean {
		t.Errorf("type = %q, want Boolean (revert should be dropped)", g.Type())
	}
}

func TestRevertOnDisposedWorkspaceIsNoop(t *testing.T) {
	ws, get, _ := loopWorkspace()
	r := NewRegistry()
	r.Local().ChangeType("i", vartype.String, ws)

	ws.Dispose()
	defer func() {
		if p := recover(); p != nil {
			t.Fatalf("revert on disposed workspace panicked: %v", p)
		}
	}()
	r.Pending().RunPending()

	if get.Type() != vartype.String {
		t.Errorf("disposed block type = %q, want untouched String", get.Type())
	}
}

func TestRejectPolicy(t *testing.T) {
	ws, get, _ := loopWorkspace()
	r := NewRegistry(WithPolicy(PolicyReject))

	err := r.Local().ChangeType("i", vartype.String, ws)
	if !errors.Is(err, ErrImmutableBinding) {
		t.Fatalf("ChangeType error = %v, want ErrImmutableBinding", err)
	}
	if get.Type() != vartype.Number {
		t.Errorf("rejected write reached the block: %q", get.Type())
	}
	if r.Pending().Len() != 0 {
		t.Error("rejected write scheduled a revert")
	}

	// Mutable scopes are unaffected by the policy.
	ws.Add(nil, blocks.NewPropertyGetter("free", vartype.Number))
	if err := r.Property().ChangeType("free", vartype.String, ws); err != nil {
		t.Errorf("Property ChangeType under reject policy: %v", err)
	}
}

func TestUntypedImmutableLocal(t *testing.T) {
	lock := lockedLocal{name: "k"}
	get := blocks.NewLocalGetter("k", vartype.Number)
	ws := staticLister{lock, get}

	r := NewRegistry(WithPolicy(PolicyReject))
	if !r.Local().IsImmutable("k", ws) {
		t.Fatal("IsImmutable(k) = false")
	}
	bindings, err := r.Local().AllVariablesAndTypes(ws)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || bindings[0].Mutable {
		t.Errorf("bindings = %+v, want k immutable", bindings)
	}
	if err := r.Local().ChangeType("k", vartype.String, ws); !errors.Is(err, ErrImmutableBinding) {
		t.Errorf("reject ChangeType error = %v, want ErrImmutableBinding", err)
	}
	if get.Type() != vartype.Number {
		t.Errorf("rejected write reached the getter: %q", get.Type())
	}

	// Under revert the type seen before the write is restored.
	r = NewRegistry()
	if err := r.Local().ChangeType("k", vartype.String, ws); err != nil {
		t.Fatal(err)
	}
	if get.Type() != vartype.String {
		t.Errorf("transient type = %q, want String", get.Type())
	}
	if n := r.Pending().RunPending(); n != 1 {
		t.Fatalf("ran %d reverts, want 1", n)
	}
	if get.Type() != vartype.Number {
		t.Errorf("type after revert = %q, want Number", get.Type())
	}
}

func TestImmutableLocalWithNoKnownType(t *testing.T) {
	get := blocks.NewLocalGetter("k", vartype.Any)
	ws := staticLister{lockedLocal{name: "k"}, get}
	r := NewRegistry()

	for _, typ := range []vartype.Type{vartype.String, vartype.Any} {
		if err := r.Local().ChangeType("k", typ, ws); !errors.Is(err, ErrImmutableBinding) {
			t.Errorf("ChangeType(%v) error = %v, want ErrImmutableBinding", typ, err)
		}
	}
	if get.Type() != vartype.Any {
		t.Errorf("getter type = %q, want untouched Any", get.Type())
	}
	if r.Pending().Len() != 0 {
		t.Errorf("pending reverts = %d, want 0", r.Pending().Len())
	}
}

type recordingScheduler struct{ tasks []func() }

func (s *recordingScheduler) Defer(fn func()) { s.tasks = append(s.tasks, fn) }

func TestExternalScheduler(t *testing.T) {
	ws, get, _ := loopWorkspace()
	sched := &recordingScheduler{}
	r := NewRegistry(WithScheduler(sched))

	if r.Pending() != nil {
		t.Error("Pending() non-nil with an external scheduler")
	}
	r.Local().ChangeType("i", vartype.Colour, ws)
	if len(sched.tasks) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(sched.tasks))
	}
	sched.tasks[0]()
	if get.Type() != vartype.Number {
		t.Errorf("type after revert = %q, want Number", get.Type())
	}
}

func TestIsImmutable(t *testing.T) {
	ws, _, _ := loopWorkspace()
	ws.Add(nil, blocks.NewForEach("item"))
	r := NewRegistry()
	r.Declarations().Add("score", vartype.Number)

	tests := []struct {
		ns   *Namespace
		name string
		want bool
	}{
		{r.Local(), "i", true},
		{r.Local(), "I", true},
		{r.Local(), "item", false},
		{r.Global(), "Score", true},
		{r.Global(), "other", false},
		{r.Property(), "x", false},
	}
	for _, tt := range tests {
		if got := tt.ns.IsImmutable(tt.name, ws); got != tt.want {
			t.Errorf("%s IsImmutable(%q) = %v, want %v", tt.ns.Scope(), tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Unique names
// ---------------------------------------------------------------------------

func TestUniqueName(t *testing.T) {
	allLetters := strings.Split(uniqueLetters, "")

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "i"},
		{"ijk taken", []string{"i", "j", "k"}, "m"},
		{"case insensitive", []string{"I", "J"}, "k"},
		{"gap", []string{"i", "k"}, "j"},
		{"all letters", allLetters, "i2"},
		{"all letters and i2", append(append([]string{}, allLetters...), "I2"), "j2"},
		{"unrelated names", []string{"score"}, "i"},
	}
	for _, tt := range tests {
		if got := UniqueName(tt.existing); got != tt.want {
			t.Errorf("%s: UniqueName = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUniqueNameSkipsL(t *testing.T) {
	var used []string
	for i := 0; i < 30; i++ {
		name := UniqueName(used)
		if strings.HasPrefix(name, "l") {
			t.Fatalf("generated %q", name)
		}
		used = append(used, name)
	}
}

func TestGenerateUniqueNamePerScope(t *testing.T) {
	ws, _, _ := loopWorkspace()
	r := NewRegistry()

	got, err := r.Local().GenerateUniqueName(ws)
	if err != nil {
		t.Fatal(err)
	}
	if got != "j" {
		t.Errorf("Local unique name = %q, want j", got)
	}

	got, err = r.Property().GenerateUniqueName(blocks.NewWorkspace())
	if err != nil {
		t.Fatal(err)
	}
	if got != "i" {
		t.Errorf("empty scope unique name = %q, want i", got)
	}

	if _, err := r.Global().GenerateUniqueName(42); !errors.Is(err, ErrInvalidRootKind) {
		t.Errorf("GenerateUniqueName(42) error = %v, want ErrInvalidRootKind", err)
	}
}

func TestParseScopeAndPolicy(t *testing.T) {
	if s, err := ParseScope("Global"); err != nil || s != Global {
		t.Errorf("ParseScope(Global) = %v, %v", s, err)
	}
	if s, err := ParseScope("prop"); err != nil || s != Property {
		t.Errorf("ParseScope(prop) = %v, %v", s, err)
	}
	if _, err := ParseScope("module"); !errors.Is(err, ErrUnknownScope) {
		t.Errorf("ParseScope(module) error = %v", err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicyRevert {
		t.Errorf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if p, err := ParsePolicy("REJECT"); err != nil || p != PolicyReject {
		t.Errorf("ParsePolicy(REJECT) = %v, %v", p, err)
	}
	if _, err := ParsePolicy("ignore"); err == nil {
		t.Error("ParsePolicy(ignore) succeeded")
	}
}

var _ graph.Block = halfBuilt{}
