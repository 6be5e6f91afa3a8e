// Package scope implements the editor's variable registry.
//
// Variables live in one of three namespaces: Global (project-wide), Property
// (per instance, the default) and Local (block-local, e.g. loop counters).
// None of them is stored. Every query rescans the block graph for blocks that
// implement the scope's capabilities (see package graph), so the registry can
// never disagree with the graph it describes.
//
// Two kinds of binding are immutable: globals declared from outside the graph
// (Declarations) and locals whose producer says so, such as the counter of a
// counting loop. A retype of an immutable binding is applied and then undone
// by a deferred revert, or rejected outright under PolicyReject.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/blockvars/eventloop"
	"github.com/chazu/blockvars/vartype"
)

var (
	// ErrInvalidRootKind is returned when a traversal root is neither a
	// block with descendants nor a workspace.
	ErrInvalidRootKind = errors.New("root is not a block or workspace")

	// ErrImmutableBinding is returned under PolicyReject when a retype
	// targets an immutable binding.
	ErrImmutableBinding = errors.New("variable type is immutable")

	// ErrUnknownScope is returned by ParseScope.
	ErrUnknownScope = errors.New("unknown scope")
)

// Scope selects a variable namespace.
type Scope uint8

const (
	Property Scope = iota
	Global
	Local
)

// Scopes lists every scope in palette order.
var Scopes = []Scope{Global, Property, Local}

func (s Scope) String() string {
	switch s {
	case Global:
		return "global"
	case Local:
		return "local"
	default:
		return "property"
	}
}

// ParseScope accepts "global", "property" (or "prop") and "local",
// case-insensitively.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global":
		return Global, nil
	case "property", "prop":
		return Property, nil
	case "local":
		return Local, nil
	}
	return Property, fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// Binding is a variable as seen by the editor.
type Binding struct {
	Name    string       `cbor:"1,keyasint" json:"name"`
	Scope   Scope        `cbor:"2,keyasint" json:"scope"`
	Type    vartype.Type `cbor:"3,keyasint" json:"type"`
	Mutable bool         `cbor:"4,keyasint" json:"mutable"`
}

// Policy selects how a retype of an immutable binding is handled.
type Policy uint8

const (
	// PolicyRevert lets the write reach the blocks and schedules a
	// correction back to the stable type.
	PolicyRevert Policy = iota
	// PolicyReject refuses the write synchronously.
	PolicyReject
)

func (p Policy) String() string {
	if p == PolicyReject {
		return "reject"
	}
	return "revert"
}

// ParsePolicy accepts "revert" and "reject". The empty string is
// PolicyRevert.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "revert":
		return PolicyRevert, nil
	case "reject":
		return PolicyReject, nil
	}
	return PolicyRevert, fmt.Errorf("unknown immutable policy %q", s)
}

// Scheduler queues a task to run after the current one. eventloop.Loop and
// eventloop.Manual both qualify.
type Scheduler interface {
	Defer(fn func())
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Registry answers variable queries for the three scopes of one project.
type Registry struct {
	decls  *Declarations
	sched  Scheduler
	manual *eventloop.Manual
	policy Policy
	log    commonlog.Logger

	namespaces map[Scope]*Namespace
}

// Option configures a Registry.
type Option func(*Registry)

// WithDeclarations shares an existing declaration list.
func WithDeclarations(d *Declarations) Option {
	return func(r *Registry) { r.decls = d }
}

// WithScheduler sets where deferred reverts are queued. Without it the
// registry keeps its own queue, drained with Pending().RunPending().
func WithScheduler(s Scheduler) Option {
	return func(r *Registry) { r.sched = s }
}

// WithPolicy sets the immutable-binding policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger overrides the registry logger.
func WithLogger(l commonlog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates a registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log: commonlog.GetLogger("blockvars.scope"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.decls == nil {
		r.decls = NewDeclarations()
	}
	if r.sched == nil {
		r.manual = &eventloop.Manual{}
		r.sched = r.manual
	}
	r.namespaces = map[Scope]*Namespace{
		Global:   {r: r, scope: Global},
		Property: {r: r, scope: Property},
		Local:    {r: r, scope: Local},
	}
	return r
}

// Declarations returns the project's declared globals.
func (r *Registry) Declarations() *Declarations { return r.decls }

// Policy returns the immutable-binding policy.
func (r *Registry) Policy() Policy { return r.policy }

// Pending returns the registry's own revert queue, or nil when an external
// scheduler was configured.
func (r *Registry) Pending() *eventloop.Manual { return r.manual }

// Namespace returns the view of one scope.
func (r *Registry) Namespace(s Scope) *Namespace {
	if ns, ok := r.namespaces[s]; ok {
		return ns
	}
	return r.namespaces[Property]
}

func (r *Registry) Global() *Namespace   { return r.namespaces[Global] }
func (r *Registry) Property() *Namespace { return r.namespaces[Property] }
func (r *Registry) Local() *Namespace    { return r.namespaces[Local] }
