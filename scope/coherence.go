package scope

import (
	"fmt"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/vartype"
)

// ---------------------------------------------------------------------------
// Type coherence: retyping with immutable bindings
// ---------------------------------------------------------------------------

// fixedType reports whether a binding is immutable, with the type its
// source of truth gives at call time: the declaration for a global, the
// producing block for a local. The type is Any when the source has no
// typed answer.
func (n *Namespace) fixedType(name string, ws graph.BlockLister) (vartype.Type, bool) {
	if !n.IsImmutable(name, ws) {
		return vartype.Any, false
	}
	switch n.scope {
	case Global:
		if decl, ok := n.r.decls.Lookup(name); ok {
			return decl.Type, true
		}
	case Local:
		if b, ok := n.immutableProducer(name, ws); ok {
			if t, ok := n.hooks().typeOf(b, name); ok {
				return t, true
			}
		}
	}
	return vartype.Any, true
}

// stableType is fixedType falling back to the type the scope reports before
// any write, for producers that are immutable but untyped. Any means the
// stable type is unknown.
func (n *Namespace) stableType(name string, ws graph.BlockLister) (vartype.Type, bool) {
	t, immutable := n.fixedType(name, ws)
	if immutable && t == vartype.Any {
		t, _ = n.TypeOf(name, ws)
	}
	return t, immutable
}

// apply offers a type change to every block of the scope.
func (n *Namespace) apply(name string, t vartype.Type, ws graph.BlockLister) int {
	h := n.hooks()
	count := 0
	for _, b := range allBlocks(ws) {
		if h.changeType(b, name, t) {
			count++
		}
	}
	return count
}

// ChangeType sets the type of a variable on every block of the scope.
//
// For a mutable binding the change is applied at once. Compatibility with
// existing connections is the graph's business, not the registry's.
//
// For an immutable binding whose stable type differs from t, PolicyRevert
// applies t and queues a revert on the scheduler; until the revert runs the
// blocks carry t. The revert re-reads the stable type when it fires, and
// does nothing if the workspace has been disposed or the binding is no
// longer immutable. Reverts are never cancelled. PolicyReject leaves the
// blocks untouched and returns ErrImmutableBinding.
//
// An immutable binding with no known type cannot be reverted, so the change
// is refused under either policy.
func (n *Namespace) ChangeType(name string, t vartype.Type, ws graph.BlockLister) error {
	stable, immutable := n.stableType(name, ws)
	if !immutable || (t == stable && stable != vartype.Any) {
		n.apply(name, t, ws)
		return nil
	}

	if stable == vartype.Any {
		n.r.log.Noticef("rejected retype of %s variable %q to %s: fixed with no known type", n.scope, name, t)
		return fmt.Errorf("%w: %s variable %q has no known type", ErrImmutableBinding, n.scope, name)
	}

	if n.r.policy == PolicyReject {
		n.r.log.Noticef("rejected retype of %s variable %q to %s: fixed at %s", n.scope, name, t, stable)
		return fmt.Errorf("%w: %s variable %q is %s", ErrImmutableBinding, n.scope, name, stable)
	}

	n.apply(name, t, ws)
	n.r.sched.Defer(func() { n.revert(name, stable, ws) })
	n.r.log.Debugf("scheduled revert of %s variable %q (%s -> %s)", n.scope, name, t, stable)
	return nil
}

// revert re-applies the stable type of an immutable binding. prior is the
// stable type seen when the revert was queued; it stands in when the source
// of truth has no typed answer.
func (n *Namespace) revert(name string, prior vartype.Type, ws graph.BlockLister) {
	if d, ok := ws.(graph.Disposable); ok && d.Disposed() {
		n.r.log.Debugf("dropped revert of %s variable %q: workspace disposed", n.scope, name)
		return
	}
	stable, ok := n.fixedType(name, ws)
	if !ok {
		n.r.log.Debugf("dropped revert of %s variable %q: no longer immutable", n.scope, name)
		return
	}
	if stable == vartype.Any {
		stable = prior
	}
	count := n.apply(name, stable, ws)
	n.r.log.Infof("reverted %s variable %q to %s (%d blocks)", n.scope, name, stable, count)
}
