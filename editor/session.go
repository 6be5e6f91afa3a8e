// Package editor ties one workspace, its variable registry and the project's
// declared globals to a single event loop.
//
// Every method runs its work as a task on the session's loop, so callers on
// any goroutine see the workspace one task at a time. Reverts scheduled by a
// retype run as follow-up tasks on the same loop.
package editor

import (
	"errors"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/blockvars/blocks"
	"github.com/chazu/blockvars/eventloop"
	"github.com/chazu/blockvars/manifest"
	"github.com/chazu/blockvars/palette"
	"github.com/chazu/blockvars/refgraph"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/snapshot"
	"github.com/chazu/blockvars/store"
	"github.com/chazu/blockvars/vartype"
)

var log = commonlog.GetLogger("blockvars.editor")

// Session is one open editor workspace.
type Session struct {
	ID      string
	Project string

	manifest *manifest.Manifest
	loop     *eventloop.Loop
	ws       *blocks.Workspace
	reg      *scope.Registry

	store     *store.Store
	ownsStore bool

	// Loop-owned.
	fingerprint string

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	store     *store.Store
	noStore   bool
	workspace *blocks.Workspace
}

// Option configures Open.
type Option func(*options)

// WithStore uses an already open store. The session does not close it.
func WithStore(s *store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithoutStore keeps declared globals in memory only.
func WithoutStore() Option {
	return func(o *options) { o.noStore = true }
}

// WithWorkspace edits an existing workspace instead of a fresh one.
func WithWorkspace(ws *blocks.Workspace) Option {
	return func(o *options) { o.workspace = ws }
}

// Open starts a session for the project described by m. Declared globals come
// from the manifest first, then from the store; on a name clash the manifest
// wins. A nil manifest means the defaults rooted at the working directory.
func Open(m *manifest.Manifest, opts ...Option) (*Session, error) {
	if m == nil {
		m = manifest.Default(".")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := m.Policy()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Project:  m.ProjectName(),
		manifest: m,
		ws:       o.workspace,
	}
	if s.ws == nil {
		s.ws = blocks.NewWorkspace()
	}
	s.ID = s.ws.ID

	switch {
	case o.store != nil:
		s.store = o.store
	case !o.noStore:
		s.store, err = store.Open(m.StorePath())
		if err != nil {
			return nil, err
		}
		s.ownsStore = true
	}

	decls := scope.NewDeclarations()
	m.Declare(decls)
	if s.store != nil {
		if _, err := s.store.Load(s.Project, decls); err != nil && !errors.Is(err, store.ErrProjectNotFound) {
			s.closeStore()
			return nil, err
		}
	}

	s.loop = eventloop.New()
	s.reg = scope.NewRegistry(
		scope.WithDeclarations(decls),
		scope.WithScheduler(s.loop),
		scope.WithPolicy(policy),
	)

	log.Infof("opened session %s for project %q (%d declared globals, policy %s)",
		s.ID, s.Project, decls.Len(), policy)
	return s, nil
}

type outcome[T any] struct {
	value T
	err   error
}

// call runs fn on the loop and unpacks its result.
func call[T any](s *Session, fn func() (T, error)) (T, error) {
	v, err := s.loop.Do(func() any {
		value, err := fn()
		return outcome[T]{value, err}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	o := v.(outcome[T])
	return o.value, o.err
}

// Do runs fn on the loop with direct access to the workspace and registry.
// Reverts that fn triggers run after it returns, never during.
func (s *Session) Do(fn func(ws *blocks.Workspace, reg *scope.Registry) any) (any, error) {
	return s.loop.Do(func() any { return fn(s.ws, s.reg) })
}

// Sync waits until every queued task, including pending reverts, has run.
func (s *Session) Sync() error {
	return s.loop.Sync()
}

// Variables lists the bindings of one scope.
func (s *Session) Variables(sc scope.Scope) ([]scope.Binding, error) {
	return call(s, func() ([]scope.Binding, error) {
		return s.reg.Namespace(sc).AllVariablesAndTypes(s.ws)
	})
}

// TypeOf returns the type of a variable, or Any if no block resolves it.
func (s *Session) TypeOf(sc scope.Scope, name string) (vartype.Type, error) {
	return call(s, func() (vartype.Type, error) {
		t, _ := s.reg.Namespace(sc).TypeOf(name, s.ws)
		return t, nil
	})
}

// Rename renames a variable in one scope and returns how many blocks were
// offered the rename.
func (s *Session) Rename(sc scope.Scope, oldName, newName string) (int, error) {
	return call(s, func() (int, error) {
		return s.reg.Namespace(sc).RenameVariable(oldName, newName, s.ws), nil
	})
}

// Retype changes a variable's type in one scope. For an immutable binding the
// revert is queued behind the call; Sync waits for it.
func (s *Session) Retype(sc scope.Scope, name string, t vartype.Type) error {
	_, err := call(s, func() (struct{}, error) {
		return struct{}{}, s.reg.Namespace(sc).ChangeType(name, t, s.ws)
	})
	return err
}

// UniqueName suggests a variable name unused in one scope.
func (s *Session) UniqueName(sc scope.Scope) (string, error) {
	return call(s, func() (string, error) {
		return s.reg.Namespace(sc).GenerateUniqueName(s.ws)
	})
}

// Snapshot captures all three scopes.
func (s *Session) Snapshot() (*snapshot.Snapshot, error) {
	return call(s, func() (*snapshot.Snapshot, error) {
		return snapshot.Take(s.reg, s.ws)
	})
}

// Palette builds the variable flyout.
func (s *Session) Palette() ([]palette.Category, error) {
	return call(s, func() ([]palette.Category, error) {
		return palette.Build(s.reg, s.ws, s.manifest.Editor.DefaultVariable)
	})
}

// PaletteIfChanged builds the flyout only if the variables differ from the
// previous call. It reports whether anything changed; the first call always
// does.
func (s *Session) PaletteIfChanged() ([]palette.Category, bool, error) {
	type rebuilt struct {
		cats    []palette.Category
		changed bool
	}
	r, err := call(s, func() (rebuilt, error) {
		snap, err := snapshot.Take(s.reg, s.ws)
		if err != nil {
			return rebuilt{}, err
		}
		fp, err := snapshot.Fingerprint(snap)
		if err != nil {
			return rebuilt{}, err
		}
		if fp == s.fingerprint {
			return rebuilt{}, nil
		}
		cats, err := palette.Build(s.reg, s.ws, s.manifest.Editor.DefaultVariable)
		if err != nil {
			return rebuilt{}, err
		}
		s.fingerprint = fp
		return rebuilt{cats, true}, nil
	})
	return r.cats, r.changed, err
}

// DOT renders the variable reference graph.
func (s *Session) DOT() (string, error) {
	return call(s, func() (string, error) {
		return refgraph.DOT(s.reg, s.ws)
	})
}

// ---------------------------------------------------------------------------
// Declared globals
// ---------------------------------------------------------------------------

// Declare adds a declared global. It reports false if the name was already
// declared.
func (s *Session) Declare(name string, t vartype.Type) (bool, error) {
	return call(s, func() (bool, error) {
		return s.reg.Declarations().Add(name, t), nil
	})
}

// Undeclare removes a declared global. Blocks using it keep their type.
func (s *Session) Undeclare(name string) (bool, error) {
	return call(s, func() (bool, error) {
		return s.reg.Declarations().Remove(name), nil
	})
}

// Globals returns the declared globals.
func (s *Session) Globals() []scope.Declaration {
	return s.reg.Declarations().All()
}

// SaveGlobals writes the declared globals to the store.
func (s *Session) SaveGlobals() error {
	if s.store == nil {
		return errors.New("editor: session has no store")
	}
	return s.store.Save(s.Project, s.reg.Declarations().All())
}

// Close disposes the workspace, stops the loop and closes the store if the
// session opened it. Reverts queued before Close run before the workspace is
// disposed.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		_, err := s.loop.Do(func() any {
			s.ws.Dispose()
			return nil
		})
		if err != nil {
			log.Warningf("session %s: disposing workspace: %v", s.ID, err)
		}
		s.loop.Stop()
		s.closeErr = errors.Join(err, s.closeStore())
		log.Infof("closed session %s", s.ID)
	})
	return s.closeErr
}

func (s *Session) closeStore() error {
	if s.store != nil && s.ownsStore {
		return s.store.Close()
	}
	return nil
}
