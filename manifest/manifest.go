// Package manifest handles blockvars.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

// FileName is the manifest file looked up by Load and FindAndLoad.
const FileName = "blockvars.toml"

var log = commonlog.GetLogger("blockvars.manifest")

// Manifest represents a blockvars.toml project configuration.
type Manifest struct {
	Project Project             `toml:"project" json:"project"`
	Globals []scope.Declaration `toml:"globals" json:"globals"`
	Editor  Editor              `toml:"editor" json:"editor"`
	Store   Store               `toml:"store" json:"store"`

	// Dir is the directory containing the blockvars.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name" json:"name"`
}

// Editor configures editor behaviour.
type Editor struct {
	ImmutablePolicy string `toml:"immutable-policy" json:"immutable-policy"`
	DefaultVariable string `toml:"default-variable" json:"default-variable"`
}

// Store configures declared-global persistence.
type Store struct {
	Path string `toml:"path" json:"path"`
}

// Defaults
const (
	DefaultPolicy    = "revert"
	DefaultVariable  = "item"
	DefaultStorePath = ".blockvars/globals.db"
)

// Default returns the manifest used when no blockvars.toml exists, rooted at
// dir.
func Default(dir string) *Manifest {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

// Load parses a blockvars.toml file from the given directory and validates
// it.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("loaded %s: project %q, %d declared globals", path, m.Project.Name, len(m.Globals))
	return &m, nil
}

// FindAndLoad walks up from startDir to find a blockvars.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if m.Editor.ImmutablePolicy == "" {
		m.Editor.ImmutablePolicy = DefaultPolicy
	}
	if m.Editor.DefaultVariable == "" {
		m.Editor.DefaultVariable = DefaultVariable
	}
	if m.Store.Path == "" {
		m.Store.Path = DefaultStorePath
	}
	if m.Globals == nil {
		m.Globals = []scope.Declaration{}
	}
	// Type names are matched case-insensitively; unknown names are left for
	// Validate to report.
	for i, g := range m.Globals {
		t, err := vartype.Parse(string(g.Type))
		if err != nil {
			continue
		}
		if t == vartype.Any {
			t = vartype.Boolean
		}
		m.Globals[i].Type = t
	}
}

// ProjectName returns the project name, falling back to the base name of
// the manifest directory.
func (m *Manifest) ProjectName() string {
	if m.Project.Name != "" {
		return m.Project.Name
	}
	return filepath.Base(m.Dir)
}

// Policy returns the configured immutable-binding policy.
func (m *Manifest) Policy() (scope.Policy, error) {
	return scope.ParsePolicy(m.Editor.ImmutablePolicy)
}

// StorePath returns the absolute path of the globals database.
func (m *Manifest) StorePath() string {
	if filepath.IsAbs(m.Store.Path) {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}

// Declare adds the manifest's globals to d. Globals already declared in d
// keep their existing type.
func (m *Manifest) Declare(d *scope.Declarations) int {
	added := 0
	for _, g := range m.Globals {
		if d.Add(g.Name, g.Type) {
			added++
		}
	}
	return added
}
