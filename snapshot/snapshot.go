// Package snapshot captures the variables of all three scopes at one moment
// in a canonical CBOR encoding.
//
// Two snapshots of equal namespaces encode to identical bytes, so the
// fingerprint of a snapshot can be compared to detect that the flyout or any
// other derived view needs rebuilding.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/scope"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is the state of the three namespaces of one workspace.
type Snapshot struct {
	Globals    []scope.Binding `cbor:"1,keyasint" json:"globals"`
	Properties []scope.Binding `cbor:"2,keyasint" json:"properties"`
	Locals     []scope.Binding `cbor:"3,keyasint" json:"locals"`
}

// Take lists every scope of reg over the workspace ws.
func Take(reg *scope.Registry, ws graph.BlockLister) (*Snapshot, error) {
	var s Snapshot
	var err error
	if s.Globals, err = reg.Global().AllVariablesAndTypes(ws); err != nil {
		return nil, fmt.Errorf("snapshot: globals: %w", err)
	}
	if s.Properties, err = reg.Property().AllVariablesAndTypes(ws); err != nil {
		return nil, fmt.Errorf("snapshot: properties: %w", err)
	}
	if s.Locals, err = reg.Local().AllVariablesAndTypes(ws); err != nil {
		return nil, fmt.Errorf("snapshot: locals: %w", err)
	}
	return &s, nil
}

// Scope returns the bindings of one scope.
func (s *Snapshot) Scope(sc scope.Scope) []scope.Binding {
	switch sc {
	case scope.Global:
		return s.Globals
	case scope.Local:
		return s.Locals
	default:
		return s.Properties
	}
}

// Lookup finds a binding by case-insensitive name.
func (s *Snapshot) Lookup(sc scope.Scope, name string) (scope.Binding, bool) {
	for _, b := range s.Scope(sc) {
		if graph.NamesEqual(b.Name, name) {
			return b, true
		}
	}
	return scope.Binding{}, false
}

// Len returns the number of bindings over all scopes.
func (s *Snapshot) Len() int {
	return len(s.Globals) + len(s.Properties) + len(s.Locals)
}

// Marshal serializes a Snapshot to canonical CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

// Fingerprint returns the hex SHA-256 of the canonical encoding.
func Fingerprint(s *Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", fmt.Errorf("snapshot: fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
