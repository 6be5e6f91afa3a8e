package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

// ErrInvalid is returned when a manifest does not satisfy the schema.
var ErrInvalid = errors.New("invalid manifest")

const schemaTemplate = `
#Ident: =~"^[A-Za-z_][A-Za-z0-9_]*$"
#Type:  %s

project: name: string
globals: [...{
	name: #Ident
	type: #Type
}]
editor: {
	"immutable-policy": "revert" | "reject"
	"default-variable": #Ident
}
store: path: string & !=""
`

var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex // a cue.Context is not safe for concurrent use
	schemaCtx  *cue.Context
	schema     cue.Value
)

func compiledSchema() (*cue.Context, cue.Value) {
	schemaOnce.Do(func() {
		quoted := make([]string, 0, len(vartype.All()))
		for _, t := range vartype.All() {
			quoted = append(quoted, strconv.Quote(string(t)))
		}
		src := fmt.Sprintf(schemaTemplate, strings.Join(quoted, " | "))

		schemaCtx = cuecontext.New()
		schema = schemaCtx.CompileString(src, cue.Filename("blockvars.cue"))
		if err := schema.Err(); err != nil {
			panic(fmt.Sprintf("manifest: schema does not compile: %v", err))
		}
	})
	return schemaCtx, schema
}

// Validate checks the manifest against the embedded schema: identifier-shaped
// names, known type names and a known immutable policy.
func (m *Manifest) Validate() error {
	ctx, s := compiledSchema()

	doc := *m
	if doc.Globals == nil {
		doc.Globals = []scope.Declaration{}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := ctx.Encode(&doc)
	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
