package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chazu/blockvars/manifest"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/store"
	"github.com/chazu/blockvars/vartype"
)

var errUsage = errors.New("bad usage")

// runGlobals implements the globals subcommands. Edits go to the store only;
// globals declared in blockvars.toml are read-only here.
func runGlobals(m *manifest.Manifest, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: globals needs a subcommand", errUsage)
	}

	st, err := store.Open(m.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()

	project := m.ProjectName()
	stored, err := st.Globals(project)
	if err != nil && !errors.Is(err, store.ErrProjectNotFound) {
		return err
	}
	decls := scope.NewDeclarations()
	decls.Replace(stored)

	switch args[0] {
	case "list":
		printGlobals(m, decls.All())
		return nil

	case "add":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("%w: globals add NAME [TYPE]", errUsage)
		}
		t := vartype.Boolean
		if len(args) == 3 {
			if t, err = vartype.Parse(args[2]); err != nil {
				return err
			}
		}
		if !decls.Add(args[1], t) {
			return fmt.Errorf("global %q is already declared", args[1])
		}

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("%w: globals remove NAME", errUsage)
		}
		if !decls.Remove(args[1]) {
			return fmt.Errorf("global %q is not in the store", args[1])
		}

	case "clear":
		decls.Clear()

	default:
		return fmt.Errorf("%w: unknown globals subcommand %q", errUsage, args[0])
	}

	return st.Save(project, decls.All())
}

func printGlobals(m *manifest.Manifest, stored []scope.Declaration) {
	out := newPainter(os.Stdout)
	merged := scope.NewDeclarations()
	m.Declare(merged)
	for _, d := range merged.All() {
		fmt.Printf("%-20s %s  (%s)\n", d.Name, out.typeName(d.Type), manifest.FileName)
	}
	for _, d := range stored {
		source := "store"
		if !merged.Add(d.Name, d.Type) {
			source = "store, shadowed"
		}
		fmt.Printf("%-20s %s  (%s)\n", d.Name, out.typeName(d.Type), source)
	}
}
