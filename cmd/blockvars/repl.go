package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/chazu/blockvars/blocks"
	"github.com/chazu/blockvars/editor"
	"github.com/chazu/blockvars/manifest"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

const replHelp = `Blocks (added inside the innermost open loop):
  for NAME                    counting loop over NAME (Number, fixed type)
  foreach NAME                for-each loop over NAME
  end                         close the innermost open loop
  get SCOPE NAME [TYPE]       variable getter
  set SCOPE NAME [TYPE]       variable setter
Registry:
  vars [SCOPE]                variables with types
  retype SCOPE NAME TYPE      change a variable's type
  rename SCOPE OLD NEW        rename a variable
  unique SCOPE                suggest an unused name
  palette                     variable flyout
  dot                         reference graph in DOT
  dispose                     dispose the workspace
  help, quit
SCOPE is global, property (prop) or local.`

// repl is an interactive scratch workspace over one editor session.
type repl struct {
	s     *editor.Session
	out   io.Writer
	paint painter
	open  []blocks.Node // loops still accepting children
}

func runREPL(m *manifest.Manifest) error {
	s, err := editor.Open(m)
	if err != nil {
		return err
	}
	defer s.Close()

	rl, err := readline.New("blockvars> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	r := &repl{s: s, out: os.Stdout, paint: newPainter(os.Stdout)}
	fmt.Fprintf(r.out, "project %s, %d declared globals. Type help for commands.\n", s.Project, len(s.Globals()))
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := r.exec(fields); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

var errArgs = errors.New("wrong number of arguments (try help)")

func (r *repl) exec(f []string) error {
	switch f[0] {
	case "help":
		fmt.Fprintln(r.out, replHelp)
		return nil
	case "for", "foreach":
		if len(f) != 2 {
			return errArgs
		}
		var n blocks.Node = blocks.NewForLoop(f[1])
		if f[0] == "foreach" {
			n = blocks.NewForEach(f[1])
		}
		if err := r.add(n); err != nil {
			return err
		}
		r.open = append(r.open, n)
		return nil
	case "end":
		if len(r.open) == 0 {
			return errors.New("no open loop")
		}
		r.open = r.open[:len(r.open)-1]
		return nil
	case "get", "set":
		return r.varBlock(f)
	case "vars":
		return r.vars(f[1:])
	case "retype":
		return r.retype(f[1:])
	case "rename":
		if len(f) != 4 {
			return errArgs
		}
		sc, err := scope.ParseScope(f[1])
		if err != nil {
			return err
		}
		n, err := r.s.Rename(sc, f[2], f[3])
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "renamed on %d blocks\n", n)
		return nil
	case "unique":
		if len(f) != 2 {
			return errArgs
		}
		sc, err := scope.ParseScope(f[1])
		if err != nil {
			return err
		}
		name, err := r.s.UniqueName(sc)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, name)
		return nil
	case "palette":
		cats, err := r.s.Palette()
		if err != nil {
			return err
		}
		printPalette(r.out, r.paint, cats)
		return nil
	case "dot":
		dot, err := r.s.DOT()
		if err != nil {
			return err
		}
		fmt.Fprint(r.out, dot)
		return nil
	case "dispose":
		r.open = nil
		_, err := r.s.Do(func(ws *blocks.Workspace, _ *scope.Registry) any {
			ws.Dispose()
			return nil
		})
		return err
	}
	return fmt.Errorf("unknown command %q (try help)", f[0])
}

func (r *repl) add(n blocks.Node) error {
	var parent blocks.Node
	if len(r.open) > 0 {
		parent = r.open[len(r.open)-1]
	}
	v, err := r.s.Do(func(ws *blocks.Workspace, _ *scope.Registry) any {
		return ws.Attach(parent, n)
	})
	if err != nil {
		return err
	}
	if err, _ := v.(error); err != nil {
		return err
	}
	return nil
}

func (r *repl) varBlock(f []string) error {
	if len(f) < 3 || len(f) > 4 {
		return errArgs
	}
	sc, err := scope.ParseScope(f[1])
	if err != nil {
		return err
	}
	t := vartype.Any
	if len(f) == 4 {
		if t, err = vartype.Parse(f[3]); err != nil {
			return err
		}
	}
	getter := f[0] == "get"

	var n blocks.Node
	switch sc {
	case scope.Global:
		if getter {
			n = blocks.NewGlobalGetter(f[2], t)
		} else {
			n = blocks.NewGlobalSetter(f[2], t)
		}
	case scope.Local:
		if getter {
			n = blocks.NewLocalGetter(f[2], t)
		} else {
			n = blocks.NewLocalSetter(f[2], t)
		}
	default:
		if getter {
			n = blocks.NewPropertyGetter(f[2], t)
		} else {
			n = blocks.NewPropertySetter(f[2], t)
		}
	}
	return r.add(n)
}

func (r *repl) vars(args []string) error {
	scopes := scope.Scopes
	if len(args) == 1 {
		sc, err := scope.ParseScope(args[0])
		if err != nil {
			return err
		}
		scopes = []scope.Scope{sc}
	} else if len(args) > 1 {
		return errArgs
	}
	for _, sc := range scopes {
		bindings, err := r.s.Variables(sc)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s:\n", sc)
		printBindings(r.out, r.paint, bindings)
	}
	return nil
}

func (r *repl) retype(args []string) error {
	if len(args) != 3 {
		return errArgs
	}
	sc, err := scope.ParseScope(args[0])
	if err != nil {
		return err
	}
	t, err := vartype.Parse(args[2])
	if err != nil {
		return err
	}
	if err := r.s.Retype(sc, args[1], t); err != nil {
		return err
	}
	// Let any revert run before reporting.
	if err := r.s.Sync(); err != nil {
		return err
	}
	got, err := r.s.TypeOf(sc, args[1])
	if err != nil {
		return err
	}
	if got != t {
		fmt.Fprintf(r.out, "%s is fixed at %s; change reverted\n", args[1], got)
		return nil
	}
	fmt.Fprintf(r.out, "%s is now %s\n", args[1], got)
	return nil
}
