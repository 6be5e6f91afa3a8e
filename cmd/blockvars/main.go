// blockvars CLI - manage declared globals and explore the variable registry
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/blockvars/manifest"
	"github.com/chazu/blockvars/scope"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0 errors only, 1 info, 2 debug)")
	dir := flag.String("C", ".", "Project directory")
	interactive := flag.Bool("i", false, "Start an interactive scratch workspace")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blockvars [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Manages a project's declared globals and explores the block variable registry.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  globals list              # Declared globals (manifest and store)\n")
		fmt.Fprintf(os.Stderr, "  globals add NAME [TYPE]   # Declare a global in the store (default Boolean)\n")
		fmt.Fprintf(os.Stderr, "  globals remove NAME       # Remove a stored global\n")
		fmt.Fprintf(os.Stderr, "  globals clear             # Remove every stored global\n")
		fmt.Fprintf(os.Stderr, "  types                     # Selectable variable types and colours\n")
		fmt.Fprintf(os.Stderr, "  unique [NAME...]          # First generated name not among NAMEs\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blockvars globals add score Number\n")
		fmt.Fprintf(os.Stderr, "  blockvars unique i j k    # prints m\n")
		fmt.Fprintf(os.Stderr, "  blockvars -i              # Scratch workspace REPL\n")
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	m, err := loadManifest(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runREPL(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "globals":
		err = runGlobals(m, args[1:])
	case "types":
		printTypes(os.Stdout)
	case "unique":
		fmt.Println(scope.UniqueName(args[1:]))
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// loadManifest finds blockvars.toml at or above dir, falling back to the
// defaults rooted at dir.
func loadManifest(dir string) (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default(dir)
	}
	return m, nil
}
