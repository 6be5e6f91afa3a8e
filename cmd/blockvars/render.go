package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/chazu/blockvars/palette"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

// painter colours type names with the editor's type colours when the
// terminal supports it.
type painter struct {
	out *termenv.Output
}

func newPainter(w *os.File) painter {
	return painter{out: termenv.NewOutput(w)}
}

func (p painter) typeName(t vartype.Type) string {
	return p.out.String(fmt.Sprintf("%-10s", t)).Foreground(p.out.Color(vartype.TypeColour(t))).String()
}

func (p painter) swatch(hex string) string {
	return p.out.String("  ").Background(p.out.Color(hex)).String()
}

func (p painter) title(s, hex string) string {
	return p.out.String(s).Bold().Foreground(p.out.Color(hex)).String()
}

func printTypes(w *os.File) {
	p := newPainter(w)
	for _, t := range vartype.All() {
		fmt.Fprintf(w, "%s %s %s  hue %3.0f\n", p.swatch(vartype.TypeColour(t)), p.typeName(t), vartype.TypeColour(t), vartype.Hue(t))
	}
}

func printBindings(w io.Writer, p painter, bindings []scope.Binding) {
	if len(bindings) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, b := range bindings {
		lock := ""
		if !b.Mutable {
			lock = "  fixed"
		}
		fmt.Fprintf(w, "  %-20s %s%s\n", b.Name, p.typeName(b.Type), lock)
	}
}

func printPalette(w io.Writer, p painter, cats []palette.Category) {
	for _, c := range cats {
		fmt.Fprintf(w, "%s  [%s / %s]\n", p.title(c.Title, c.Colour), c.GetKind, c.SetKind)
		for _, e := range c.Entries {
			note := ""
			if e.Default {
				note = "  (default)"
			}
			fmt.Fprintf(w, "  %-20s %s%s\n", e.Name, p.typeName(e.Type), note)
		}
	}
}
