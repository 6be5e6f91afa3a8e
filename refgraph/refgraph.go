// Package refgraph renders which blocks reference which variables as a
// Graphviz digraph.
package refgraph

import (
	"fmt"
	"strconv"

	gv "github.com/awalterschulze/gographviz"

	"github.com/chazu/blockvars/blocks"
	"github.com/chazu/blockvars/graph"
	"github.com/chazu/blockvars/scope"
	"github.com/chazu/blockvars/vartype"
)

const graphName = "vars"

func clusterName(sc scope.Scope) string {
	return "cluster_" + sc.String()
}

func varNode(sc scope.Scope, name string) string {
	return strconv.Quote(sc.String() + ":" + graph.Key(name))
}

// Build returns a directed graph with one node per variable, clustered by
// scope and coloured by type, and one node per block that references a
// variable. Each edge runs from a block to a variable it names.
func Build(reg *scope.Registry, ws graph.BlockLister) (*gv.Graph, error) {
	g := gv.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return nil, err
	}
	if err := g.SetDir(true); err != nil {
		return nil, err
	}

	for _, sc := range scope.Scopes {
		ns := reg.Namespace(sc)
		bindings, err := ns.AllVariablesAndTypes(ws)
		if err != nil {
			return nil, err
		}
		cluster := clusterName(sc)
		if err := g.AddSubGraph(graphName, cluster, map[string]string{
			"label": strconv.Quote(sc.String()),
		}); err != nil {
			return nil, err
		}
		for _, b := range bindings {
			attrs := map[string]string{
				"label": strconv.Quote(fmt.Sprintf("%s : %s", b.Name, b.Type)),
				"color": strconv.Quote(vartype.TypeColour(b.Type)),
			}
			if !b.Mutable {
				attrs["shape"] = "doubleoctagon"
			}
			if err := g.AddNode(cluster, varNode(sc, b.Name), attrs); err != nil {
				return nil, err
			}
		}
	}

	for i, b := range ws.AllBlocks() {
		id, kind, ok := blocks.Info(b)
		if !ok {
			id, kind = fmt.Sprintf("block%d", i), fmt.Sprintf("%T", b)
		}
		node := strconv.Quote(id)
		added := false
		for _, sc := range scope.Scopes {
			for _, name := range reg.Namespace(sc).VariablesOf(b) {
				if name == "" {
					continue
				}
				if !added {
					if err := g.AddNode(graphName, node, map[string]string{
						"label": strconv.Quote(kind),
						"shape": "box",
					}); err != nil {
						return nil, err
					}
					added = true
				}
				if err := g.AddEdge(node, varNode(sc, name), true, nil); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// DOT renders Build's graph as DOT source.
func DOT(reg *scope.Registry, ws graph.BlockLister) (string, error) {
	g, err := Build(reg, ws)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}
