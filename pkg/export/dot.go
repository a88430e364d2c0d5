// Package export renders dependency graphs for external tools.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Source is the read side of a dependency graph
type Source interface {
	AllVertices() []string
	Adjacent(name string) ([]string, bool)
}

// DOT writes src as a Graphviz digraph. An edge a -> b means a depends on
// b. Duplicate edges are written once.
func DOT(src Source, w io.Writer) error {
	names := src.AllVertices()
	sort.Strings(names)

	g := graph.New(graph.StringHash, graph.Directed())
	for _, name := range names {
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add vertex %s: %w", name, err)
		}
	}

	for _, name := range names {
		deps, _ := src.Adjacent(name)
		for _, dep := range deps {
			if err := g.AddEdge(name, dep); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("failed to add edge %s -> %s: %w", name, dep, err)
			}
		}
	}

	return draw.DOT(g, w)
}
