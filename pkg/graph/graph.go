// Package graph implements the directed, unweighted dependency graph used by
// the resolver. Vertices are package names and an edge a -> b means that a
// depends on b.
//
// Mutations never fail. An empty name is treated as absent and the call is
// ignored, so loaders can feed raw parsed data without guarding it.
package graph

// Graph is a directed graph keyed by vertex name.
// It is not safe for concurrent mutation.
type Graph struct {
	names []string
	index map[string]int
	edges [][]string
}

// New returns an empty Graph
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddVertex inserts name with an empty edge list.
// Empty or already known names are ignored.
func (g *Graph) AddVertex(name string) {
	if name == "" {
		return
	}
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.edges = append(g.edges, nil)
}

// RemoveVertex deletes name and every edge pointing at it.
func (g *Graph) RemoveVertex(name string) {
	if name == "" {
		return
	}
	i, ok := g.index[name]
	if !ok {
		return
	}

	// Keep indices dense: move the last vertex into the freed slot
	last := len(g.names) - 1
	if i != last {
		moved := g.names[last]
		g.names[i] = moved
		g.edges[i] = g.edges[last]
		g.index[moved] = i
	}
	g.names = g.names[:last]
	g.edges[last] = nil
	g.edges = g.edges[:last]
	delete(g.index, name)

	for j, deps := range g.edges {
		g.edges[j] = without(deps, name)
	}
}

// AddEdge appends to as a dependency of from. Missing endpoints are
// created first. Duplicate edges are kept.
func (g *Graph) AddEdge(from, to string) {
	if from == "" || to == "" {
		return
	}
	g.AddVertex(from)
	g.AddVertex(to)

	i := g.index[from]
	g.edges[i] = append(g.edges[i], to)
}

// RemoveEdge drops the first occurrence of to from the edge list of from.
func (g *Graph) RemoveEdge(from, to string) {
	if from == "" || to == "" {
		return
	}
	i, ok := g.index[from]
	if !ok {
		return
	}
	deps := g.edges[i]
	for j, d := range deps {
		if d == to {
			g.edges[i] = append(deps[:j], deps[j+1:]...)
			return
		}
	}
}

// AllVertices returns every vertex name once. The slice is a copy.
func (g *Graph) AllVertices() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Adjacent returns the edge list of name in insertion order.
// The second result is false when name is not a vertex.
func (g *Graph) Adjacent(name string) ([]string, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(g.edges[i]))
	copy(out, g.edges[i])
	return out, true
}

// Has reports whether name is a vertex.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Index returns the dense index of name, in the range [0, VertexCount()).
// Indices only change when a vertex is removed.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// EdgeCount returns the number of edges, counting duplicates separately.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.edges {
		n += len(deps)
	}
	return n
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.names)
}

// without removes every occurrence of name, reusing the backing array
func without(deps []string, name string) []string {
	out := deps[:0]
	for _, d := range deps {
		if d != name {
			out = append(out, d)
		}
	}
	return out
}
