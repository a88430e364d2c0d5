package graph

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddVertexIdempotent(t *testing.T) {
	g := New()
	g.AddVertex("a")
	g.AddVertex("a")

	if g.VertexCount() != 1 {
		t.Errorf("Expected 1 vertex, got %d", g.VertexCount())
	}
	if deps, ok := g.Adjacent("a"); !ok || len(deps) != 0 {
		t.Errorf("Expected empty edge list for a, got %v (known=%v)", deps, ok)
	}
}

func TestEmptyNamesIgnored(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")

	g.AddVertex("")
	g.RemoveVertex("")
	g.AddEdge("", "a")
	g.AddEdge("a", "")
	g.AddEdge("", "")
	g.RemoveEdge("", "b")
	g.RemoveEdge("a", "")

	if g.VertexCount() != 2 {
		t.Errorf("Expected 2 vertices, got %d", g.VertexCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdgeCreatesEndpoints(t *testing.T) {
	g := New()
	g.AddEdge("app", "lib")

	for _, name := range []string{"app", "lib"} {
		if !g.Has(name) {
			t.Errorf("Expected %s to be auto-created", name)
		}
	}

	deps, _ := g.Adjacent("app")
	if diff := cmp.Diff([]string{"lib"}, deps); diff != "" {
		t.Errorf("Adjacent(app) mismatch (-want +got):\n%s", diff)
	}
	if deps, _ := g.Adjacent("lib"); len(deps) != 0 {
		t.Errorf("Expected lib to be a leaf, got %v", deps)
	}
}

func TestDuplicateEdgesAndSelfLoops(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "a")

	if g.EdgeCount() != 3 {
		t.Errorf("Expected 3 edges, got %d", g.EdgeCount())
	}
	deps, _ := g.Adjacent("a")
	if diff := cmp.Diff([]string{"b", "b", "a"}, deps); diff != "" {
		t.Errorf("Adjacent(a) mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveEdgeFirstOccurrence(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("a", "b")

	g.RemoveEdge("a", "b")
	deps, _ := g.Adjacent("a")
	if diff := cmp.Diff([]string{"c", "b"}, deps); diff != "" {
		t.Errorf("Adjacent(a) mismatch (-want +got):\n%s", diff)
	}

	// unknown source and missing edge are no-ops
	g.RemoveEdge("zzz", "b")
	g.RemoveEdge("a", "zzz")
	if g.EdgeCount() != 2 {
		t.Errorf("Expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestRemoveVertexStripsIncomingEdges(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("c", "b")
	g.AddEdge("b", "d")
	g.AddEdge("d", "b")

	g.RemoveVertex("b")

	if g.Has("b") {
		t.Fatal("Expected b to be removed")
	}
	for _, v := range g.AllVertices() {
		if v == "b" {
			t.Errorf("AllVertices still lists b")
		}
		deps, _ := g.Adjacent(v)
		for _, d := range deps {
			if d == "b" {
				t.Errorf("Adjacent(%s) still references b: %v", v, deps)
			}
		}
	}
	if g.VertexCount() != 3 {
		t.Errorf("Expected 3 vertices, got %d", g.VertexCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}

	g.RemoveVertex("missing")
	if g.VertexCount() != 3 {
		t.Errorf("Removing unknown vertex changed count to %d", g.VertexCount())
	}
}

func TestIndexStaysDense(t *testing.T) {
	g := New()
	for _, v := range []string{"a", "b", "c", "d"} {
		g.AddVertex(v)
	}
	g.AddEdge("d", "a")
	g.RemoveVertex("b")

	seen := make(map[int]string)
	for _, v := range g.AllVertices() {
		i, ok := g.Index(v)
		if !ok {
			t.Fatalf("Index(%s) unknown", v)
		}
		if i < 0 || i >= g.VertexCount() {
			t.Errorf("Index(%s) = %d out of range", v, i)
		}
		if other, dup := seen[i]; dup {
			t.Errorf("Index %d shared by %s and %s", i, other, v)
		}
		seen[i] = v
	}

	// the moved vertex keeps its edges
	deps, _ := g.Adjacent("d")
	if diff := cmp.Diff([]string{"a"}, deps); diff != "" {
		t.Errorf("Adjacent(d) mismatch (-want +got):\n%s", diff)
	}
}

func TestAllVerticesUnique(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddVertex("c")
	g.AddVertex("a")

	got := g.AllVertices()
	sort.Strings(got)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("AllVertices mismatch (-want +got):\n%s", diff)
	}

	if _, ok := g.Adjacent("missing"); ok {
		t.Error("Expected Adjacent on unknown vertex to report false")
	}
}

func TestAdjacentReturnsCopy(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")

	deps, _ := g.Adjacent("a")
	deps[0] = "mutated"

	again, _ := g.Adjacent("a")
	if again[0] != "b" {
		t.Errorf("Adjacent exposed internal storage: %v", again)
	}
}
