package manager

import (
	"sort"

	"github.com/go-logr/logr"
)

// DependencyGraph is the read side of a package dependency graph.
// *graph.Graph satisfies it.
type DependencyGraph interface {
	Has(name string) bool
	Index(name string) (int, bool)
	Adjacent(name string) ([]string, bool)
	AllVertices() []string
	VertexCount() int
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// Resolver answers installation-order queries over a DependencyGraph.
// Queries never mutate the graph.
type Resolver struct {
	graph DependencyGraph
	log   logr.Logger
}

func NewResolver(g DependencyGraph) *Resolver {
	return &Resolver{graph: g, log: logr.Discard()}
}

// WithLogger returns a copy of the Resolver that logs traversals to log
func (r *Resolver) WithLogger(log logr.Logger) *Resolver {
	c := *r
	c.log = log
	return &c
}

// traversal holds the per-query visit state, indexed by the graph's stable
// vertex index
type traversal struct {
	graph DependencyGraph
	state []visitState
	stack []string
	order []string
}

func (r *Resolver) newTraversal() *traversal {
	return &traversal{
		graph: r.graph,
		state: make([]visitState, r.graph.VertexCount()),
	}
}

func (t *traversal) visit(pkg string) error {
	i, _ := t.graph.Index(pkg)
	t.state[i] = inProgress
	t.stack = append(t.stack, pkg)

	deps, _ := t.graph.Adjacent(pkg)
	for _, dep := range deps {
		j, ok := t.graph.Index(dep)
		if !ok {
			continue
		}
		switch t.state[j] {
		case inProgress:
			return &CycleError{Package: t.stack[0], Path: t.cyclePath(dep)}
		case unvisited:
			if err := t.visit(dep); err != nil {
				return err
			}
		}
	}

	t.stack = t.stack[:len(t.stack)-1]
	t.order = append(t.order, pkg)
	t.state[i] = done
	return nil
}

// cyclePath returns the part of the current stack that starts at dep,
// closed with dep again
func (t *traversal) cyclePath(dep string) []string {
	for k, name := range t.stack {
		if name == dep {
			path := make([]string, 0, len(t.stack)-k+1)
			path = append(path, t.stack[k:]...)
			return append(path, dep)
		}
	}
	return []string{dep, dep}
}

// InstallationOrder returns pkg and all of its transitive dependencies,
// each listed after everything it depends on. Cycles that pkg cannot reach
// are ignored.
func (r *Resolver) InstallationOrder(pkg string) ([]string, error) {
	if !r.graph.Has(pkg) {
		return nil, &PackageNotFoundError{Name: pkg}
	}

	t := r.newTraversal()
	if err := t.visit(pkg); err != nil {
		r.log.V(1).Info("Cycle detected", "package", pkg, "error", err.Error())
		return nil, err
	}

	r.log.V(1).Info("Resolved installation order", "package", pkg, "count", len(t.order))
	return t.order, nil
}

// DependencyCount returns the number of unique transitive dependencies of pkg
func (r *Resolver) DependencyCount(pkg string) (int, error) {
	order, err := r.InstallationOrder(pkg)
	if err != nil {
		return 0, err
	}
	return len(order) - 1, nil
}

// ToInstall returns the packages that must be newly installed to get newPkg
// when installedPkg (and therefore its dependencies) is already present.
func (r *Resolver) ToInstall(newPkg, installedPkg string) ([]string, error) {
	return r.ToInstallOver(newPkg, installedPkg)
}

// ToInstallOver is ToInstall against several installed packages. Everything
// in the closure of any installed package is considered present.
func (r *Resolver) ToInstallOver(newPkg string, installed ...string) ([]string, error) {
	want, err := r.InstallationOrder(newPkg)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool)
	for _, pkg := range installed {
		order, err := r.InstallationOrder(pkg)
		if err != nil {
			return nil, err
		}
		for _, p := range order {
			have[p] = true
		}
	}

	out := make([]string, 0, len(want))
	for _, p := range want {
		if !have[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

// closures resolves every vertex. Names are returned in lexicographic order,
// which is also the order they were evaluated in.
func (r *Resolver) closures() ([]string, map[string][]string, error) {
	names := r.graph.AllVertices()
	sort.Strings(names)

	orders := make(map[string][]string, len(names))
	for _, name := range names {
		order, err := r.InstallationOrder(name)
		if err != nil {
			return nil, nil, err
		}
		orders[name] = order
	}
	return names, orders, nil
}

// PackageWithMaxDependencies returns the package with the most unique
// transitive dependencies. Ties go to the lexicographically smallest name.
// An empty graph yields "".
func (r *Resolver) PackageWithMaxDependencies() (string, error) {
	names, orders, err := r.closures()
	if err != nil {
		return "", err
	}

	best, most := "", -1
	for _, name := range names {
		if n := len(orders[name]) - 1; n > most {
			best, most = name, n
		}
	}
	return best, nil
}

// InstallationOrderForAllPackages returns every package in an order where
// no package precedes one of its dependencies. Packages with the largest
// closures are placed first, each followed by whatever it pulled in.
func (r *Resolver) InstallationOrderForAllPackages() ([]string, error) {
	names, orders, err := r.closures()
	if err != nil {
		return nil, err
	}

	// Selection order for each round: largest closure first, then by name
	sort.SliceStable(names, func(i, j int) bool {
		return len(orders[names[i]]) > len(orders[names[j]])
	})

	placed := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if placed[name] {
			continue
		}
		for _, p := range orders[name] {
			if !placed[p] {
				placed[p] = true
				out = append(out, p)
			}
		}
	}

	r.log.V(1).Info("Resolved global installation order", "count", len(out))
	return out, nil
}
