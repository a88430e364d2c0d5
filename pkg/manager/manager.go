package manager

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-logr/logr"

	"github.com/mixos-go/mixdep/pkg/graph"
	"github.com/mixos-go/mixdep/pkg/loader"
)

// Manager ties the package index database to graph construction and
// resolution
type Manager struct {
	db  *Database
	log logr.Logger
}

type PackageInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
	Installed    bool     `json:"-"`
}

// ImportResult describes what Import did with one source file
type ImportResult struct {
	Path     string
	Packages int
	Skipped  bool
}

func New(dbPath string, log logr.Logger) (*Manager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Manager{db: db, log: log}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// ConstructGraph builds a graph straight from index files, bypassing the
// database
func ConstructGraph(ctx context.Context, paths ...string) (*graph.Graph, error) {
	sources, err := loader.LoadFiles(ctx, paths, loader.DefaultMaxWorkers)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for _, src := range sources {
		loader.Apply(g, src.Entries)
	}
	return g, nil
}

// Import loads index files into the database. Files whose content has not
// changed since the last import are skipped.
func (m *Manager) Import(ctx context.Context, paths []string) ([]ImportResult, error) {
	ctx = logr.NewContext(ctx, m.log)
	sources, err := loader.LoadFiles(ctx, paths, loader.DefaultMaxWorkers)
	if err != nil {
		return nil, err
	}

	results := make([]ImportResult, 0, len(sources))
	for _, src := range sources {
		res := ImportResult{Path: src.Path, Packages: len(src.Entries)}

		prev, err := m.db.SourceDigest(ctx, src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", src.Path, err)
		}
		if prev == src.Digest {
			m.log.V(1).Info("Source unchanged, skipping", "path", src.Path, "digest", src.Digest)
			res.Skipped = true
			results = append(results, res)
			continue
		}

		entries := make([]loader.Entry, 0, len(src.Entries))
		for _, e := range src.Entries {
			if e.Name == "" {
				m.log.Info("Skipping unnamed package entry", "path", src.Path)
				continue
			}
			entries = append(entries, e)
		}
		if err := m.db.ImportEntries(ctx, src.Path, src.Digest, entries); err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", src.Path, err)
		}

		m.log.Info("Imported index", "path", src.Path, "packages", len(entries))
		results = append(results, res)
	}

	return results, nil
}

// Graph builds the dependency graph from the database. Entries are
// replayed in the order they were imported, so the result matches
// ConstructGraph over the same files in the same order.
func (m *Manager) Graph(ctx context.Context) (*graph.Graph, error) {
	entries, err := m.db.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read package index: %w", err)
	}

	g := graph.New()
	loader.Apply(g, entries)
	return g, nil
}

// Resolver returns a resolver over g that logs through the manager's logger
func (m *Manager) Resolver(g DependencyGraph) *Resolver {
	return NewResolver(g).WithLogger(m.log)
}

// installedIn returns the installed packages that g knows about
func (m *Manager) installedIn(ctx context.Context, g DependencyGraph) ([]string, error) {
	names, err := m.db.ListInstalled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed packages: %w", err)
	}

	known := names[:0]
	for _, name := range names {
		if g.Has(name) {
			known = append(known, name)
		} else {
			m.log.V(1).Info("Installed package not in graph, ignoring", "package", name)
		}
	}
	return known, nil
}

// Plan returns what must be newly installed to get pkg, given everything
// recorded as installed
func (m *Manager) Plan(ctx context.Context, g DependencyGraph, pkg string) ([]string, error) {
	installed, err := m.installedIn(ctx, g)
	if err != nil {
		return nil, err
	}
	return m.Resolver(g).ToInstallOver(pkg, installed...)
}

// Install records pkg and the part of its closure that was missing as
// installed. It returns the newly installed packages in installation order.
func (m *Manager) Install(ctx context.Context, g DependencyGraph, pkg string) ([]string, error) {
	plan, err := m.Plan(ctx, g, pkg)
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		return plan, nil
	}

	if err := m.db.RecordInstallation(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to record installation: %w", err)
	}
	m.log.Info("Recorded installation", "package", pkg, "count", len(plan))
	return plan, nil
}

// Uninstall clears the installed mark of pkg only. Dependents are not
// touched; use InstalledDependents to find them first.
func (m *Manager) Uninstall(ctx context.Context, pkg string) error {
	installed, err := m.db.IsInstalled(ctx, pkg)
	if err != nil {
		return err
	}
	if !installed {
		return fmt.Errorf("package %s is not installed", pkg)
	}
	return m.db.RemoveInstallation(ctx, pkg)
}

// InstalledDependents returns the installed packages other than pkg whose
// transitive dependencies include pkg, sorted by name. Installed packages
// whose resolution fails are skipped.
func (m *Manager) InstalledDependents(ctx context.Context, g DependencyGraph, pkg string) ([]string, error) {
	installed, err := m.installedIn(ctx, g)
	if err != nil {
		return nil, err
	}

	r := m.Resolver(g)
	var dependents []string
	for _, name := range installed {
		if name == pkg {
			continue
		}
		order, err := r.InstallationOrder(name)
		if err != nil {
			m.log.V(1).Info("Skipping unresolvable installed package", "package", name, "error", err.Error())
			continue
		}
		for _, p := range order {
			if p == pkg {
				dependents = append(dependents, name)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents, nil
}

func (m *Manager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	return m.db.IsInstalled(ctx, pkg)
}

func (m *Manager) ListInstalled(ctx context.Context) ([]string, error) {
	return m.db.ListInstalled(ctx)
}

func (m *Manager) ListAvailable(ctx context.Context) ([]PackageInfo, error) {
	return m.db.GetAllPackages(ctx)
}

func (m *Manager) GetPackageInfo(ctx context.Context, pkg string) (*PackageInfo, error) {
	return m.db.GetPackage(ctx, pkg)
}
