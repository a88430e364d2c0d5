package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/mixos-go/mixdep/pkg/graph"
	"github.com/mixos-go/mixdep/pkg/logging"
	"github.com/mixos-go/mixdep/pkg/manager"
)

var (
	version    = "1.0.0"
	dbPath     = defaultDBPath()
	indexPaths []string
	verbose    bool

	log = logr.Discard()
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

var rootCmd = &cobra.Command{
	Use:   "mixdep",
	Short: "Package installation order resolver",
	Long: `mixdep computes installation orders from a package dependency index.

The index is either imported into a local database with 'mixdep import',
or read directly from JSON/YAML files given with --index.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		log = l
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "path to package index database (env MIXDEP_DB)")
	rootCmd.PersistentFlags().StringSliceVarP(&indexPaths, "index", "i", nil, "read the index from these files instead of the database")
}

// defaultDBPath honours MIXDEP_DB, then the XDG data directory
func defaultDBPath() string {
	if p := os.Getenv("MIXDEP_DB"); p != "" {
		return p
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "mixdep.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "mixdep", "index.db")
}

func openManager() (*manager.Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	mgr, err := manager.New(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize package manager: %w", err)
	}
	return mgr, nil
}

// session is what a query command works with. mgr is nil when the graph
// came from --index files and the command did not ask for the database.
type session struct {
	mgr      *manager.Manager
	graph    *graph.Graph
	resolver *manager.Resolver
}

func openSession(ctx context.Context, needDB bool) (*session, error) {
	s := &session{}
	if needDB || len(indexPaths) == 0 {
		mgr, err := openManager()
		if err != nil {
			return nil, err
		}
		s.mgr = mgr
	}

	var err error
	if len(indexPaths) > 0 {
		s.graph, err = manager.ConstructGraph(logr.NewContext(ctx, log), indexPaths...)
	} else {
		s.graph, err = s.mgr.Graph(ctx)
	}
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load package index: %w", err)
	}

	s.resolver = manager.NewResolver(s.graph).WithLogger(log)
	return s, nil
}

func (s *session) Close() {
	if s.mgr != nil {
		s.mgr.Close()
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func printList(w io.Writer, heading string, pkgs []string) {
	fmt.Fprintln(w, headingStyle.Render(heading))
	for i, pkg := range pkgs {
		fmt.Fprintf(w, "  %3d. %s\n", i+1, pkg)
	}
	fmt.Fprintf(w, "\nTotal: %d package(s)\n", len(pkgs))
}
