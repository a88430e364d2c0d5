package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mixos-go/mixdep/pkg/export"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the dependency graph in Graphviz DOT format",
	Long: `Print the dependency graph in Graphviz DOT format. An edge a -> b
means a depends on b.

  mixdep graph | dot -Tsvg > deps.svg`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	return export.DOT(s.graph, cmd.OutOrStdout())
}
