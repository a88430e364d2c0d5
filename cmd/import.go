package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import index files into the package database",
	Long: `Load JSON or YAML package index files into the local database.
Files that have not changed since the last import are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	mgr, err := openManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	printVerbose("Importing %d file(s) into %s...\n", len(args), dbPath)
	results, err := mgr.Import(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to import package index: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.Skipped {
			fmt.Fprintf(out, "  - %s unchanged, skipped\n", res.Path)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s (%d package(s))\n", res.Path, res.Packages)
	}
	fmt.Fprintln(out, "Package database updated successfully!")
	return nil
}
