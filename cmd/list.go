package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages",
	Long:  `List all packages in the database, or only the installed ones.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolP("installed", "I", false, "list installed packages only")
}

func runList(cmd *cobra.Command, args []string) error {
	installedOnly, _ := cmd.Flags().GetBool("installed")
	out := cmd.OutOrStdout()

	mgr, err := openManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if installedOnly {
		names, err := mgr.ListInstalled(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}
		if len(names) == 0 {
			fmt.Fprintln(out, "No packages installed.")
			return nil
		}
		fmt.Fprintf(out, "Installed packages (%d):\n\n", len(names))
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	packages, err := mgr.ListAvailable(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list packages: %w", err)
	}
	if len(packages) == 0 {
		fmt.Fprintln(out, "No packages available. Run 'mixdep import' to load a package index.")
		return nil
	}

	fmt.Fprintf(out, "Available packages (%d):\n\n", len(packages))
	for _, pkg := range packages {
		status := ""
		if pkg.Installed {
			status = " [installed]"
		}
		fmt.Fprintf(out, "  %-30s %s%s\n", pkg.Name, pkg.Version, status)
	}
	return nil
}
