package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [package]",
	Short: "Show what installing a package would add",
	Long: `Show the packages that must be newly installed to get a package,
given everything recorded as installed in the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

var installCmd = &cobra.Command{
	Use:   "install [package]",
	Short: "Record a package and its dependencies as installed",
	Long: `Resolve a package against the installed set and record every missing
package, in installation order, as installed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [package]",
	Aliases: []string{"remove", "rm"},
	Short:   "Clear the installed mark of a package",
	Long: `Clear the installed mark of a package. Only the named package is
affected: installed packages that depend on it stay marked as installed, and
a warning lists them.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	installCmd.Flags().BoolP("yes", "y", false, "assume yes to all prompts")
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	pkgs, err := s.mgr.Plan(cmd.Context(), s.graph, args[0])
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}

	if len(pkgs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s and all of its dependencies are already installed.\n", args[0])
		return nil
	}
	printList(cmd.OutOrStdout(), fmt.Sprintf("The following packages would be installed for %s:", args[0]), pkgs)
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()
	pkg := args[0]

	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.mgr.Plan(cmd.Context(), s.graph, pkg)
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}
	if len(plan) == 0 {
		fmt.Fprintln(out, "All packages are already installed.")
		return nil
	}

	printList(out, "The following packages will be installed:", plan)

	if !yes {
		fmt.Fprint(out, "\nProceed with installation? [y/N] ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Installation cancelled.")
			return nil
		}
	}

	installed, err := s.mgr.Install(cmd.Context(), s.graph, pkg)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg, err)
	}
	for _, p := range installed {
		fmt.Fprintf(out, "  ✓ %s\n", p)
	}
	fmt.Fprintln(out, "\nInstallation recorded!")
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	pkg := args[0]
	out := cmd.OutOrStdout()

	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	dependents, err := s.mgr.InstalledDependents(cmd.Context(), s.graph, pkg)
	if err != nil {
		return fmt.Errorf("failed to check dependents of %s: %w", pkg, err)
	}

	if err := s.mgr.Uninstall(cmd.Context(), pkg); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is no longer marked as installed.\n", pkg)
	if len(dependents) > 0 {
		fmt.Fprintf(out, "Warning: still installed and depending on %s: %s\n", pkg, strings.Join(dependents, ", "))
	}
	return nil
}
