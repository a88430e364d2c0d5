package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order [package]",
	Short: "Show the installation order of a package",
	Long: `Show a package and all of its transitive dependencies, each listed
after everything it depends on.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

var toInstallCmd = &cobra.Command{
	Use:   "to-install [new-package] [installed-package]",
	Short: "Show what must be installed on top of an installed package",
	Long: `Show the packages that must be newly installed to get new-package
when installed-package and its dependencies are already present.`,
	Args: cobra.ExactArgs(2),
	RunE: runToInstall,
}

var orderAllCmd = &cobra.Command{
	Use:   "order-all",
	Short: "Show an installation order for every package",
	Args:  cobra.NoArgs,
	RunE:  runOrderAll,
}

var maxDepsCmd = &cobra.Command{
	Use:   "max-deps",
	Short: "Show the package with the most transitive dependencies",
	Long: `Show the package with the most unique transitive dependencies.
Ties are broken by the lexicographically smallest package name.`,
	Args: cobra.NoArgs,
	RunE: runMaxDeps,
}

func init() {
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(toInstallCmd)
	rootCmd.AddCommand(orderAllCmd)
	rootCmd.AddCommand(maxDepsCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	order, err := s.resolver.InstallationOrder(args[0])
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}

	printList(cmd.OutOrStdout(), fmt.Sprintf("Installation order for %s:", args[0]), order)
	return nil
}

func runToInstall(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	newPkg, installedPkg := args[0], args[1]
	pkgs, err := s.resolver.ToInstall(newPkg, installedPkg)
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}

	if len(pkgs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to install: %s is satisfied by %s.\n", newPkg, installedPkg)
		return nil
	}
	printList(cmd.OutOrStdout(), fmt.Sprintf("To install %s with %s present:", newPkg, installedPkg), pkgs)
	return nil
}

func runOrderAll(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	order, err := s.resolver.InstallationOrderForAllPackages()
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}

	if len(order) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages available. Run 'mixdep import' or pass --index.")
		return nil
	}
	printList(cmd.OutOrStdout(), "Installation order for all packages:", order)
	return nil
}

func runMaxDeps(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	pkg, err := s.resolver.PackageWithMaxDependencies()
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}
	if pkg == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages available. Run 'mixdep import' or pass --index.")
		return nil
	}

	n, err := s.resolver.DependencyCount(pkg)
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d dependencies)\n", pkg, n)
	return nil
}
