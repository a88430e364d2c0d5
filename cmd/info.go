package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mixos-go/mixdep/pkg/manager"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show package information",
	Long:  `Display the dependencies of a package and how many it pulls in.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents [package]",
	Short: "Show packages that directly depend on a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runDependents,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dependentsCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	pkgName := args[0]
	out := cmd.OutOrStdout()

	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	deps, ok := s.graph.Adjacent(pkgName)
	if !ok {
		return fmt.Errorf("failed to get package info: %w", &manager.PackageNotFoundError{Name: pkgName})
	}

	fmt.Fprintf(out, "Package: %s\n", pkgName)
	if s.mgr != nil {
		info, err := s.mgr.GetPackageInfo(cmd.Context(), pkgName)
		switch {
		case err == nil:
			if info.Version != "" {
				fmt.Fprintf(out, "Version: %s\n", info.Version)
			}
			if info.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", info.Description)
			}
			fmt.Fprintf(out, "Installed: %v\n", info.Installed)
		case errors.Is(err, manager.ErrPackageNotFound):
			// referenced as a dependency but never declared
			fmt.Fprintf(out, "Declared: false\n")
		default:
			return fmt.Errorf("failed to get package info: %w", err)
		}
	}

	if len(deps) > 0 {
		fmt.Fprintf(out, "Dependencies: %s\n", strings.Join(deps, ", "))
	} else {
		fmt.Fprintf(out, "Dependencies: none\n")
	}

	n, err := s.resolver.DependencyCount(pkgName)
	if err != nil {
		fmt.Fprintf(out, "Transitive dependencies: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "Transitive dependencies: %d\n", n)
	return nil
}

func runDependents(cmd *cobra.Command, args []string) error {
	pkgName := args[0]

	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.graph.Has(pkgName) {
		return &manager.PackageNotFoundError{Name: pkgName}
	}

	var dependents []string
	for _, name := range s.graph.AllVertices() {
		deps, _ := s.graph.Adjacent(name)
		for _, dep := range deps {
			if dep == pkgName {
				dependents = append(dependents, name)
				break
			}
		}
	}
	sort.Strings(dependents)

	if len(dependents) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No packages depend on %s.\n", pkgName)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is required by: %s\n", pkgName, strings.Join(dependents, ", "))
	return nil
}
