package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mixos-go/mixdep/pkg/planview"
)

var walkCmd = &cobra.Command{
	Use:   "walk [package]",
	Short: "Step through the installation order of a package",
	Long: `Step through the installation order of a package in an interactive
view. Press enter to advance, q to quit. When stdout is not a terminal the
order is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runWalk,
}

func init() {
	rootCmd.AddCommand(walkCmd)
}

func runWalk(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	order, err := s.resolver.InstallationOrder(args[0])
	if err != nil {
		return fmt.Errorf("dependency resolution failed: %w", err)
	}

	title := fmt.Sprintf("Installing %s", args[0])
	if cmd.OutOrStdout() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
		return planview.Run(title, order, os.Stdout)
	}

	printList(cmd.OutOrStdout(), title+":", order)
	return nil
}
