// Package main provides the projscore CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "projscore",
		Short: "Fuzzy project-success scoring for Java codebases",
		Long: `Projscore measures clean code, functionality and inheritance in a Java
project and infers a project-success score from a fuzzy rule base.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newScanCmd(),
		newEvalCmd(),
		newRulesCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}
