package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/rulebase"
)

func newRulesCmd() *cobra.Command {
	var (
		rulesPath  string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print or export the rule base as YAML",
		Long:  `Validates the rule base and prints it as YAML. With --export it is written to a file, which can be edited and passed back with --rules.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.OutOrStdout(), rulesPath, exportPath)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rule base (default: built-in)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the rule base to this file instead of stdout")

	return cmd
}

func runRules(out io.Writer, rulesPath, exportPath string) error {
	engine, err := loadEngine(rulesPath)
	if err != nil {
		return err
	}
	cfg := fuzzy.Describe(engine)

	if exportPath != "" {
		if err := rulebase.Save(exportPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rule base written: %s (%d rules)\n", exportPath, len(cfg.Rules))
		return nil
	}

	data, err := rulebase.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
