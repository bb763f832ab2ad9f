package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/scoring"
	"github.com/projscore/projscore/pkg/surface"
)

func newEvalCmd() *cobra.Command {
	var opts evalOpts

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score crisp input values directly",
		Long:  `Runs the rule base on clean code, functionality and inheritance values in [0, 100] without scanning a project.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Float64Var(&opts.clean, "clean", 0, "Clean code value (0-100)")
	cmd.Flags().Float64Var(&opts.functionality, "functionality", 0, "Functionality value (0-100)")
	cmd.Flags().Float64Var(&opts.inheritance, "inheritance", 0, "Inheritance value (0-100)")
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "Path to a YAML rule base (default: built-in)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("clean")
	_ = cmd.MarkFlagRequired("functionality")
	_ = cmd.MarkFlagRequired("inheritance")

	return cmd
}

type evalOpts struct {
	clean         float64
	functionality float64
	inheritance   float64
	rulesPath     string
	outputFmt     string
}

func runEval(out io.Writer, opts evalOpts) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}

	engine, err := loadEngine(opts.rulesPath)
	if err != nil {
		return err
	}

	scorer := scoring.NewScorer(engine, metrics.DefaultMapping())
	report, err := scorer.ScoreInputs(metrics.Inputs{
		CleanCode:     opts.clean,
		Functionality: opts.functionality,
		Inheritance:   opts.inheritance,
	})
	if errors.Is(err, fuzzy.ErrNoRuleFired) {
		return fmt.Errorf("no rule fired for clean=%g functionality=%g inheritance=%g; the rule base does not cover these inputs",
			opts.clean, opts.functionality, opts.inheritance)
	}
	if err != nil {
		return err
	}

	if err := renderer.Render(out, report); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}
