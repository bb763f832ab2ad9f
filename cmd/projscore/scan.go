package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/projscore/projscore/pkg/config"
	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/rulebase"
	"github.com/projscore/projscore/pkg/scoring"
	"github.com/projscore/projscore/pkg/surface"
)

func newScanCmd() *cobra.Command {
	var (
		rulesPath string
		outputFmt string
		noSave    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Analyze a Java project and score it",
		Long:  `Extracts code metrics, maps them to clean code, functionality and inheritance, runs the rule base, and renders the report.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runScan(cmd.Context(), cmd.OutOrStdout(), scanOpts{
				path:      path,
				rulesPath: rulesPath,
				outputFmt: outputFmt,
				noSave:    noSave,
				verbose:   verbose,
			})
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rule base (default: config or built-in)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not save the report to the cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print per-file metrics")

	return cmd
}

type scanOpts struct {
	path      string
	rulesPath string
	outputFmt string
	noSave    bool
	verbose   bool
}

func runScan(ctx context.Context, out io.Writer, opts scanOpts) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}

	root, err := resolveProject(opts.path)
	if err != nil {
		return err
	}
	cfg, cfgPath := loadConfig(root)

	engine, err := loadEngine(firstNonEmpty(opts.rulesPath, cfg.RulesFile(cfgPath)))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scanning: %s\n", root)

	fmt.Fprintf(os.Stderr, "Step 1/3: Extracting metrics...\n")
	ext, err := metrics.NewExtractor(cfg.Scan.Ignore...)
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}
	m, err := ext.ExtractDir(ctx, root, func(fm metrics.FileMetrics) {
		if !opts.verbose {
			return
		}
		rel, relErr := filepath.Rel(root, fm.Path)
		if relErr != nil {
			rel = fm.Path
		}
		status := ""
		if !fm.Parsed {
			status = " (parse error)"
		}
		fmt.Fprintf(os.Stderr, "  %s: %d lines, %d classes, %d methods%s\n",
			rel, fm.LOC, fm.Classes, fm.Methods, status)
	})
	if err != nil {
		return fmt.Errorf("extracting metrics: %w", err)
	}
	fmt.Fprintf(os.Stderr, "  %d files, %d lines, %d classes, %d methods\n",
		m.Files, m.LOC, m.Classes, m.Methods)
	if m.Files == 0 {
		fmt.Fprintf(os.Stderr, "  Warning: no .java files found under %s\n", root)
	}

	fmt.Fprintf(os.Stderr, "Step 2/3: Scoring...\n")
	report, err := scoring.NewScorer(engine, cfg.Scan.Mapping).ScoreMetrics(m)
	if err != nil {
		return err
	}
	report.ID = uuid.NewString()
	report.Project = config.ProjectName(root)
	report.Path = root

	fmt.Fprintf(os.Stderr, "Step 3/3: Rendering...\n")
	if err := renderer.Render(out, report); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if !opts.noSave {
		saveReport(root, report)
	}
	return nil
}

// saveReport stores the report in the project's cache directory. Failures
// are reported but do not fail the scan.
func saveReport(root string, report *scoring.Report) {
	path := filepath.Join(config.ReportDir(root), report.ID+".json")
	if err := scoring.SaveReport(path, report); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save report: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Report saved: %s\n", path)
}

func resolveProject(path string) (string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		if root, err := config.FindProjectRoot(cwd); err == nil {
			return root, nil
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving project path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", abs)
	}
	return abs, nil
}

// loadConfig returns the project's config and the file it came from, or the
// defaults and "" when there is none.
func loadConfig(root string) (*config.Config, string) {
	cfgFile := config.FindConfigFile(root)
	if cfgFile == "" {
		return config.DefaultConfig(), ""
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig(), ""
	}
	return cfg, cfgFile
}

func loadEngine(rulesPath string) (*fuzzy.Engine, error) {
	engine, err := rulebase.LoadEngine(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading rule base: %w", err)
	}
	return engine, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
