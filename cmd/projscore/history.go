package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/projscore/projscore/pkg/config"
	"github.com/projscore/projscore/pkg/scoring"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "List saved reports for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			root, err := resolveProject(path)
			if err != nil {
				return err
			}
			return runHistory(cmd.OutOrStdout(), config.ReportDir(root), limit, outputFmt)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of reports to list (0 for all)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

func runHistory(out io.Writer, dir string, limit int, outputFmt string) error {
	summaries, err := scoring.ListReports(dir)
	if err != nil {
		return err
	}
	if limit > 0 {
		summaries = summaries[:minInt(limit, len(summaries))]
	}

	switch outputFmt {
	case "json":
		if summaries == nil {
			summaries = []scoring.Summary{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "", "text":
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No saved reports.")
			return nil
		}
		for _, s := range summaries {
			fmt.Fprintf(out, "%s  %6.2f  %-10s  %s\n",
				s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Score, s.Band, s.ID[:minInt(8, len(s.ID))])
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
