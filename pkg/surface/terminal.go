package surface

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/projscore/projscore/pkg/rulebase"
	"github.com/projscore/projscore/pkg/scoring"
)

// TerminalRenderer renders a Report as colored terminal output. Color is
// disabled when NO_COLOR is set or when writing to a file that is not a
// terminal.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

type palette struct {
	enabled bool
}

func newPalette(w io.Writer) palette {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return palette{}
	}
	if f, ok := w.(*os.File); ok {
		return palette{enabled: term.IsTerminal(int(f.Fd()))}
	}
	return palette{enabled: true}
}

func (p palette) bold(s string) string {
	return p.colored(s, colorBold)
}

func (p palette) dim(s string) string {
	return p.colored(s, colorDim)
}

func (p palette) colored(s, color string) string {
	if !p.enabled || color == "" {
		return s
	}
	return color + s + colorReset
}

func severityColor(sev scoring.Severity) string {
	switch sev {
	case scoring.SeverityLow:
		return colorGreen
	case scoring.SeverityMedium:
		return colorYellow
	case scoring.SeverityHigh:
		return colorRed
	default:
		return ""
	}
}

type termDegree struct {
	term   string
	degree float64
}

// activeTerms returns the terms with a non-zero degree, strongest first.
func activeTerms(degrees map[string]float64) []termDegree {
	var out []termDegree
	for t, d := range degrees {
		if d > 0 {
			out = append(out, termDegree{term: t, degree: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].degree != out[j].degree {
			return out[i].degree > out[j].degree
		}
		return out[i].term < out[j].term
	})
	return out
}

func formatTerms(degrees map[string]float64) string {
	var parts []string
	for _, td := range activeTerms(degrees) {
		parts = append(parts, fmt.Sprintf("%s %.2f", td.term, td.degree))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func inputRows(report *scoring.Report) []struct {
	name  string
	value float64
} {
	return []struct {
		name  string
		value float64
	}{
		{rulebase.CleanCode, report.Inputs.CleanCode},
		{rulebase.Functionality, report.Inputs.Functionality},
		{rulebase.Inheritance, report.Inputs.Inheritance},
	}
}

func (r *TerminalRenderer) Render(w io.Writer, report *scoring.Report) error {
	p := newPalette(w)
	sc := severityColor(scoring.SeverityFromScore(report.Score))

	// Header
	header := fmt.Sprintf("Project success: %s", p.colored(fmt.Sprintf("%.2f", report.Score), sc))
	if report.Band != "" {
		header += fmt.Sprintf(" (%s)", report.Band)
	}
	fmt.Fprintf(w, "%s\n", p.bold(header))
	if report.Path != "" {
		fmt.Fprintf(w, "%s\n", p.dim(report.Path))
	}
	fmt.Fprintln(w)

	// Inputs
	fmt.Fprintln(w, "Inputs:")
	for _, row := range inputRows(report) {
		fmt.Fprintf(w, "  %-14s %6.2f  %s\n", row.name, row.value, p.dim(formatTerms(report.Fuzzified[row.name])))
	}
	fmt.Fprintln(w)

	// Metrics
	if m := report.Metrics; m != nil {
		fmt.Fprintf(w, "Analyzed: %d files / %d lines / %d classes / %d methods / %d extends / %d overrides / complexity %d\n",
			m.Files, m.LOC, m.Classes, m.Methods, m.Extends, m.Overrides, m.Complexity)
		if m.ParseErrors > 0 {
			fmt.Fprintf(w, "  %s\n", p.colored(fmt.Sprintf("%d files could not be parsed", m.ParseErrors), colorYellow))
		}
		fmt.Fprintln(w)
	}

	// Rules
	if len(report.Rules) == 0 {
		fmt.Fprintln(w, "No rules fired.")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Fired rules:")
		maxRules := 5
		if len(report.Rules) < maxRules {
			maxRules = len(report.Rules)
		}
		for _, fr := range report.Rules[:maxRules] {
			fmt.Fprintf(w, "  (%.2f) %s\n", fr.Strength, fr.Rule)
		}
		if len(report.Rules) > 5 {
			fmt.Fprintf(w, "  %s\n", p.dim(fmt.Sprintf("... and %d more", len(report.Rules)-5)))
		}
		fmt.Fprintln(w)
	}

	// Suggestions
	if len(report.Suggestions) > 0 {
		fmt.Fprintln(w, "Suggested fixes:")
		for _, sa := range report.Suggestions {
			fmt.Fprintf(w, "  %s %s\n", p.colored("●", severityColor(sa.Severity)), sa.Title)
			if sa.Description != "" {
				for _, line := range wrapText(sa.Description, 70) {
					fmt.Fprintf(w, "    %s\n", p.dim(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
