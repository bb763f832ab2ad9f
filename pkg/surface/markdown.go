package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/projscore/projscore/pkg/scoring"
)

// MarkdownRenderer produces a Markdown summary suitable for pull request
// comments or job summaries.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *scoring.Report) error {
	_, err := io.WriteString(w, BuildSummary(report))
	return err
}

// BuildSummary returns the Markdown summary of a report.
func BuildSummary(report *scoring.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s Project success: %.2f", severityIcon(scoring.SeverityFromScore(report.Score)), report.Score)
	if report.Band != "" {
		fmt.Fprintf(&sb, " (%s)", report.Band)
	}
	sb.WriteString("\n\n")

	// Inputs
	sb.WriteString("### Inputs\n\n")
	sb.WriteString("| Input | Value | Terms |\n|-------|-------|-------|\n")
	for _, row := range inputRows(report) {
		fmt.Fprintf(&sb, "| %s | %.2f | %s |\n", row.name, row.value, formatTerms(report.Fuzzified[row.name]))
	}
	sb.WriteString("\n")

	if m := report.Metrics; m != nil {
		sb.WriteString("### Metrics\n\n")
		sb.WriteString("| Metric | Count |\n|--------|-------|\n")
		fmt.Fprintf(&sb, "| Files | %d |\n", m.Files)
		fmt.Fprintf(&sb, "| Lines | %d |\n", m.LOC)
		fmt.Fprintf(&sb, "| Classes | %d |\n", m.Classes)
		fmt.Fprintf(&sb, "| Methods | %d |\n", m.Methods)
		fmt.Fprintf(&sb, "| Extends | %d |\n", m.Extends)
		fmt.Fprintf(&sb, "| Overrides | %d |\n", m.Overrides)
		fmt.Fprintf(&sb, "| Complexity | %d |\n", m.Complexity)
		if m.ParseErrors > 0 {
			fmt.Fprintf(&sb, "| Parse errors | %d |\n", m.ParseErrors)
		}
		sb.WriteString("\n")
	}

	// Fired rules (max 5)
	sb.WriteString("### Fired rules\n\n")
	for i, fr := range report.Rules {
		if i >= 5 {
			fmt.Fprintf(&sb, "_... and %d more rules_\n", len(report.Rules)-5)
			break
		}
		fmt.Fprintf(&sb, "- `%.2f` %s\n", fr.Strength, fr.Rule)
	}
	sb.WriteString("\n")

	// Suggestions (max 3)
	if len(report.Suggestions) > 0 {
		sb.WriteString("### Suggestions\n\n")
		max := 3
		if len(report.Suggestions) < max {
			max = len(report.Suggestions)
		}
		for i := 0; i < max; i++ {
			sa := report.Suggestions[i]
			fmt.Fprintf(&sb, "- %s **%s**: %s\n", severityIcon(sa.Severity), sa.Title, sa.Description)
		}
	}

	return sb.String()
}

func severityIcon(sev scoring.Severity) string {
	switch sev {
	case scoring.SeverityHigh:
		return ":red_circle:"
	case scoring.SeverityMedium:
		return ":yellow_circle:"
	default:
		return ":green_circle:"
	}
}
