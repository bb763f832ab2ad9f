// Package scoring turns project metrics into an explainable project-success
// report backed by the rules that fired.
package scoring

import (
	"time"

	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/metrics"
)

// Report is the complete output of scoring one project. Immutable once computed.
type Report struct {
	ID        string    `json:"id,omitempty"`
	Project   string    `json:"project,omitempty"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Score       float64                       `json:"score"`
	Band        string                        `json:"band"` // consequent term strongest at Score
	Inputs      metrics.Inputs                `json:"inputs"`
	Fuzzified   map[string]map[string]float64 `json:"fuzzified"`
	Rules       []FiredRule                   `json:"rules"`
	Metrics     *metrics.Metrics              `json:"metrics,omitempty"`
	Suggestions []SuggestedAction             `json:"suggestions,omitempty"`
}

// FiredRule is a rule that contributed to the aggregate, with its strength.
type FiredRule struct {
	Rule       string            `json:"rule"`
	Conditions []fuzzy.Condition `json:"conditions"`
	Conclusion string            `json:"conclusion"`
	Strength   float64           `json:"strength"`
}

// Severity indicates how concerning a finding is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// SuggestedAction is a human- and machine-readable recommendation.
type SuggestedAction struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Confidence  float64  `json:"confidence"` // 0.0-1.0
	Addresses   []string `json:"addresses"`  // input variables this addresses
}

// SeverityFromScore maps a crisp project-success score to a severity.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 70:
		return SeverityLow
	case score >= 40:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID        string    `json:"id"`
	Project   string    `json:"project,omitempty"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Score     float64   `json:"score"`
	Band      string    `json:"band"`
}

// Summary returns the listing view of r.
func (r *Report) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Project:   r.Project,
		Path:      r.Path,
		CreatedAt: r.CreatedAt,
		Score:     r.Score,
		Band:      r.Band,
	}
}
