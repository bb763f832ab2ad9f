package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/rulebase"
)

// SuggestionThreshold is the input value below which a suggestion is made
// for that input.
const SuggestionThreshold = 40.0

// Scorer runs metrics through the input mapping and the inference engine and
// produces a Report. Safe for concurrent use.
type Scorer struct {
	engine  *fuzzy.Engine
	mapping metrics.Mapping
	now     func() time.Time
}

// NewScorer creates a scorer over an engine whose antecedents are the
// clean_code, functionality and inheritance variables, as rulebase.CheckInputs
// verifies.
func NewScorer(engine *fuzzy.Engine, mapping metrics.Mapping) *Scorer {
	return &Scorer{engine: engine, mapping: mapping, now: time.Now}
}

// Engine returns the underlying inference engine.
func (s *Scorer) Engine() *fuzzy.Engine { return s.engine }

// Mapping returns the metric-to-input coefficients.
func (s *Scorer) Mapping() metrics.Mapping { return s.mapping }

// ScoreMetrics maps m to engine inputs and scores them.
func (s *Scorer) ScoreMetrics(m *metrics.Metrics) (*Report, error) {
	if m == nil {
		return nil, fmt.Errorf("metrics are nil")
	}
	report, err := s.ScoreInputs(s.mapping.Inputs(m))
	if err != nil {
		return nil, err
	}
	cp := *m
	report.Metrics = &cp
	report.Suggestions = generateSuggestions(report.Inputs, report.Metrics)
	return report, nil
}

// ScoreInputs scores crisp inputs directly.
func (s *Scorer) ScoreInputs(in metrics.Inputs) (*Report, error) {
	inf, err := s.engine.Infer(map[string]float64{
		rulebase.CleanCode:     in.CleanCode,
		rulebase.Functionality: in.Functionality,
		rulebase.Inheritance:   in.Inheritance,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring inputs: %w", err)
	}

	band, _ := s.engine.Consequent().Strongest(inf.Output)
	return &Report{
		CreatedAt:   s.now().UTC(),
		Score:       inf.Output,
		Band:        band,
		Inputs:      in,
		Fuzzified:   inf.Fuzzified,
		Rules:       firedRules(inf),
		Suggestions: generateSuggestions(in, nil),
	}, nil
}

// firedRules lists the rules with non-zero strength, strongest first. Equal
// strengths keep rule-base order.
func firedRules(inf *fuzzy.Inference) []FiredRule {
	var rules []FiredRule
	for _, a := range inf.Fired() {
		rules = append(rules, FiredRule{
			Rule:       a.Rule.String(),
			Conditions: a.Rule.Conditions(),
			Conclusion: a.Rule.Conclusion(),
			Strength:   a.Strength,
		})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Strength > rules[j].Strength
	})
	return rules
}

// generateSuggestions produces recommendations for every input below
// SuggestionThreshold, weakest input first.
func generateSuggestions(in metrics.Inputs, m *metrics.Metrics) []SuggestedAction {
	var actions []SuggestedAction

	add := func(key string, value float64, title, description string) {
		if value >= SuggestionThreshold {
			return
		}
		actions = append(actions, SuggestedAction{
			Title:       title,
			Description: description,
			Severity:    SeverityFromScore(value),
			Confidence:  (SuggestionThreshold - value) / SuggestionThreshold,
			Addresses:   []string{key},
		})
	}

	cleanDesc := fmt.Sprintf("Clean code input is %.1f. Split long methods and flatten nested branches.", in.CleanCode)
	funcDesc := fmt.Sprintf("Functionality input is %.1f. The project exposes few classes and methods.", in.Functionality)
	inhDesc := fmt.Sprintf("Inheritance input is %.1f. Shared behaviour is rarely factored into base classes.", in.Inheritance)
	if m != nil {
		cleanDesc = fmt.Sprintf("Estimated complexity is %d across %d methods. Split long methods and flatten nested branches.",
			m.Complexity, m.Methods)
		funcDesc = fmt.Sprintf("The project declares %d classes and %d methods.", m.Classes, m.Methods)
		inhDesc = fmt.Sprintf("%d classes extend a superclass and %d methods override one.", m.Extends, m.Overrides)
	}

	add(rulebase.CleanCode, in.CleanCode, "Reduce complexity", cleanDesc)
	add(rulebase.Functionality, in.Functionality, "Grow functionality", funcDesc)
	add(rulebase.Inheritance, in.Inheritance, "Factor shared behaviour into base classes", inhDesc)

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Confidence > actions[j].Confidence
	})
	return actions
}
