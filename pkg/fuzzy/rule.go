package fuzzy

import (
	"fmt"
	"math"
	"strings"
)

// Condition is one conjunct of a rule: "Variable is Term".
type Condition struct {
	Variable string `yaml:"variable" json:"variable"`
	Term     string `yaml:"term" json:"term"`
}

// Rule is a conjunction of conditions over the antecedents that concludes a
// single term of the consequent.
type Rule struct {
	conditions []Condition
	conclusion string
}

// NewRule builds a rule. Term and variable names are checked when the rule is
// handed to NewEngine.
func NewRule(conclusion string, conditions ...Condition) (Rule, error) {
	if len(conditions) == 0 {
		return Rule{}, ErrEmptyRule
	}
	if conclusion == "" {
		return Rule{}, fmt.Errorf("%w: empty conclusion", ErrUnknownTerm)
	}
	cs := make([]Condition, len(conditions))
	copy(cs, conditions)
	return Rule{conditions: cs, conclusion: conclusion}, nil
}

// Conditions returns a copy of the rule's conditions in order.
func (r Rule) Conditions() []Condition {
	out := make([]Condition, len(r.conditions))
	copy(out, r.conditions)
	return out
}

// Conclusion returns the consequent term the rule concludes.
func (r Rule) Conclusion() string { return r.conclusion }

// FiringStrength combines the degrees of the rule's conditions with min.
// fuzzified maps variable name to term name to degree.
func (r Rule) FiringStrength(fuzzified map[string]map[string]float64) (float64, error) {
	strength := 1.0
	for _, c := range r.conditions {
		degrees, ok := fuzzified[c.Variable]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingVariable, c.Variable)
		}
		d, ok := degrees[c.Term]
		if !ok {
			return 0, fmt.Errorf("variable %s: %w %q", c.Variable, ErrUnknownTerm, c.Term)
		}
		strength = math.Min(strength, d)
	}
	return strength, nil
}

func (r Rule) String() string {
	parts := make([]string, len(r.conditions))
	for i, c := range r.conditions {
		parts[i] = c.Variable + " is " + c.Term
	}
	return "IF " + strings.Join(parts, " AND ") + " THEN " + r.conclusion
}
