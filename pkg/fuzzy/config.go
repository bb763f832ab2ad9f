package fuzzy

import "fmt"

// SystemConfig describes a complete inference system as plain data so a rule
// base can be audited, stored or edited without touching the algorithm.
type SystemConfig struct {
	Antecedents []VariableConfig `yaml:"antecedents" json:"antecedents"`
	Consequent  VariableConfig   `yaml:"consequent" json:"consequent"`
	Rules       []RuleConfig     `yaml:"rules" json:"rules"`
}

// VariableConfig describes one linguistic variable.
type VariableConfig struct {
	Name   string       `yaml:"name" json:"name"`
	Domain Domain       `yaml:"domain" json:"domain"`
	Terms  []TermConfig `yaml:"terms" json:"terms"`
}

// TermConfig describes one term's membership function.
type TermConfig struct {
	Name   string    `yaml:"name" json:"name"`
	Shape  Kind      `yaml:"shape" json:"shape"`
	Points []float64 `yaml:"points,flow" json:"points"`
}

// RuleConfig describes one rule.
type RuleConfig struct {
	If   []Condition `yaml:"if" json:"if"`
	Then string      `yaml:"then" json:"then"`
}

// Build validates cfg and constructs an Engine from it.
func Build(cfg SystemConfig) (*Engine, error) {
	antecedents := make([]*Variable, 0, len(cfg.Antecedents))
	for _, vc := range cfg.Antecedents {
		v, err := vc.build()
		if err != nil {
			return nil, err
		}
		antecedents = append(antecedents, v)
	}

	consequent, err := cfg.Consequent.build()
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(cfg.Rules))
	for i, rc := range cfg.Rules {
		r, err := NewRule(rc.Then, rc.If...)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}

	return NewEngine(antecedents, consequent, rules)
}

func (vc VariableConfig) build() (*Variable, error) {
	terms := make([]Term, 0, len(vc.Terms))
	for _, tc := range vc.Terms {
		mf, err := NewMembershipFunction(tc.Shape, tc.Points)
		if err != nil {
			return nil, fmt.Errorf("variable %s term %s: %w", vc.Name, tc.Name, err)
		}
		terms = append(terms, Term{Name: tc.Name, MF: mf})
	}
	return NewVariable(vc.Name, vc.Domain, terms...)
}

// Describe converts an engine back into its configuration.
func Describe(e *Engine) SystemConfig {
	cfg := SystemConfig{Consequent: describeVariable(e.consequent)}
	for _, v := range e.Antecedents() {
		cfg.Antecedents = append(cfg.Antecedents, describeVariable(v))
	}
	for _, r := range e.rules {
		cfg.Rules = append(cfg.Rules, RuleConfig{If: r.Conditions(), Then: r.conclusion})
	}
	return cfg
}

func describeVariable(v *Variable) VariableConfig {
	vc := VariableConfig{Name: v.name, Domain: v.domain}
	for _, name := range v.order {
		mf := v.terms[name]
		vc.Terms = append(vc.Terms, TermConfig{Name: name, Shape: mf.Kind(), Points: mf.Points()})
	}
	return vc
}
