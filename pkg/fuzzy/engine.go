package fuzzy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Engine is a Mamdani inference system. It is immutable after NewEngine and
// safe for concurrent use.
type Engine struct {
	names       []string
	antecedents map[string]*Variable
	consequent  *Variable
	rules       []Rule

	// samples and curves are the consequent domain and each consequent term
	// sampled over it, computed once at construction.
	samples []float64
	curves  map[string][]float64
}

// Activation records how strongly one rule fired during an evaluation.
type Activation struct {
	Rule     Rule
	Strength float64
}

// Inference is the full trace of one evaluation.
type Inference struct {
	Inputs      map[string]float64
	Fuzzified   map[string]map[string]float64
	Activations []Activation // one per rule, in rule-base order
	Samples     []float64
	Aggregate   []float64 // aggregate degree at each sample
	Output      float64
}

// NewEngine validates the rule base against the variables and builds an
// engine.
func NewEngine(antecedents []*Variable, consequent *Variable, rules []Rule) (*Engine, error) {
	if len(antecedents) == 0 {
		return nil, fmt.Errorf("%w: no antecedents", ErrUnknownVariable)
	}
	if consequent == nil {
		return nil, fmt.Errorf("%w: no consequent", ErrUnknownVariable)
	}

	e := &Engine{
		antecedents: make(map[string]*Variable, len(antecedents)),
		consequent:  consequent,
		rules:       make([]Rule, len(rules)),
	}
	for _, v := range antecedents {
		if v == nil {
			return nil, fmt.Errorf("%w: nil antecedent", ErrUnknownVariable)
		}
		if _, ok := e.antecedents[v.Name()]; ok || v.Name() == consequent.Name() {
			return nil, fmt.Errorf("%w: variable %s", ErrDuplicateName, v.Name())
		}
		e.antecedents[v.Name()] = v
		e.names = append(e.names, v.Name())
	}
	copy(e.rules, rules)

	for i, r := range e.rules {
		if len(r.conditions) == 0 {
			return nil, fmt.Errorf("rule %d: %w", i+1, ErrEmptyRule)
		}
		for _, c := range r.conditions {
			v, ok := e.antecedents[c.Variable]
			if !ok {
				return nil, fmt.Errorf("rule %d: %w %q", i+1, ErrUnknownVariable, c.Variable)
			}
			if _, err := v.Term(c.Term); err != nil {
				return nil, fmt.Errorf("rule %d: %w", i+1, err)
			}
		}
		if _, err := consequent.Term(r.conclusion); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	e.samples = consequent.Domain().Samples()
	e.curves = make(map[string][]float64, len(consequent.order))
	for _, name := range consequent.order {
		mf := consequent.terms[name]
		curve := make([]float64, len(e.samples))
		for i, x := range e.samples {
			curve[i] = mf.Degree(x)
		}
		e.curves[name] = curve
	}

	return e, nil
}

// Antecedents returns the antecedent variables in declaration order.
func (e *Engine) Antecedents() []*Variable {
	out := make([]*Variable, len(e.names))
	for i, n := range e.names {
		out[i] = e.antecedents[n]
	}
	return out
}

// Antecedent returns the named antecedent variable.
func (e *Engine) Antecedent(name string) (*Variable, bool) {
	v, ok := e.antecedents[name]
	return v, ok
}

// Consequent returns the output variable.
func (e *Engine) Consequent() *Variable { return e.consequent }

// Rules returns a copy of the rule base.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns the crisp output for the given inputs. inputs must hold a
// value for every antecedent; extra keys are ignored.
func (e *Engine) Evaluate(inputs map[string]float64) (float64, error) {
	inf, err := e.Infer(inputs)
	if err != nil {
		return 0, err
	}
	return inf.Output, nil
}

// Infer evaluates the inputs and returns the full trace.
func (e *Engine) Infer(inputs map[string]float64) (*Inference, error) {
	inf := &Inference{
		Inputs:      make(map[string]float64, len(e.names)),
		Fuzzified:   make(map[string]map[string]float64, len(e.names)),
		Activations: make([]Activation, len(e.rules)),
		Samples:     append([]float64(nil), e.samples...),
		Aggregate:   make([]float64, len(e.samples)),
	}

	for _, name := range e.names {
		x, ok := inputs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		inf.Inputs[name] = x
		inf.Fuzzified[name] = e.antecedents[name].Fuzzify(x)
	}

	for i, r := range e.rules {
		strength, err := r.FiringStrength(inf.Fuzzified)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		inf.Activations[i] = Activation{Rule: r, Strength: strength}

		// Implication clips the conclusion at the firing strength;
		// aggregation keeps the pointwise max across rules.
		curve := e.curves[r.conclusion]
		for j, mu := range curve {
			inf.Aggregate[j] = math.Max(inf.Aggregate[j], math.Min(strength, mu))
		}
	}

	area := floats.Sum(inf.Aggregate)
	if area <= 0 {
		return nil, ErrNoRuleFired
	}
	inf.Output = floats.Dot(inf.Samples, inf.Aggregate) / area
	return inf, nil
}

// Fired returns the activations with a non-zero firing strength.
func (inf *Inference) Fired() []Activation {
	var out []Activation
	for _, a := range inf.Activations {
		if a.Strength > 0 {
			out = append(out, a)
		}
	}
	return out
}
