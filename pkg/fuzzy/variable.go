package fuzzy

import (
	"fmt"
	"math"
)

// Domain is the numeric range of a variable and the step used to sample it.
type Domain struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
}

// Validate checks that the domain is finite, non-empty and has a positive step.
func (d Domain) Validate() error {
	for _, v := range []float64{d.Min, d.Max, d.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v is not finite", ErrInvalidDomain, d)
		}
	}
	if d.Max <= d.Min {
		return fmt.Errorf("%w: max %g must exceed min %g", ErrInvalidDomain, d.Max, d.Min)
	}
	if d.Step <= 0 {
		return fmt.Errorf("%w: step %g must be positive", ErrInvalidDomain, d.Step)
	}
	return nil
}

// Contains reports whether x lies within [Min, Max].
func (d Domain) Contains(x float64) bool {
	return x >= d.Min && x <= d.Max
}

// Samples returns the points Min + i*Step for every i that stays within Max.
func (d Domain) Samples() []float64 {
	// The epsilon keeps Max itself when (Max-Min)/Step is integral but not
	// exactly representable.
	n := int(math.Floor((d.Max-d.Min)/d.Step+1e-9)) + 1
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = d.Min + float64(i)*d.Step
	}
	return xs
}

// Term names a membership function within a variable.
type Term struct {
	Name string
	MF   MembershipFunction
}

// Variable is a linguistic variable: a named domain with an ordered set of
// terms. It is immutable once constructed.
type Variable struct {
	name   string
	domain Domain
	order  []string
	terms  map[string]MembershipFunction
}

// NewVariable validates and builds a linguistic variable.
func NewVariable(name string, domain Domain, terms ...Term) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name is empty: %w", ErrInvalidDomain)
	}
	if err := domain.Validate(); err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("variable %s: %w: no terms", name, ErrInvalidShape)
	}

	v := &Variable{
		name:   name,
		domain: domain,
		terms:  make(map[string]MembershipFunction, len(terms)),
	}
	for _, t := range terms {
		if t.Name == "" {
			return nil, fmt.Errorf("variable %s: %w: empty term name", name, ErrInvalidShape)
		}
		if _, ok := v.terms[t.Name]; ok {
			return nil, fmt.Errorf("variable %s: %w: term %q", name, ErrDuplicateName, t.Name)
		}
		if t.MF.kind == "" {
			return nil, fmt.Errorf("variable %s term %s: %w: not constructed", name, t.Name, ErrInvalidShape)
		}
		if !domain.Contains(t.MF.Min()) || !domain.Contains(t.MF.Max()) {
			return nil, fmt.Errorf("variable %s term %s: %w: %s outside [%g, %g]",
				name, t.Name, ErrInvalidShape, t.MF, domain.Min, domain.Max)
		}
		v.terms[t.Name] = t.MF
		v.order = append(v.order, t.Name)
	}
	return v, nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Domain returns the variable's domain.
func (v *Variable) Domain() Domain { return v.domain }

// Terms returns the term names in declaration order.
func (v *Variable) Terms() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Term looks up a term's membership function.
func (v *Variable) Term(name string) (MembershipFunction, error) {
	mf, ok := v.terms[name]
	if !ok {
		return MembershipFunction{}, fmt.Errorf("variable %s: %w %q", v.name, ErrUnknownTerm, name)
	}
	return mf, nil
}

// Fuzzify evaluates every term at x.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	out := make(map[string]float64, len(v.terms))
	for name, mf := range v.terms {
		out[name] = mf.Degree(x)
	}
	return out
}

// Strongest returns the term with the highest degree at x. Ties go to the
// term declared first. It returns "" when every degree is zero.
func (v *Variable) Strongest(x float64) (string, float64) {
	best, bestDeg := "", 0.0
	for _, name := range v.order {
		if d := v.terms[name].Degree(x); d > bestDeg {
			best, bestDeg = name, d
		}
	}
	return best, bestDeg
}
