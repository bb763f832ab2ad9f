package metrics

import "math"

// Inputs are the three crisp values fed to the inference engine, each
// clamped to [0, 100].
type Inputs struct {
	CleanCode     float64 `json:"clean_code"`
	Functionality float64 `json:"functionality"`
	Inheritance   float64 `json:"inheritance"`
}

// Mapping holds the coefficients that turn raw metrics into Inputs.
type Mapping struct {
	// Clean code starts at 100 and loses points for complexity and size.
	ComplexityPenalty    float64 `yaml:"complexity_penalty" json:"complexity_penalty"`
	ComplexityPenaltyCap float64 `yaml:"complexity_penalty_cap" json:"complexity_penalty_cap"`
	MethodPenalty        float64 `yaml:"method_penalty" json:"method_penalty"`
	MethodPenaltyCap     float64 `yaml:"method_penalty_cap" json:"method_penalty_cap"`

	// Functionality grows with methods and classes.
	MethodWeight float64 `yaml:"method_weight" json:"method_weight"`
	ClassWeight  float64 `yaml:"class_weight" json:"class_weight"`

	// Inheritance grows with subclassing and overriding.
	ExtendsWeight  float64 `yaml:"extends_weight" json:"extends_weight"`
	OverrideWeight float64 `yaml:"override_weight" json:"override_weight"`
}

// DefaultMapping returns the standard coefficients.
func DefaultMapping() Mapping {
	return Mapping{
		ComplexityPenalty:    1.2,
		ComplexityPenaltyCap: 50,
		MethodPenalty:        0.3,
		MethodPenaltyCap:     20,

		MethodWeight: 2,
		ClassWeight:  3,

		ExtendsWeight:  25,
		OverrideWeight: 5,
	}
}

// Inputs maps raw metrics to engine inputs.
func (mp Mapping) Inputs(m *Metrics) Inputs {
	clean := 100.0
	clean -= math.Min(mp.ComplexityPenaltyCap, float64(m.Complexity)*mp.ComplexityPenalty)
	clean -= math.Min(mp.MethodPenaltyCap, float64(m.Methods)*mp.MethodPenalty)

	functionality := float64(m.Methods)*mp.MethodWeight + float64(m.Classes)*mp.ClassWeight
	inheritance := float64(m.Extends)*mp.ExtendsWeight + float64(m.Overrides)*mp.OverrideWeight

	return Inputs{
		CleanCode:     clamp(clean),
		Functionality: clamp(functionality),
		Inheritance:   clamp(inheritance),
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
