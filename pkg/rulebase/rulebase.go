// Package rulebase holds the reference project-success inference system as a
// static table and reads or writes rule bases as YAML.
package rulebase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/projscore/projscore/pkg/fuzzy"
)

// Variable names of the reference system.
const (
	CleanCode      = "clean_code"
	Functionality  = "functionality"
	Inheritance    = "inheritance"
	ProjectSuccess = "project_success"
)

// ErrInputMismatch is returned for a rule base whose antecedents are not
// exactly clean_code, functionality and inheritance.
var ErrInputMismatch = errors.New("rule base antecedents must be clean_code, functionality and inheritance")

// Percent is the 0–100 domain shared by every reference variable, sampled at
// unit steps.
var Percent = fuzzy.Domain{Min: 0, Max: 100, Step: 1}

func tri(name string, a, b, c float64) fuzzy.TermConfig {
	return fuzzy.TermConfig{Name: name, Shape: fuzzy.KindTriangular, Points: []float64{a, b, c}}
}

func trap(name string, a, b, c, d float64) fuzzy.TermConfig {
	return fuzzy.TermConfig{Name: name, Shape: fuzzy.KindTrapezoidal, Points: []float64{a, b, c, d}}
}

// table lists the reference rules as clean_code, functionality, inheritance
// and the concluded project_success term.
var table = [][4]string{
	// high clean code
	{"high", "high", "high", "very_good"},
	{"high", "high", "medium", "very_good"},
	{"high", "high", "low", "good"},
	{"high", "medium", "high", "good"},
	{"high", "medium", "medium", "good"},
	{"high", "medium", "low", "average"},
	{"high", "low", "high", "average"},
	{"high", "low", "medium", "average"},
	{"high", "low", "low", "poor"},
	{"high", "very_low", "high", "poor"},
	{"high", "very_low", "medium", "poor"},
	{"high", "very_low", "low", "very_poor"},

	// medium clean code
	{"medium", "high", "high", "very_good"},
	{"medium", "high", "medium", "good"},
	{"medium", "high", "low", "good"},
	{"medium", "medium", "high", "good"},
	{"medium", "medium", "medium", "average"},
	{"medium", "medium", "low", "average"},
	{"medium", "low", "high", "average"},
	{"medium", "low", "medium", "poor"},
	{"medium", "low", "low", "poor"},
	{"medium", "very_low", "high", "poor"},
	{"medium", "very_low", "medium", "very_poor"},
	{"medium", "very_low", "low", "very_poor"},

	// low clean code
	{"low", "high", "high", "good"},
	{"low", "high", "medium", "average"},
	{"low", "high", "low", "average"},
	{"low", "medium", "high", "average"},
	{"low", "medium", "medium", "poor"},
	{"low", "medium", "low", "poor"},
	{"low", "low", "high", "poor"},
	{"low", "low", "medium", "poor"},
	{"low", "low", "low", "very_poor"},
	{"low", "very_low", "high", "very_poor"},
	{"low", "very_low", "medium", "very_poor"},
	{"low", "very_low", "low", "very_poor"},
}

// Default returns the reference system: three antecedents, the
// project_success consequent and one rule per antecedent combination.
func Default() fuzzy.SystemConfig {
	cfg := fuzzy.SystemConfig{
		Antecedents: []fuzzy.VariableConfig{
			{
				Name:   CleanCode,
				Domain: Percent,
				Terms: []fuzzy.TermConfig{
					trap("low", 0, 0, 20, 45),
					tri("medium", 30, 50, 70),
					trap("high", 55, 80, 100, 100),
				},
			},
			{
				Name:   Functionality,
				Domain: Percent,
				Terms: []fuzzy.TermConfig{
					trap("very_low", 0, 0, 10, 25),
					tri("low", 15, 35, 55),
					tri("medium", 45, 60, 75),
					trap("high", 65, 80, 100, 100),
				},
			},
			{
				Name:   Inheritance,
				Domain: Percent,
				Terms: []fuzzy.TermConfig{
					trap("low", 0, 0, 20, 45),
					tri("medium", 35, 55, 75),
					trap("high", 65, 80, 100, 100),
				},
			},
		},
		Consequent: fuzzy.VariableConfig{
			Name:   ProjectSuccess,
			Domain: Percent,
			Terms: []fuzzy.TermConfig{
				trap("very_poor", 0, 0, 10, 20),
				tri("poor", 15, 30, 45),
				tri("average", 40, 55, 70),
				tri("good", 60, 75, 90),
				trap("very_good", 85, 92, 100, 100),
			},
		},
	}

	for _, row := range table {
		cfg.Rules = append(cfg.Rules, fuzzy.RuleConfig{
			If: []fuzzy.Condition{
				{Variable: CleanCode, Term: row[0]},
				{Variable: Functionality, Term: row[1]},
				{Variable: Inheritance, Term: row[2]},
			},
			Then: row[3],
		})
	}
	return cfg
}

// DefaultEngine builds the reference system.
func DefaultEngine() (*fuzzy.Engine, error) {
	return fuzzy.Build(Default())
}

// Load reads a rule base from a YAML file.
func Load(path string) (fuzzy.SystemConfig, error) {
	var cfg fuzzy.SystemConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading rule base: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing rule base: %w", err)
	}
	return cfg, nil
}

// LoadEngine returns the reference engine when path is empty and otherwise
// builds the engine described by the YAML file at path.
func LoadEngine(path string) (*fuzzy.Engine, error) {
	if path == "" {
		return DefaultEngine()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	e, err := fuzzy.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building rule base %s: %w", path, err)
	}
	if err := CheckInputs(e); err != nil {
		return nil, fmt.Errorf("rule base %s: %w", path, err)
	}
	return e, nil
}

// CheckInputs verifies that e takes exactly the three project inputs.
func CheckInputs(e *fuzzy.Engine) error {
	want := map[string]bool{CleanCode: true, Functionality: true, Inheritance: true}
	var got []string
	for _, v := range e.Antecedents() {
		got = append(got, v.Name())
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w, got %v", ErrInputMismatch, got)
	}
	for _, name := range got {
		if !want[name] {
			return fmt.Errorf("%w, got %v", ErrInputMismatch, got)
		}
	}
	return nil
}

// Marshal encodes a rule base as YAML.
func Marshal(cfg fuzzy.SystemConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling rule base: %w", err)
	}
	return data, nil
}

// Save writes a rule base to disk as YAML.
func Save(path string, cfg fuzzy.SystemConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for rule base: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rule base: %w", err)
	}
	return nil
}
