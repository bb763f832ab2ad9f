// Package fuzzy implements a Mamdani fuzzy inference engine over
// piecewise-linear membership functions.
//
// An Engine is built once from antecedent variables, a consequent variable
// and a rule base, and is read-only afterwards. Evaluate fuzzifies crisp
// inputs, fires every rule with min-conjunction, clips each conclusion by its
// firing strength, aggregates with pointwise max over the sampled consequent
// domain and returns the centroid.
package fuzzy

import (
	"fmt"
	"math"
)

// Kind identifies the shape of a membership function.
type Kind string

const (
	KindTriangular  Kind = "triangular"
	KindTrapezoidal Kind = "trapezoidal"
)

// MembershipFunction is a triangular or trapezoidal membership function.
// A triangle [a, b, c] is stored as the trapezoid [a, b, b, c].
// The zero value is not usable; construct with Triangular or Trapezoidal.
type MembershipFunction struct {
	kind Kind
	pts  [4]float64
}

// Triangular returns a triangle rising from a to a peak at b and falling to c.
func Triangular(a, b, c float64) (MembershipFunction, error) {
	mf := MembershipFunction{kind: KindTriangular, pts: [4]float64{a, b, b, c}}
	if err := mf.validate(); err != nil {
		return MembershipFunction{}, err
	}
	return mf, nil
}

// Trapezoidal returns a trapezoid rising from a to b, flat until c, and
// falling to d. a == b or c == d gives a shoulder.
func Trapezoidal(a, b, c, d float64) (MembershipFunction, error) {
	mf := MembershipFunction{kind: KindTrapezoidal, pts: [4]float64{a, b, c, d}}
	if err := mf.validate(); err != nil {
		return MembershipFunction{}, err
	}
	return mf, nil
}

// NewMembershipFunction builds a function of the given kind from its control
// points: 3 for triangular, 4 for trapezoidal.
func NewMembershipFunction(kind Kind, points []float64) (MembershipFunction, error) {
	switch kind {
	case KindTriangular:
		if len(points) != 3 {
			return MembershipFunction{}, fmt.Errorf("%w: triangular needs 3 points, got %d", ErrInvalidShape, len(points))
		}
		return Triangular(points[0], points[1], points[2])
	case KindTrapezoidal:
		if len(points) != 4 {
			return MembershipFunction{}, fmt.Errorf("%w: trapezoidal needs 4 points, got %d", ErrInvalidShape, len(points))
		}
		return Trapezoidal(points[0], points[1], points[2], points[3])
	default:
		return MembershipFunction{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidShape, kind)
	}
}

func (m MembershipFunction) validate() error {
	for i, p := range m.pts {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: control point %d is not finite", ErrInvalidShape, i)
		}
		if i > 0 && p < m.pts[i-1] {
			return fmt.Errorf("%w: control points must be non-decreasing, got %v", ErrInvalidShape, m.Points())
		}
	}
	return nil
}

// Kind returns the shape of the function.
func (m MembershipFunction) Kind() Kind { return m.kind }

// Points returns a copy of the control points as they were supplied.
func (m MembershipFunction) Points() []float64 {
	if m.kind == KindTriangular {
		return []float64{m.pts[0], m.pts[1], m.pts[3]}
	}
	return []float64{m.pts[0], m.pts[1], m.pts[2], m.pts[3]}
}

// Min returns the first control point.
func (m MembershipFunction) Min() float64 { return m.pts[0] }

// Max returns the last control point.
func (m MembershipFunction) Max() float64 { return m.pts[3] }

// Degree returns the membership of x in [0, 1]. NaN has degree 0.
func (m MembershipFunction) Degree(x float64) float64 {
	a, b, c, d := m.pts[0], m.pts[1], m.pts[2], m.pts[3]
	switch {
	case math.IsNaN(x):
		return 0
	case x >= b && x <= c:
		return 1
	case x <= a || x >= d:
		return 0
	case x < b:
		return (x - a) / (b - a)
	default:
		return (d - x) / (d - c)
	}
}

func (m MembershipFunction) String() string {
	return fmt.Sprintf("%s%v", m.kind, m.Points())
}
