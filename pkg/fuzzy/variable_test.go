package fuzzy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMF(t *testing.T, kind Kind, points ...float64) MembershipFunction {
	t.Helper()
	mf, err := NewMembershipFunction(kind, points)
	require.NoError(t, err)
	return mf
}

func percentDomain() Domain { return Domain{Min: 0, Max: 100, Step: 1} }

func TestDomainSamples(t *testing.T) {
	xs := percentDomain().Samples()
	require.Len(t, xs, 101)
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 37.0, xs[37])
	assert.Equal(t, 100.0, xs[100])

	xs = Domain{Min: 0, Max: 1, Step: 0.1}.Samples()
	assert.Len(t, xs, 11, "max should be kept despite floating point step")

	xs = Domain{Min: 0, Max: 10, Step: 3}.Samples()
	assert.Equal(t, []float64{0, 3, 6, 9}, xs)
}

func TestDomainValidate(t *testing.T) {
	tests := []struct {
		name    string
		domain  Domain
		wantErr bool
	}{
		{name: "percent", domain: percentDomain()},
		{name: "empty range", domain: Domain{Min: 5, Max: 5, Step: 1}, wantErr: true},
		{name: "inverted", domain: Domain{Min: 10, Max: 0, Step: 1}, wantErr: true},
		{name: "zero step", domain: Domain{Min: 0, Max: 1, Step: 0}, wantErr: true},
		{name: "infinite max", domain: Domain{Min: 0, Max: math.Inf(1), Step: 1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.domain.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDomain)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewVariable(t *testing.T) {
	low := Term{Name: "low", MF: mustMF(t, KindTrapezoidal, 0, 0, 20, 45)}
	high := Term{Name: "high", MF: mustMF(t, KindTrapezoidal, 55, 80, 100, 100)}

	t.Run("valid", func(t *testing.T) {
		v, err := NewVariable("clean_code", percentDomain(), low, high)
		require.NoError(t, err)
		assert.Equal(t, "clean_code", v.Name())
		assert.Equal(t, []string{"low", "high"}, v.Terms())
	})

	t.Run("no terms", func(t *testing.T) {
		_, err := NewVariable("x", percentDomain())
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("duplicate term", func(t *testing.T) {
		_, err := NewVariable("x", percentDomain(), low, low)
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("shape outside domain", func(t *testing.T) {
		wide := Term{Name: "wide", MF: mustMF(t, KindTriangular, -10, 0, 10)}
		_, err := NewVariable("x", percentDomain(), wide)
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("zero value function", func(t *testing.T) {
		_, err := NewVariable("x", percentDomain(), Term{Name: "zero"})
		assert.ErrorIs(t, err, ErrInvalidShape)
	})
}

func TestVariableTermAndFuzzify(t *testing.T) {
	v, err := NewVariable("functionality", percentDomain(),
		Term{Name: "very_low", MF: mustMF(t, KindTrapezoidal, 0, 0, 10, 25)},
		Term{Name: "low", MF: mustMF(t, KindTriangular, 15, 35, 55)},
	)
	require.NoError(t, err)

	_, err = v.Term("low")
	assert.NoError(t, err)
	_, err = v.Term("medium")
	assert.ErrorIs(t, err, ErrUnknownTerm)

	got := v.Fuzzify(20)
	assert.InDelta(t, 1.0/3.0, got["very_low"], 1e-12)
	assert.InDelta(t, 0.25, got["low"], 1e-12)

	for term, d := range v.Fuzzify(math.NaN()) {
		assert.Zero(t, d, "term %s", term)
	}
}

func TestVariableStrongest(t *testing.T) {
	v, err := NewVariable("x", percentDomain(),
		Term{Name: "a", MF: mustMF(t, KindTriangular, 0, 25, 50)},
		Term{Name: "b", MF: mustMF(t, KindTriangular, 25, 50, 75)},
	)
	require.NoError(t, err)

	name, deg := v.Strongest(30)
	assert.Equal(t, "a", name)
	assert.InDelta(t, 0.8, deg, 1e-12)

	name, _ = v.Strongest(37.5)
	assert.Equal(t, "a", name, "ties go to the first declared term")

	name, deg = v.Strongest(90)
	assert.Equal(t, "", name)
	assert.Zero(t, deg)
}
