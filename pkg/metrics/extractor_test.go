package metrics

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"empty", "", 1},
		{"single if", "if (a) { b(); }", 2},
		{"loops", "for (;;) {} while (x) {}", 3},
		{"boolean operators", "a && b || c", 3},
		{"switch", "switch (x) { case 1: case 2: }", 3},
		{"try", "try {} catch (E e) {}", 2},
		{"substring matches count", "notify(); elif", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EstimateComplexity(tc.code))
		})
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(nil))
	assert.Equal(t, 1, CountLines([]byte("a")))
	assert.Equal(t, 1, CountLines([]byte("a\n")))
	assert.Equal(t, 2, CountLines([]byte("a\nb")))
	assert.Equal(t, 3, CountLines([]byte("a\n\nb\n")))
}

func TestExtractSource(t *testing.T) {
	ext, err := NewExtractor()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("dog", func(t *testing.T) {
		fm, err := ext.ExtractFile(ctx, filepath.Join("testdata", "zoo", "src", "zoo", "Dog.java"))
		require.NoError(t, err)
		assert.True(t, fm.Parsed)
		assert.Equal(t, 23, fm.LOC)
		assert.Equal(t, 2, fm.Complexity)
		assert.Equal(t, 1, fm.Classes)
		assert.Equal(t, 1, fm.Extends)
		assert.Equal(t, 3, fm.Methods, "constructors are not methods")
		assert.Equal(t, 2, fm.Overrides)
	})

	t.Run("nested class", func(t *testing.T) {
		fm, err := ext.ExtractFile(ctx, filepath.Join("testdata", "zoo", "src", "zoo", "Keeper.java"))
		require.NoError(t, err)
		assert.True(t, fm.Parsed)
		assert.Equal(t, 2, fm.Classes)
		assert.Equal(t, 2, fm.Methods)
		assert.Equal(t, 0, fm.Overrides, "other annotations are ignored")
		assert.Equal(t, 5, fm.Complexity)
	})

	t.Run("syntax error", func(t *testing.T) {
		fm, err := ext.ExtractFile(ctx, filepath.Join("testdata", "zoo", "src", "zoo", "Broken.java"))
		require.NoError(t, err)
		assert.False(t, fm.Parsed)
		assert.Equal(t, 6, fm.LOC)
		assert.Equal(t, 2, fm.Complexity)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ext.ExtractFile(ctx, filepath.Join("testdata", "nope.java"))
		assert.Error(t, err)
	})
}

func TestExtractDir(t *testing.T) {
	ext, err := NewExtractor()
	require.NoError(t, err)

	var seen []string
	m, err := ext.ExtractDir(context.Background(), filepath.Join("testdata", "zoo"), func(fm FileMetrics) {
		seen = append(seen, filepath.Base(fm.Path))
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Animal.java", "Broken.java", "Dog.java", "Keeper.java"}, seen)
	assert.Equal(t, Metrics{
		Files:       4,
		LOC:         83,
		Classes:     4,
		Methods:     7,
		Extends:     1,
		Overrides:   2,
		Complexity:  11,
		ParseErrors: 1,
	}, *m)
}

func TestExtractDirErrors(t *testing.T) {
	ext, err := NewExtractor()
	require.NoError(t, err)

	_, err = ext.ExtractDir(context.Background(), filepath.Join("testdata", "missing"), nil)
	assert.Error(t, err)

	_, err = ext.ExtractDir(context.Background(), filepath.Join("testdata", "zoo", "notes.txt"), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ext.ExtractDir(ctx, filepath.Join("testdata", "zoo"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMappingInputs(t *testing.T) {
	mp := DefaultMapping()

	tests := []struct {
		name string
		m    Metrics
		want Inputs
	}{
		{
			name: "zoo fixture",
			m:    Metrics{Classes: 4, Methods: 7, Extends: 1, Overrides: 2, Complexity: 11},
			want: Inputs{CleanCode: 84.7, Functionality: 26, Inheritance: 35},
		},
		{
			name: "empty project",
			m:    Metrics{},
			want: Inputs{CleanCode: 100, Functionality: 0, Inheritance: 0},
		},
		{
			name: "penalties and weights saturate",
			m:    Metrics{Classes: 40, Methods: 200, Extends: 10, Overrides: 50, Complexity: 900},
			want: Inputs{CleanCode: 30, Functionality: 100, Inheritance: 100},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mp.Inputs(&tc.m)
			assert.InDelta(t, tc.want.CleanCode, got.CleanCode, 1e-9)
			assert.InDelta(t, tc.want.Functionality, got.Functionality, 1e-9)
			assert.InDelta(t, tc.want.Inheritance, got.Inheritance, 1e-9)
		})
	}
}

func TestMappingClampsCleanCodeAtZero(t *testing.T) {
	mp := DefaultMapping()
	mp.ComplexityPenaltyCap = 90
	mp.MethodPenaltyCap = 90

	got := mp.Inputs(&Metrics{Methods: 1000, Complexity: 1000})
	assert.Equal(t, 0.0, got.CleanCode)
}

func TestExtractDirIgnoresOnlyRootLevelNames(t *testing.T) {
	root := filepath.Join("testdata", "layout")

	ext, err := NewExtractor("build")
	require.NoError(t, err)

	var seen []string
	m, err := ext.ExtractDir(context.Background(), root, func(fm FileMetrics) {
		seen = append(seen, filepath.Base(fm.Path))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tool.java"}, seen, "package directories named build are scanned")
	assert.Equal(t, 1, m.Classes)
	assert.Equal(t, 1, m.Methods)

	ext, err = NewExtractor("build", "src/*/*/build")
	require.NoError(t, err)
	m, err = ext.ExtractDir(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Files, "patterns match nested paths")
}
