package model

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoopy0103/upbit-ml-paperbot/engine"
)

func TestScoreIsAProbability(t *testing.T) {
	t.Parallel()

	m := New([]string{"a", "b"}, 42)
	v := engine.FeatureVector{Names: []string{"a", "b"}, Values: []float64{0.5, -0.5}}

	p, err := m.Score(context.Background(), v)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestScoreRejectsColumnMismatch(t *testing.T) {
	t.Parallel()

	m := New([]string{"a", "b"}, 1)

	_, err := m.Score(context.Background(), engine.FeatureVector{
		Names:  []string{"b", "a"},
		Values: []float64{1, 2},
	})
	assert.Error(t, err, "misordered columns must not be scored")

	_, err = m.Score(context.Background(), engine.FeatureVector{
		Names:  []string{"a"},
		Values: []float64{1},
	})
	assert.Error(t, err)
}

func TestKnownWeightsScoreExactly(t *testing.T) {
	t.Parallel()

	m := &Logistic{Columns: []string{"x"}, Weights: []float64{0}, Bias: 0}
	p, err := m.Score(context.Background(), engine.FeatureVector{Names: []string{"x"}, Values: []float64{123}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12, "zero logit scores 0.5")

	m.Bias = 25 // beyond the clamp
	p, err = m.Score(context.Background(), engine.FeatureVector{Names: []string{"x"}, Values: []float64{0}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestFitSeparatesTrivialData(t *testing.T) {
	t.Parallel()

	m := New([]string{"f"}, 7)

	// Positive feature => label 1, negative => label 0.
	rows := [][]float64{{2}, {1.5}, {1.8}, {-2}, {-1.5}, {-1.8}}
	labels := []float64{1, 1, 1, 0, 0, 0}
	m.Fit(rows, labels, 0.5, 200)

	up, err := m.Score(context.Background(), engine.FeatureVector{Names: []string{"f"}, Values: []float64{2}})
	require.NoError(t, err)
	down, err := m.Score(context.Background(), engine.FeatureVector{Names: []string{"f"}, Values: []float64{-2}})
	require.NoError(t, err)

	assert.Greater(t, up, 0.8)
	assert.Less(t, down, 0.2)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.yaml")

	m := &Logistic{Columns: []string{"a", "b"}, Weights: []float64{0.3, -0.7}, Bias: 0.1, L2: 1e-3}
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestLoadRejectsInconsistentModel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := &Logistic{Columns: []string{"a", "b"}, Weights: []float64{0.3}}
	require.NoError(t, bad.Save(path))

	_, err := Load(path)
	assert.Error(t, err)
}
