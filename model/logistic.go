// Package model holds the tiny in-process logistic model that turns a
// feature vector into an entry probability. It is deliberately small: a
// regularized logistic head is enough for directional bias, and keeping
// it in-process means backtest and live score the exact same way.
package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snoopy0103/upbit-ml-paperbot/engine"
)

// Logistic is a logistic-regression scorer over named feature columns.
// The column order is fixed at construction and every Score call is
// validated against it.
type Logistic struct {
	Columns []string  `yaml:"columns"`
	Weights []float64 `yaml:"weights"`
	Bias    float64   `yaml:"bias"`
	L2      float64   `yaml:"l2,omitempty"`
}

// New returns a model with small random weights for the given columns.
// The seed makes initialization reproducible.
func New(columns []string, seed int64) *Logistic {
	rng := rand.New(rand.NewSource(seed))
	w := make([]float64, len(columns))
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &Logistic{
		Columns: append([]string(nil), columns...),
		Weights: w,
		L2:      1e-3,
	}
}

// FeatureNames returns the column order the model was trained on.
func (m *Logistic) FeatureNames() []string { return m.Columns }

// Score implements engine.Scorer. It fails loud on any column mismatch
// rather than guessing at an alignment.
func (m *Logistic) Score(_ context.Context, v engine.FeatureVector) (float64, error) {
	if err := engine.ValidateColumns(v, m.Columns); err != nil {
		return 0, err
	}
	if len(m.Weights) != len(m.Columns) {
		return 0, fmt.Errorf("model has %d weights for %d columns", len(m.Weights), len(m.Columns))
	}
	z := m.Bias
	for i, x := range v.Values {
		z += m.Weights[i] * x
	}
	return sigmoid(z), nil
}

// Fit runs plain gradient descent on cross-entropy loss with L2 decay.
// Labels are 0/1. Rows whose length does not match the column count are
// skipped.
func (m *Logistic) Fit(rows [][]float64, labels []float64, lr float64, epochs int) {
	if len(rows) == 0 || len(rows) != len(labels) || lr <= 0 {
		return
	}
	for e := 0; e < epochs; e++ {
		for i, row := range rows {
			if len(row) != len(m.Weights) {
				continue
			}
			p := sigmoid(m.dot(row))
			grad := p - labels[i]
			for j := range m.Weights {
				m.Weights[j] -= lr * (grad*row[j] + m.L2*m.Weights[j])
			}
			m.Bias -= lr * grad
		}
	}
}

func (m *Logistic) dot(row []float64) float64 {
	z := m.Bias
	for i, x := range row {
		z += m.Weights[i] * x
	}
	return z
}

// Save writes the model as YAML.
func (m *Logistic) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a model saved by Save and checks it is internally
// consistent.
func Load(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Logistic
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("model %s has no columns", path)
	}
	if len(m.Weights) != len(m.Columns) {
		return nil, fmt.Errorf("model %s has %d weights for %d columns", path, len(m.Weights), len(m.Columns))
	}
	return &m, nil
}

// sigmoid clamps the logit for numerical stability.
func sigmoid(z float64) float64 {
	if z > 20 {
		return 1
	}
	if z < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
