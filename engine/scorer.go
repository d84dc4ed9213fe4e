package engine

import (
	"context"
	"fmt"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// FeatureVector is an ordered sequence of named numeric features. Names
// and Values are parallel slices.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Get looks up a feature by name.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Scorer is the predictive model capability: a probability in [0,1] for a
// feature vector. FeatureNames declares the exact column order the model
// expects; Score must fail on a vector whose columns do not match it.
type Scorer interface {
	FeatureNames() []string
	Score(ctx context.Context, features FeatureVector) (float64, error)
}

// FeatureSource computes the feature vector for the trailing candle
// history. ok is false when the history is too short or no valid row
// could be produced.
type FeatureSource interface {
	Compute(history []market.Candle) (features FeatureVector, ok bool)
}

// AlignFeatures reorders v to the model's expected columns, filling any
// column absent from v with 0.0. Extra computed features the model does
// not know about are dropped.
func AlignFeatures(v FeatureVector, columns []string) FeatureVector {
	out := FeatureVector{
		Names:  make([]string, len(columns)),
		Values: make([]float64, len(columns)),
	}
	for i, name := range columns {
		out.Names[i] = name
		if val, ok := v.Get(name); ok {
			out.Values[i] = val
		}
	}
	return out
}

// ValidateColumns checks that a vector carries exactly the expected
// columns in order. Scorers call this so a misaligned vector fails loudly
// instead of silently scoring garbage.
func ValidateColumns(v FeatureVector, columns []string) error {
	if len(v.Names) != len(columns) || len(v.Values) != len(v.Names) {
		return fmt.Errorf("feature vector has %d columns, model expects %d", len(v.Names), len(columns))
	}
	for i, name := range columns {
		if v.Names[i] != name {
			return fmt.Errorf("feature column %d is %q, model expects %q", i, v.Names[i], name)
		}
	}
	return nil
}
