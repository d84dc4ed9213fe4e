package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignFeaturesZeroFillAndReorder(t *testing.T) {
	t.Parallel()

	computed := FeatureVector{
		Names:  []string{"ret_1", "vol_ratio20", "extra_feature"},
		Values: []float64{0.01, 1.5, 42},
	}

	aligned := AlignFeatures(computed, []string{"vol_ratio20", "ret_1", "ma_alignment"})

	require.Equal(t, []string{"vol_ratio20", "ret_1", "ma_alignment"}, aligned.Names)
	assert.Equal(t, []float64{1.5, 0.01, 0}, aligned.Values, "missing columns zero-filled, extras dropped")
}

func TestValidateColumns(t *testing.T) {
	t.Parallel()

	cols := []string{"a", "b"}

	ok := FeatureVector{Names: []string{"a", "b"}, Values: []float64{1, 2}}
	require.NoError(t, ValidateColumns(ok, cols))

	short := FeatureVector{Names: []string{"a"}, Values: []float64{1}}
	assert.Error(t, ValidateColumns(short, cols))

	misordered := FeatureVector{Names: []string{"b", "a"}, Values: []float64{1, 2}}
	assert.Error(t, ValidateColumns(misordered, cols))
}

func TestFeatureVectorGet(t *testing.T) {
	t.Parallel()

	v := FeatureVector{Names: []string{"x"}, Values: []float64{3}}

	got, ok := v.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)

	_, ok = v.Get("y")
	assert.False(t, ok)
}
