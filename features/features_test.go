package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// flatHistory builds n identical candles.
func flatHistory(n int, price float64) []market.Candle {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 10,
		}
	}
	return out
}

// trendingHistory builds n candles with close rising by step per bar.
func trendingHistory(n int, start, step float64) []market.Candle {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, n)
	price := start
	for i := range out {
		out[i] = market.Candle{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   price,
			High:   price + step/2,
			Low:    price - step/2,
			Close:  price + step,
			Volume: 10,
		}
		price += step
	}
	return out
}

func TestComputeShortHistory(t *testing.T) {
	t.Parallel()

	src := Source{}
	_, ok := src.Compute(flatHistory(199, 100))
	assert.False(t, ok)

	_, ok = src.Compute(flatHistory(200, 100))
	assert.True(t, ok)
}

func TestComputeVectorShape(t *testing.T) {
	t.Parallel()

	src := Source{}
	v, ok := src.Compute(flatHistory(250, 100))
	require.True(t, ok)

	assert.Equal(t, src.Names(), v.Names)
	assert.Len(t, v.Values, len(v.Names))
}

func TestComputeFlatMarket(t *testing.T) {
	t.Parallel()

	src := Source{}
	v, ok := src.Compute(flatHistory(250, 100))
	require.True(t, ok)

	for _, name := range []string{"ret_1", "ret_10", "dist_ma20", "dist_ma60", "ma_alignment", "volatility20", "atr14_pct"} {
		got, found := v.Get(name)
		require.True(t, found, name)
		assert.InDelta(t, 0, got, 1e-9, name)
	}

	ratio, _ := v.Get("vol_ratio20")
	assert.InDelta(t, 1.0, ratio, 1e-6, "constant volume ratio is 1")
}

func TestComputeUptrend(t *testing.T) {
	t.Parallel()

	src := Source{}
	v, ok := src.Compute(trendingHistory(250, 100, 1))
	require.True(t, ok)

	align, _ := v.Get("ma_alignment")
	assert.Equal(t, 1.0, align, "steady uptrend aligns all moving averages")

	ret1, _ := v.Get("ret_1")
	assert.Positive(t, ret1)

	breakout, _ := v.Get("breakout_up20")
	assert.Equal(t, 1.0, breakout, "each close exceeds the prior 20-bar high in a monotone trend")

	slope, _ := v.Get("ma_slope_20")
	assert.Positive(t, slope)
}

func TestComputeCustomMinLength(t *testing.T) {
	t.Parallel()

	src := Source{MinLength: 130}
	_, ok := src.Compute(flatHistory(130, 100))
	assert.True(t, ok)

	_, ok = src.Compute(flatHistory(125, 100))
	assert.False(t, ok)
}
