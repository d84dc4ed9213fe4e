package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

func TestMean(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestStdDev(t *testing.T) {
	t.Parallel()

	assert.Zero(t, StdDev([]float64{5}))
	assert.Zero(t, StdDev([]float64{5, 5, 5}))
	// Sample stddev of {1,2,3,4}: sqrt(5/3).
	assert.InDelta(t, math.Sqrt(5.0/3.0), StdDev([]float64{1, 2, 3, 4}), 1e-12)
}

func TestHighestLowest(t *testing.T) {
	t.Parallel()

	xs := []float64{3, 1, 4, 1, 5}
	assert.Equal(t, 5.0, Highest(xs))
	assert.Equal(t, 1.0, Lowest(xs))
	assert.True(t, math.IsInf(Highest(nil), -1))
	assert.True(t, math.IsInf(Lowest(nil), 1))
}

func TestROC(t *testing.T) {
	t.Parallel()

	xs := []float64{100, 110, 121}
	assert.InDelta(t, 0.10, ROC(xs, 1), 1e-12)
	assert.InDelta(t, 0.21, ROC(xs, 2), 1e-12)
	assert.Zero(t, ROC(xs, 3), "lag beyond the series")
	assert.Zero(t, ROC([]float64{0, 5}, 1), "zero base")
}

func TestATRPct(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, 20)
	for i := range candles {
		candles[i] = market.Candle{
			Time: base.Add(time.Duration(i) * 5 * time.Minute),
			Open: 100, High: 101, Low: 99, Close: 100,
			Volume: 1,
		}
	}

	// Constant 2-point range on a 100 close.
	assert.InDelta(t, 0.02, ATRPct(candles, 14), 1e-12)
	assert.Zero(t, ATRPct(candles[:5], 14), "not enough candles")
	assert.Zero(t, ATRPct(candles, 0))

	// A gap above the prior close widens the true range.
	candles[19].High = 103
	candles[19].Low = 102
	candles[19].Close = 102.5
	got := ATRPct(candles, 1)
	assert.InDelta(t, 3.0/102.5, got, 1e-12, "true range spans the gap from the prior close")
}
