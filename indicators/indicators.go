// Package indicators provides the rolling statistics the feature
// pipeline is built from. All functions are pure and operate on closed
// candles, so they behave identically in live, replay, and backtests.
package indicators

import (
	"math"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation of xs, 0 when fewer
// than two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// Highest returns the maximum of xs, -Inf for an empty slice.
func Highest(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// Lowest returns the minimum of xs, +Inf for an empty slice.
func Lowest(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}

// ROC returns the rate of change of the last value against the value
// lag positions earlier, 0 when the series is too short or the base is
// zero.
func ROC(xs []float64, lag int) float64 {
	n := len(xs)
	if lag <= 0 || n <= lag || xs[n-1-lag] == 0 {
		return 0
	}
	return xs[n-1]/xs[n-1-lag] - 1
}

// ATRPct returns the average true range over the trailing period as a
// fraction of the last close. Returns 0 when the history is too short
// for period+1 candles or the last close is not positive.
func ATRPct(candles []market.Candle, period int) float64 {
	n := len(candles)
	if period <= 0 || n < period+1 {
		return 0
	}
	sum := 0.0
	for i := n - period; i < n; i++ {
		tr := candles[i].High - candles[i].Low
		tr = math.Max(tr, math.Abs(candles[i].High-candles[i-1].Close))
		tr = math.Max(tr, math.Abs(candles[i].Low-candles[i-1].Close))
		sum += tr
	}
	lastClose := candles[n-1].Close
	if lastClose <= 0 {
		return 0
	}
	return sum / float64(period) / lastClose
}
