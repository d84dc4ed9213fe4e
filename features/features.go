// Package features computes the rolling feature vector the scorer
// consumes: trend (moving-average distances and alignment), pullback and
// breakout structure, volatility and volume ratios for the latest candle
// of a history window.
package features

import (
	"github.com/snoopy0103/upbit-ml-paperbot/engine"
	"github.com/snoopy0103/upbit-ml-paperbot/indicators"
	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// DefaultMinLength is the shortest history that yields a full vector;
// the slowest component is the 120-bar moving average slope.
const DefaultMinLength = 200

// Source computes features over candle history. The zero value uses
// DefaultMinLength.
type Source struct {
	MinLength int
}

// Names lists the produced feature columns, in order.
func (s Source) Names() []string {
	return []string{
		"ret_1", "ret_3", "ret_10",
		"dist_ma20", "dist_ma60",
		"ma_slope_20", "ma_slope_60",
		"ma_alignment", "ma_alignment_score",
		"pullback_depth20", "range_pos20",
		"breakout_up20", "breakout_down20",
		"range_width20", "volatility20",
		"vol_ratio20", "vol_ratio60", "vol_z20",
		"atr14_pct",
	}
}

// Compute returns the feature vector for the most recent candle, or
// ok=false when the history is too short.
func (s Source) Compute(history []market.Candle) (engine.FeatureVector, bool) {
	minLen := s.MinLength
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	n := len(history)
	if n < minLen || n < 121 {
		return engine.FeatureVector{}, false
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range history {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	last := n - 1
	close0 := closes[last]
	if close0 <= 0 {
		return engine.FeatureVector{}, false
	}

	ma20 := indicators.Mean(closes[n-20:])
	ma60 := indicators.Mean(closes[n-60:])
	ma120 := indicators.Mean(closes[n-120:])
	ma20Prev := indicators.Mean(closes[n-21 : n-1])
	ma60Prev := indicators.Mean(closes[n-61 : n-1])

	alignment := 0.0
	if ma20 > ma60 && ma60 > ma120 {
		alignment = 1
	}
	alignScore := 0.0
	if ma20 > ma60 {
		alignScore += 0.5
	}
	if ma60 > ma120 {
		alignScore += 0.5
	}

	high20 := indicators.Highest(highs[n-20:])
	low20 := indicators.Lowest(lows[n-20:])
	// Prior-bar channel for breakout detection.
	high20Prev := indicators.Highest(highs[n-21 : n-1])
	low20Prev := indicators.Lowest(lows[n-21 : n-1])

	breakoutUp := 0.0
	if close0 > high20Prev {
		breakoutUp = 1
	}
	breakoutDown := 0.0
	if close0 < low20Prev {
		breakoutDown = 1
	}

	rets := make([]float64, 0, 20)
	for i := n - 20; i < n; i++ {
		if closes[i-1] > 0 {
			rets = append(rets, closes[i]/closes[i-1]-1)
		}
	}

	vol20 := indicators.Mean(volumes[n-20:])
	vol60 := indicators.Mean(volumes[n-60:])

	v := engine.FeatureVector{
		Names: s.Names(),
		Values: []float64{
			indicators.ROC(closes, 1),
			indicators.ROC(closes, 3),
			indicators.ROC(closes, 10),
			(close0 - ma20) / ma20,
			(close0 - ma60) / ma60,
			ma20 - ma20Prev,
			ma60 - ma60Prev,
			alignment,
			alignScore,
			(high20 - close0) / high20,
			(close0 - low20) / (high20 - low20 + 1e-9),
			breakoutUp,
			breakoutDown,
			(high20 - low20) / close0,
			indicators.StdDev(rets),
			volumes[last] / (vol20 + 1e-9),
			volumes[last] / (vol60 + 1e-9),
			(volumes[last] - vol20) / (indicators.StdDev(volumes[n-20:]) + 1e-9),
			indicators.ATRPct(history, 14),
		},
	}
	return v, true
}
