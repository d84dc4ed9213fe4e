package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeFromStopPct(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizerPolicy{
		RiskPerTradePct:  0.30,
		MaxAllocationPct: 10.0,
		MinOrderAmount:   5000,
		FeeRoundtripPct:  0.10,
	})

	// equity 1,000,000 risk budget = 3000; riskPerInvested = 0.009 + 0.001 = 0.01
	// amount = 3000 / 0.01 = 300,000 -> clamped to 10% cap = 100,000
	got := s.SizeFromStopPct(1_000_000, 0.009, 50_000)

	assert.InDelta(t, 100_000, got.AmountToSpend, 1e-9)
	assert.InDelta(t, 100_000*(1-0.001)/50_000, got.Quantity, 1e-12)
	assert.InDelta(t, 50_000*(1-0.009), got.StopPrice, 1e-9)
	assert.InDelta(t, 100_000*0.01, got.RiskAmount, 1e-9)
}

func TestSizeFromStopPctNoPrice(t *testing.T) {
	t.Parallel()

	s := NewSizer(DefaultSizerPolicy())
	got := s.SizeFromStopPct(1_000_000, 0.009, 0)

	assert.Greater(t, got.AmountToSpend, 0.0)
	assert.Zero(t, got.Quantity)
	assert.Zero(t, got.StopPrice)
	assert.InDelta(t, 3000.0, got.RiskAmount, 1e-9, "without a price the risk amount is the raw budget")
}

func TestSizeFailsClosed(t *testing.T) {
	t.Parallel()

	s := NewSizer(DefaultSizerPolicy())

	tests := []struct {
		name    string
		equity  float64
		stopPct float64
	}{
		{"zero stop", 1_000_000, 0},
		{"negative stop", 1_000_000, -0.01},
		{"below venue minimum", 10_000, 0.009},
		{"zero equity", 0, 0.009},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.SizeFromStopPct(tt.equity, tt.stopPct, 50_000)
			assert.True(t, got.Zero())
			assert.Zero(t, got.RiskAmount)
		})
	}
}

func TestSizeMonotonicity(t *testing.T) {
	t.Parallel()

	base := SizerPolicy{RiskPerTradePct: 0.30, MaxAllocationPct: 100, MinOrderAmount: 0, FeeRoundtripPct: 0.10}
	equity := 1_000_000.0

	// Non-decreasing in RiskPerTradePct.
	var prev float64
	for _, riskPct := range []float64{0.1, 0.2, 0.3, 0.5, 1.0} {
		p := base
		p.RiskPerTradePct = riskPct
		amt := NewSizer(p).SizeFromStopPct(equity, 0.01, 0).AmountToSpend
		require.GreaterOrEqual(t, amt, prev)
		prev = amt
	}

	// Non-increasing in stopPct.
	prev = equity * 10
	for _, stopPct := range []float64{0.005, 0.009, 0.02, 0.05} {
		amt := NewSizer(base).SizeFromStopPct(equity, stopPct, 0).AmountToSpend
		require.LessOrEqual(t, amt, prev)
		prev = amt
	}
}

func TestSizeRespectsAllocationCap(t *testing.T) {
	t.Parallel()

	s := NewSizer(SizerPolicy{RiskPerTradePct: 5, MaxAllocationPct: 10, MinOrderAmount: 0, FeeRoundtripPct: 0.10})
	for _, stopPct := range []float64{0.001, 0.005, 0.01, 0.1} {
		got := s.SizeFromStopPct(1_000_000, stopPct, 0)
		assert.LessOrEqual(t, got.AmountToSpend, 100_000.0)
	}
}

func TestSizeFromATRPct(t *testing.T) {
	t.Parallel()

	s := NewSizer(DefaultSizerPolicy())

	// atrPct * mult is just a stopPct; results must match exactly.
	fromATR := s.SizeFromATRPct(1_000_000, 0.006, 1.5, 50_000)
	fromStop := s.SizeFromStopPct(1_000_000, 0.009, 50_000)
	assert.Equal(t, fromStop, fromATR)

	assert.True(t, s.SizeFromATRPct(1_000_000, 0, 1.5, 50_000).Zero())
}
