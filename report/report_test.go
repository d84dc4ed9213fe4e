package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoopy0103/upbit-ml-paperbot/paper"
)

func TestMaxDrawdownPct(t *testing.T) {
	t.Parallel()

	// Peak 100, trough 80 before the recovery to 120.
	assert.InDelta(t, 20.0, MaxDrawdownPct([]float64{100, 90, 95, 80, 120}), 1e-9)

	assert.Zero(t, MaxDrawdownPct(nil))
	assert.Zero(t, MaxDrawdownPct([]float64{100, 110, 120}), "monotone rise has no drawdown")
	assert.InDelta(t, 50.0, MaxDrawdownPct([]float64{100, 50}), 1e-9)
}

func TestSummarizeCountsTrades(t *testing.T) {
	t.Parallel()

	ledger := paper.NewLedger("KRW-BTC", 1_000_000, 0, nil)
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	// Winner: buy 100k at 100, sell at 110.
	require.NoError(t, ledger.Buy(100, ts, 100_000))
	require.NoError(t, ledger.Sell(110, ts.Add(5*time.Minute), paper.ReasonTakeProfit))

	// Loser: buy 100k at 100, sell at 90.
	require.NoError(t, ledger.Buy(100, ts.Add(10*time.Minute), 100_000))
	require.NoError(t, ledger.Sell(90, ts.Add(15*time.Minute), paper.ReasonStopLoss))

	s := Summarize(ledger, []float64{1_000_000, 1_010_000, 1_000_000})

	assert.Equal(t, "KRW-BTC", s.Market)
	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 50.0, s.WinRatePct, 1e-9)
	assert.InDelta(t, 0, s.TotalPnL, 1e-9, "fee-free +10k and -10k cancel")
	assert.InDelta(t, 10_000, s.BestTrade, 1e-9)
	assert.InDelta(t, -10_000, s.WorstTrade, 1e-9)
	assert.Equal(t, 1, s.ExitReasons[paper.ReasonTakeProfit])
	assert.Equal(t, 1, s.ExitReasons[paper.ReasonStopLoss])

	assert.InDelta(t, 1_000_000, s.FinalEquity, 1e-9)
	assert.InDelta(t, 0, s.ReturnPct, 1e-9)
	// Peak 1.01M down to 1.0M.
	assert.InDelta(t, 10_000.0/1_010_000*100, s.MaxDrawdownPct, 1e-9)
}

func TestSummarizeEmptyRun(t *testing.T) {
	t.Parallel()

	ledger := paper.NewLedger("KRW-BTC", 1_000_000, 0.001, nil)
	s := Summarize(ledger, nil)

	assert.Zero(t, s.Trades)
	assert.Zero(t, s.WinRatePct)
	assert.InDelta(t, 1_000_000, s.FinalEquity, 1e-9, "no equity curve falls back to the starting balance")
	assert.Zero(t, s.ReturnPct)
}

func TestPrintRendersSections(t *testing.T) {
	t.Parallel()

	s := Summary{
		Market:         "KRW-BTC",
		Trades:         3,
		Wins:           2,
		Losses:         1,
		WinRatePct:     66.67,
		TotalPnL:       1500,
		AvgPnL:         500,
		ExitReasons:    map[string]int{paper.ReasonTakeProfit: 2, paper.ReasonStopTie: 1},
		InitialBalance: 1_000_000,
		FinalEquity:    1_001_500,
		ReturnPct:      0.15,
		MaxDrawdownPct: 1.2,
	}

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "KRW-BTC")
	assert.Contains(t, out, "Win Rate:      66.67%")
	assert.Contains(t, out, "Max Drawdown:  1.20%")
	assert.Contains(t, out, "SL_TIE")
}
