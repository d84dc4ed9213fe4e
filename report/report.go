// Package report summarizes a trading run from the ledger history and
// equity curve.
package report

import (
	"fmt"
	"io"

	"github.com/snoopy0103/upbit-ml-paperbot/paper"
)

// Summary is a lightweight performance summary of a run.
type Summary struct {
	Market string

	Trades int
	Wins   int
	Losses int

	WinRatePct  float64
	TotalPnL    float64
	AvgPnL      float64
	BestTrade   float64
	WorstTrade  float64
	ExitReasons map[string]int

	InitialBalance float64
	FinalEquity    float64
	ReturnPct      float64
	MaxDrawdownPct float64
}

// Summarize builds a summary from the ledger and the per-candle equity
// curve. Only sells carry PnL; a trade with zero PnL counts as a loss,
// fees make a true break-even effectively impossible.
func Summarize(ledger *paper.Ledger, equityCurve []float64) Summary {
	s := Summary{
		Market:         ledger.Market(),
		InitialBalance: ledger.InitialBalance(),
		ExitReasons:    make(map[string]int),
	}

	for _, tr := range ledger.History() {
		if tr.Side != paper.SideSell {
			continue
		}
		s.Trades++
		s.TotalPnL += tr.PnL
		s.ExitReasons[tr.Reason]++
		if tr.PnL > 0 {
			s.Wins++
		} else {
			s.Losses++
		}
		if s.Trades == 1 || tr.PnL > s.BestTrade {
			s.BestTrade = tr.PnL
		}
		if s.Trades == 1 || tr.PnL < s.WorstTrade {
			s.WorstTrade = tr.PnL
		}
	}
	if s.Trades > 0 {
		s.WinRatePct = float64(s.Wins) / float64(s.Trades) * 100
		s.AvgPnL = s.TotalPnL / float64(s.Trades)
	}

	if n := len(equityCurve); n > 0 {
		s.FinalEquity = equityCurve[n-1]
	} else {
		s.FinalEquity = s.InitialBalance
	}
	if s.InitialBalance > 0 {
		s.ReturnPct = (s.FinalEquity - s.InitialBalance) / s.InitialBalance * 100
	}
	s.MaxDrawdownPct = MaxDrawdownPct(equityCurve)
	return s
}

// MaxDrawdownPct returns the deepest peak-to-trough decline of the
// curve as a percentage of the running peak.
func MaxDrawdownPct(curve []float64) float64 {
	var peak, maxDD float64
	for _, e := range curve {
		if e > peak {
			peak = e
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - e) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Print renders the summary as plain text.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Run Summary")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Market:        %s\n", s.Market)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRatePct)
	if s.Trades > 0 {
		fmt.Fprintf(w, "Avg PnL:       %.2f\n", s.AvgPnL)
		fmt.Fprintf(w, "Best Trade:    %.2f\n", s.BestTrade)
		fmt.Fprintf(w, "Worst Trade:   %.2f\n", s.WorstTrade)
	}
	for _, reason := range []string{paper.ReasonTakeProfit, paper.ReasonStopLoss, paper.ReasonStopTie, paper.ReasonExit} {
		if n := s.ExitReasons[reason]; n > 0 {
			fmt.Fprintf(w, "Exits %-8s %d\n", reason+":", n)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", s.InitialBalance)
	fmt.Fprintf(w, "Final Equity:  %.2f\n", s.FinalEquity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.TotalPnL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct)
	if s.MaxDrawdownPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDrawdownPct)
	}
	fmt.Fprintln(w)
}
