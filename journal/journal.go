package journal

import "time"

// FillRecord is one executed paper fill. BUY rows carry Quantity, Spend
// and Fee; SELL rows carry PnL and the exit Reason. Balance is the account
// balance after the fill.
type FillRecord struct {
	ID       string
	Market   string
	Time     time.Time
	Side     string // "BUY" or "SELL"
	Price    float64
	Quantity float64
	Spend    float64
	Fee      float64
	PnL      float64
	Balance  float64
	Reason   string // SELL only: TP, SL, SL_TIE, EXIT
}

// EquitySnapshot is one point of the marked equity curve.
type EquitySnapshot struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything. Useful when persistence is
// not wanted (fast backtests).
type Discard struct{}

func (Discard) RecordFill(FillRecord) error       { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }
