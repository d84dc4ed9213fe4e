package journal

// Memory keeps records in slices. Used by tests and by the backtest
// summary, which needs the equity curve after the run.
type Memory struct {
	Fills  []FillRecord
	Equity []EquitySnapshot
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) RecordFill(rec FillRecord) error {
	m.Fills = append(m.Fills, rec)
	return nil
}

func (m *Memory) RecordEquity(e EquitySnapshot) error {
	m.Equity = append(m.Equity, e)
	return nil
}

func (m *Memory) Close() error { return nil }
