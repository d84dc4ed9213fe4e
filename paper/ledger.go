package paper

import (
	"sync"
	"time"

	"github.com/snoopy0103/upbit-ml-paperbot/internal/id"
	"github.com/snoopy0103/upbit-ml-paperbot/journal"
)

// Exit reasons recorded on SELL fills.
const (
	ReasonTakeProfit = "TP"
	ReasonStopLoss   = "SL"
	ReasonStopTie    = "SL_TIE" // TP and SL breached in the same bar
	ReasonExit       = "EXIT"   // manual / strategy exit
)

// Side of a trade record.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// TradeRecord is one append-only ledger entry. BUY rows carry Quantity,
// Spend and Fee; SELL rows carry PnL and Reason.
type TradeRecord struct {
	ID       string
	Time     time.Time
	Side     string
	Price    float64
	Quantity float64
	Spend    float64
	Fee      float64
	PnL      float64
	Balance  float64 // balance after the fill
	Reason   string
}

// Ledger is the single-position paper trading account: one market, one
// lot, long-only. It moves between two states, flat (PositionQty == 0)
// and long (PositionQty > 0). Buy is the only way in, Sell the only way
// out, and both are defensive no-ops when called from the wrong state.
type Ledger struct {
	mu sync.Mutex

	market         string
	feeRate        float64
	initialBalance float64

	balance       float64
	positionQty   float64
	entryPrice    float64
	entryNotional float64

	history []TradeRecord
	journal journal.Journal
}

// NewLedger creates a flat ledger. A nil journal disables persistence.
func NewLedger(market string, initialBalance, feeRate float64, j journal.Journal) *Ledger {
	if j == nil {
		j = journal.Discard{}
	}
	return &Ledger{
		market:         market,
		feeRate:        feeRate,
		initialBalance: initialBalance,
		balance:        initialBalance,
		journal:        j,
	}
}

func (l *Ledger) Market() string          { return l.market }
func (l *Ledger) FeeRate() float64        { return l.feeRate }
func (l *Ledger) InitialBalance() float64 { return l.initialBalance }

func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) PositionQty() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.positionQty
}

// CanBuy reports whether a new position may be opened.
func (l *Ledger) CanBuy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canBuyLocked()
}

func (l *Ledger) canBuyLocked() bool {
	return l.positionQty == 0 && l.balance > 0
}

// CanSell reports whether a position is open.
func (l *Ledger) CanSell() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.positionQty > 0
}

// Buy opens the position, spending at most spendAmount (clamped to the
// available balance). The fee comes off the top; the remainder buys at
// price. No-op unless flat with a positive balance and positive clamped
// spend. Returns the journal error, if any; the ledger state itself is
// always consistent.
func (l *Ledger) Buy(price float64, timestamp time.Time, spendAmount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.canBuyLocked() || price <= 0 {
		return nil
	}

	if spendAmount > l.balance {
		spendAmount = l.balance
	}
	if spendAmount <= 0 {
		return nil
	}

	fee := spendAmount * l.feeRate
	cost := spendAmount - fee
	qty := cost / price

	l.positionQty = qty
	l.entryPrice = price
	l.entryNotional = spendAmount
	l.balance -= spendAmount

	rec := TradeRecord{
		ID:       id.New(),
		Time:     timestamp,
		Side:     SideBuy,
		Price:    price,
		Quantity: qty,
		Spend:    spendAmount,
		Fee:      fee,
		Balance:  l.balance,
	}
	l.history = append(l.history, rec)

	return l.journal.RecordFill(journal.FillRecord{
		ID: rec.ID, Market: l.market, Time: rec.Time, Side: rec.Side,
		Price: rec.Price, Quantity: rec.Quantity, Spend: rec.Spend,
		Fee: rec.Fee, Balance: rec.Balance,
	})
}

// Sell closes the position at price, crediting proceeds net of the fee.
// PnL is measured against the entry notional, so both fee legs are in it.
// No-op unless long.
func (l *Ledger) Sell(price float64, timestamp time.Time, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sellLocked(price, timestamp, reason)
}

func (l *Ledger) sellLocked(price float64, timestamp time.Time, reason string) error {
	if l.positionQty <= 0 {
		return nil
	}
	if reason == "" {
		reason = ReasonExit
	}

	proceeds := l.positionQty * price * (1 - l.feeRate)
	pnl := proceeds - l.entryNotional

	l.balance += proceeds
	l.positionQty = 0
	l.entryPrice = 0
	l.entryNotional = 0

	rec := TradeRecord{
		ID:      id.New(),
		Time:    timestamp,
		Side:    SideSell,
		Price:   price,
		PnL:     pnl,
		Balance: l.balance,
		Reason:  reason,
	}
	l.history = append(l.history, rec)

	return l.journal.RecordFill(journal.FillRecord{
		ID: rec.ID, Market: l.market, Time: rec.Time, Side: rec.Side,
		Price: rec.Price, PnL: rec.PnL, Balance: rec.Balance, Reason: rec.Reason,
	})
}

// CheckExitOnBar evaluates intrabar take-profit and stop-loss triggers
// against a closed candle's high/low. When both thresholds are breached
// within the same bar the intrabar path is unobservable from OHLC, so the
// stop fires first (pessimistic) at the exact stop price with reason
// SL_TIE. Fills always use the threshold price, never the bar close.
// No-op unless long.
func (l *Ledger) CheckExitOnBar(high, low float64, timestamp time.Time, tp, sl float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.positionQty <= 0 {
		return nil
	}

	tpPrice := l.entryPrice * (1 + tp)
	slPrice := l.entryPrice * (1 - sl)
	tpHit := high >= tpPrice
	slHit := low <= slPrice

	switch {
	case tpHit && slHit:
		return l.sellLocked(slPrice, timestamp, ReasonStopTie)
	case tpHit:
		return l.sellLocked(tpPrice, timestamp, ReasonTakeProfit)
	case slHit:
		return l.sellLocked(slPrice, timestamp, ReasonStopLoss)
	}
	return nil
}

// MarkedEquity values the account at lastPrice: balance plus the
// liquidation value of any open position, net of the exit fee. Reporting
// only; sizing always uses the cash balance.
func (l *Ledger) MarkedEquity(lastPrice float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.positionQty <= 0 {
		return l.balance
	}
	return l.balance + l.positionQty*lastPrice*(1-l.feeRate)
}

// History returns the append-only trade records. Callers must treat the
// slice as read-only.
func (l *Ledger) History() []TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history
}

// LastSell returns the most recent SELL record, if any.
func (l *Ledger) LastSell() (TradeRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.history) - 1; i >= 0; i-- {
		if l.history[i].Side == SideSell {
			return l.history[i], true
		}
	}
	return TradeRecord{}, false
}
