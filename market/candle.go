package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data for a
// fixed time bucket. A candle is immutable once the aggregator closes it.
type Candle struct {
	Time   time.Time // bucket start, UTC
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TickEvent is a single executed trade from the exchange feed. Ticks are
// ephemeral; they only exist long enough to be folded into a candle.
type TickEvent struct {
	Market          string
	Price           float64
	Volume          float64
	TimestampMillis int64
}

// Time converts the tick's millisecond timestamp to a UTC time.
func (t TickEvent) Time() time.Time {
	return time.UnixMilli(t.TimestampMillis).UTC()
}
