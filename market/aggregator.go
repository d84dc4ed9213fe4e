package market

import "time"

// Aggregator folds a stream of ticks into fixed-interval candles, one
// in-progress candle per market. A candle only closes when a later tick
// proves its bucket has ended, so the final candle of a finite stream
// stays open until Flush is called.
//
// Not safe for concurrent use; feed one market stream from one goroutine.
type Aggregator struct {
	interval time.Duration
	current  map[string]*Candle
}

// NewAggregator returns an aggregator for the given bucket interval.
// A zero or negative interval falls back to 5 minutes.
func NewAggregator(interval time.Duration) *Aggregator {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Aggregator{
		interval: interval,
		current:  make(map[string]*Candle),
	}
}

// Interval reports the configured bucket duration.
func (a *Aggregator) Interval() time.Duration { return a.interval }

// bucket floors t to the aggregator interval boundary.
func (a *Aggregator) bucket(t time.Time) time.Time {
	return t.UTC().Truncate(a.interval)
}

// OnTick updates the in-progress candle for the tick's market and returns
// (closed, current). closed is non-nil only when the tick opened a new
// bucket, in which case it is the finished candle of the previous bucket.
func (a *Aggregator) OnTick(tick TickEvent) (closed *Candle, current *Candle) {
	bucket := a.bucket(tick.Time())

	cur := a.current[tick.Market]
	if cur == nil || !cur.Time.Equal(bucket) {
		closed = cur
		cur = &Candle{
			Time:   bucket,
			Open:   tick.Price,
			High:   tick.Price,
			Low:    tick.Price,
			Close:  tick.Price,
			Volume: tick.Volume,
		}
		a.current[tick.Market] = cur
		return closed, cur
	}

	if tick.Price > cur.High {
		cur.High = tick.Price
	}
	if tick.Price < cur.Low {
		cur.Low = tick.Price
	}
	cur.Close = tick.Price
	cur.Volume += tick.Volume
	return nil, cur
}

// Flush closes and returns the in-progress candle for a market, if any.
// Finite replays call this at end of stream so the last bucket is not
// dropped; live mode never flushes (the next tick closes buckets).
func (a *Aggregator) Flush(market string) *Candle {
	cur := a.current[market]
	if cur == nil {
		return nil
	}
	delete(a.current, market)
	return cur
}
