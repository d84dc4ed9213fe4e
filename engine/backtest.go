package engine

import (
	"context"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// RunBacktest folds a finite ordered sequence of pre-closed candles
// through the loop. This is the synchronous replay mode: same decision
// core as live, no aggregation, no waiting.
func RunBacktest(ctx context.Context, loop *Loop, candles []market.Candle) error {
	for _, c := range candles {
		if err := ctx.Err(); err != nil {
			return err
		}
		loop.OnCandle(ctx, c)
	}
	return nil
}

// ReplayTicks drives raw ticks through an aggregator and the loop, then
// flushes the final in-progress candle so a finite replay does not drop
// its last bucket. Live mode must not use this; there the next tick is
// the only thing that closes a bucket.
func ReplayTicks(ctx context.Context, loop *Loop, agg *market.Aggregator, ticks []market.TickEvent) error {
	for _, tick := range ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tick.Market != loop.cfg.Market {
			continue
		}
		closed, _ := agg.OnTick(tick)
		if closed != nil {
			loop.OnCandle(ctx, *closed)
		}
	}
	if last := agg.Flush(loop.cfg.Market); last != nil {
		loop.OnCandle(ctx, *last)
	}
	return nil
}
