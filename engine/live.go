package engine

import (
	"context"

	"github.com/snoopy0103/upbit-ml-paperbot/market"
)

// RunLive consumes ticks from a live feed channel until the context is
// cancelled or the channel closes. The feed owns reconnect/resubscribe;
// a gap in ticks simply produces an aggregation discontinuity, which the
// loop tolerates. Candles for other markets are dropped here so the loop
// stays single-market.
func RunLive(ctx context.Context, loop *Loop, agg *market.Aggregator, ticks <-chan market.TickEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tick, ok := <-ticks:
			if !ok {
				return nil
			}
			if tick.Market != loop.cfg.Market {
				continue
			}
			closed, _ := agg.OnTick(tick)
			if closed != nil {
				loop.OnCandle(ctx, *closed)
			}
		}
	}
}
