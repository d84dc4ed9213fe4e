package risk

import "time"

// Entry-denial reason codes. Stable strings; they end up in logs and
// metrics labels.
const (
	ReasonOK            = "ok"
	ReasonGateBlocked   = "risk_gate_blocked"
	ReasonNoStopDefined = "no_stop_defined"
	ReasonSizeBelowMin  = "size_zero_or_below_min"
)

// EntryRequest describes a candidate entry. Exactly one of StopPct or
// ATRPct should be set (> 0); StopPct wins when both are present.
type EntryRequest struct {
	Equity  float64
	Now     time.Time
	Price   float64
	StopPct float64
	ATRPct  float64
	ATRMult float64 // stop multiple for ATRPct; defaults to 1
}

// Decision is the outcome of an entry evaluation. Sizing is populated only
// when Allowed is true.
type Decision struct {
	Allowed bool
	Reason  string
	Sizing  Sizing
}

// Guard composes the risk gate and the position sizer into a single
// entry check.
type Guard struct {
	gate  *Gate
	sizer *Sizer
}

func NewGuard(gate *Gate, sizer *Sizer) *Guard {
	return &Guard{gate: gate, sizer: sizer}
}

// EvaluateEntry runs the checks in order and stops at the first failure:
// gate, stop definition, sizing. It reads gate state but never mutates the
// streak or cooldown; that happens only through Gate.RecordResult.
func (g *Guard) EvaluateEntry(req EntryRequest) Decision {
	if !g.gate.CanTrade(req.Equity, req.Now) {
		return Decision{Reason: ReasonGateBlocked}
	}

	var sizing Sizing
	switch {
	case req.StopPct > 0:
		sizing = g.sizer.SizeFromStopPct(req.Equity, req.StopPct, req.Price)
	case req.ATRPct > 0:
		mult := req.ATRMult
		if mult <= 0 {
			mult = 1
		}
		sizing = g.sizer.SizeFromATRPct(req.Equity, req.ATRPct, mult, req.Price)
	default:
		return Decision{Reason: ReasonNoStopDefined}
	}

	if sizing.Zero() {
		return Decision{Reason: ReasonSizeBelowMin}
	}

	return Decision{Allowed: true, Reason: ReasonOK, Sizing: sizing}
}
