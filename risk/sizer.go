package risk

// SizerPolicy holds the capital allocation parameters for new entries.
// Percentages are whole percent (0.30 means 0.30%).
type SizerPolicy struct {
	RiskPerTradePct  float64 // budget at risk per trade, e.g. 0.30
	MaxAllocationPct float64 // cap on spend per trade, e.g. 10.0
	MinOrderAmount   float64 // venue minimum order, e.g. 5000 KRW
	FeeRoundtripPct  float64 // combined entry+exit fee, e.g. 0.10
}

// DefaultSizerPolicy mirrors the live bot defaults.
func DefaultSizerPolicy() SizerPolicy {
	return SizerPolicy{
		RiskPerTradePct:  0.30,
		MaxAllocationPct: 10.0,
		MinOrderAmount:   5000,
		FeeRoundtripPct:  0.10,
	}
}

// Sizing is the capital allocation for one entry. Quantity and StopPrice
// are only populated when a price was supplied to the sizer.
type Sizing struct {
	AmountToSpend float64
	Quantity      float64
	StopPrice     float64
	RiskAmount    float64
}

// Zero reports whether the sizing rejects the entry.
func (s Sizing) Zero() bool { return s.AmountToSpend <= 0 }

// Sizer converts equity and a stop distance into an amount to spend.
type Sizer struct {
	policy SizerPolicy
}

func NewSizer(policy SizerPolicy) *Sizer {
	return &Sizer{policy: policy}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SizeFromStopPct allocates capital so that hitting the stop loses at most
// the per-trade risk budget. The roundtrip fee is folded into the risk per
// invested unit so fee drag is never under-budgeted. Fails closed (zero
// sizing, no error) on a non-positive stop or a result below the venue
// minimum. Pass price <= 0 when the quantity and stop price are not needed.
func (s *Sizer) SizeFromStopPct(equity, stopPct, price float64) Sizing {
	if stopPct <= 0 {
		return Sizing{}
	}

	riskBudget := equity * (s.policy.RiskPerTradePct / 100)
	feeComponent := s.policy.FeeRoundtripPct / 100
	riskPerInvested := stopPct + feeComponent
	if riskPerInvested < 1e-9 {
		riskPerInvested = 1e-9
	}

	amount := riskBudget / riskPerInvested
	amount = clamp(amount, 0, equity*(s.policy.MaxAllocationPct/100))

	if amount < s.policy.MinOrderAmount {
		return Sizing{}
	}

	if price <= 0 {
		return Sizing{AmountToSpend: amount, RiskAmount: riskBudget}
	}

	return Sizing{
		AmountToSpend: amount,
		Quantity:      amount * (1 - feeComponent) / price,
		StopPrice:     price * (1 - stopPct),
		RiskAmount:    amount * riskPerInvested,
	}
}

// SizeFromATRPct derives the stop distance from a volatility estimate:
// stopPct = atrPct * stopMult. Same contract as SizeFromStopPct.
func (s *Sizer) SizeFromATRPct(equity, atrPct, stopMult, price float64) Sizing {
	return s.SizeFromStopPct(equity, atrPct*stopMult, price)
}
