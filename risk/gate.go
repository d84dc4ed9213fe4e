package risk

import "time"

// GatePolicy holds the circuit-breaker limits for the risk gate.
type GatePolicy struct {
	MaxDailyLossPct      float64       // e.g. 3.0 (percent of start-of-day balance)
	MaxConsecutiveLosses int           // e.g. 3
	Cooldown             time.Duration // e.g. 60m
}

// DefaultGatePolicy mirrors the live bot defaults.
func DefaultGatePolicy() GatePolicy {
	return GatePolicy{
		MaxDailyLossPct:      3.0,
		MaxConsecutiveLosses: 3,
		Cooldown:             time.Hour,
	}
}

// Gate blocks new entries after a daily-loss cutoff or a loss streak.
// State is mutated only by CanTrade (day rollover) and RecordResult; the
// decision loop is the single caller, so no locking is needed here.
type Gate struct {
	policy GatePolicy

	day               time.Time // calendar date anchor (zero until first call)
	startOfDayBalance float64
	consecutiveLosses int
	cooldownUntil     time.Time
}

func NewGate(policy GatePolicy) *Gate {
	return &Gate{policy: policy}
}

func (g *Gate) resetDay(balance float64, now time.Time) {
	g.day = dateOf(now)
	g.startOfDayBalance = balance
	g.consecutiveLosses = 0
	g.cooldownUntil = time.Time{}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyLossPct reports the loss so far today as a percentage of the
// start-of-day balance. Zero before the first CanTrade call of a day.
func (g *Gate) DailyLossPct(balance float64) float64 {
	if g.day.IsZero() || g.startOfDayBalance <= 0 {
		return 0
	}
	return (g.startOfDayBalance - balance) / g.startOfDayBalance * 100
}

// InCooldown reports whether a loss-streak cooldown is still active.
func (g *Gate) InCooldown(now time.Time) bool {
	return !g.cooldownUntil.IsZero() && now.Before(g.cooldownUntil)
}

// ConsecutiveLosses returns the current losing streak length.
func (g *Gate) ConsecutiveLosses() int { return g.consecutiveLosses }

// CanTrade decides whether a new entry is permitted right now. The first
// call of a calendar day (lazily, including the very first call ever)
// anchors the day and resets the streak and cooldown: a new day forgives
// yesterday entirely.
func (g *Gate) CanTrade(balance float64, now time.Time) bool {
	if g.day.IsZero() || !dateOf(now).Equal(g.day) {
		g.resetDay(balance, now)
	}
	if g.DailyLossPct(balance) >= g.policy.MaxDailyLossPct {
		return false
	}
	if g.InCooldown(now) {
		return false
	}
	return true
}

// RecordResult must be called exactly once per closed trade. A losing
// trade extends the streak; anything else clears it. Reaching the streak
// limit arms the cooldown without resetting the counter, so another loss
// right after expiry re-triggers it immediately.
func (g *Gate) RecordResult(pnl float64, now time.Time) {
	if pnl < 0 {
		g.consecutiveLosses++
	} else {
		g.consecutiveLosses = 0
	}
	if g.consecutiveLosses >= g.policy.MaxConsecutiveLosses {
		g.cooldownUntil = now.Add(g.policy.Cooldown)
	}
}
