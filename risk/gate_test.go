package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day1 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestGateAllowsFreshDay(t *testing.T) {
	t.Parallel()

	g := NewGate(DefaultGatePolicy())
	assert.True(t, g.CanTrade(1_000_000, day1))
	assert.Equal(t, 0.0, g.DailyLossPct(1_000_000))
}

func TestGateDailyLossCutoff(t *testing.T) {
	t.Parallel()

	g := NewGate(GatePolicy{MaxDailyLossPct: 3.0, MaxConsecutiveLosses: 5, Cooldown: time.Hour})

	assert.True(t, g.CanTrade(1_000_000, day1))

	// Down 2.9%: still allowed. Down exactly 3.0%: blocked (>= limit).
	assert.True(t, g.CanTrade(971_000, day1.Add(time.Hour)))
	assert.False(t, g.CanTrade(970_000, day1.Add(2*time.Hour)))
}

func TestGateLossStreakCooldown(t *testing.T) {
	t.Parallel()

	g := NewGate(GatePolicy{MaxDailyLossPct: 50, MaxConsecutiveLosses: 3, Cooldown: time.Hour})
	assert.True(t, g.CanTrade(1000, day1))

	g.RecordResult(-10, day1)
	g.RecordResult(-10, day1.Add(time.Minute))
	assert.True(t, g.CanTrade(980, day1.Add(2*time.Minute)), "two losses do not arm the cooldown")

	g.RecordResult(-10, day1.Add(3*time.Minute))
	assert.False(t, g.CanTrade(970, day1.Add(4*time.Minute)), "third loss arms the cooldown")
	assert.True(t, g.InCooldown(day1.Add(30*time.Minute)))

	// Cooldown expiry re-allows trading but keeps the streak, so the very
	// next loss re-triggers the cooldown immediately.
	after := day1.Add(3*time.Minute + time.Hour)
	assert.True(t, g.CanTrade(970, after))
	assert.Equal(t, 3, g.ConsecutiveLosses())

	g.RecordResult(-5, after)
	assert.False(t, g.CanTrade(965, after.Add(time.Minute)))
}

func TestGateWinResetsStreak(t *testing.T) {
	t.Parallel()

	g := NewGate(GatePolicy{MaxDailyLossPct: 50, MaxConsecutiveLosses: 3, Cooldown: time.Hour})
	g.CanTrade(1000, day1)

	g.RecordResult(-10, day1)
	g.RecordResult(-10, day1)
	g.RecordResult(5, day1)
	assert.Equal(t, 0, g.ConsecutiveLosses())

	g.RecordResult(0, day1)
	assert.Equal(t, 0, g.ConsecutiveLosses(), "break-even counts as a non-loss")
}

func TestGateNewDayForgivesEverything(t *testing.T) {
	t.Parallel()

	g := NewGate(GatePolicy{MaxDailyLossPct: 3.0, MaxConsecutiveLosses: 2, Cooldown: 24 * time.Hour})
	g.CanTrade(1_000_000, day1)

	g.RecordResult(-100, day1)
	g.RecordResult(-100, day1)
	assert.False(t, g.CanTrade(900_000, day1.Add(time.Minute)), "cooldown and daily loss both active")

	// Next calendar day: anchor resets to the balance passed in, streak and
	// cooldown clear, regardless of how bad yesterday was.
	day2 := day1.Add(24 * time.Hour)
	assert.True(t, g.CanTrade(900_000, day2))
	assert.Equal(t, 0.0, g.DailyLossPct(900_000))
	assert.Equal(t, 0, g.ConsecutiveLosses())
}
