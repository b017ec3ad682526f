package station

import (
	"time"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// InitialBalance is the per-resource grant a fresh or freshly reset game
// starts with. A reset session must be indistinguishable from a new one.
const InitialBalance = 200

// Ledger holds the authoritative aggregate resource counters. It carries no
// locking of its own: the master station actor is its single writer and all
// mutations funnel through one goroutine.
//
// Invariant: no balance is ever negative.
type Ledger struct {
	balances resource.Amounts
}

// NewLedger creates a ledger with the initial game-start grant.
func NewLedger() *Ledger {
	l := &Ledger{}
	l.Reset()
	return l
}

// Apply adds a signed delta to the ledger, clamping every balance at zero.
// It returns the delta that was actually absorbed (which differs from the
// input when clamping kicks in).
func (l *Ledger) Apply(delta resource.Amounts) resource.Amounts {
	var applied resource.Amounts
	for _, t := range resource.All() {
		before := l.balances.Get(t)
		after := before + delta.Get(t)
		if after < 0 {
			after = 0
		}
		l.balances = l.balances.Set(t, after)
		applied = applied.Set(t, after-before)
	}
	return applied
}

// Snapshot returns a point-in-time copy of the balances.
func (l *Ledger) Snapshot() resource.Amounts {
	return l.balances
}

// ConsumeFood applies one decay tick. Consumption scales with session age:
// every 30 seconds of elapsed game time adds half the base rate again, so
// at t in [0,30) the tick eats baseRate, at [30,60) floor(baseRate*1.5),
// and so on. Food clamps at zero.
func (l *Ledger) ConsumeFood(baseRate int, elapsed time.Duration) int {
	scaling := 1 + float64(int(elapsed.Seconds())/30)*0.5
	consumption := int(float64(baseRate) * scaling)

	food := l.balances.Food - consumption
	if food < 0 {
		food = 0
	}
	l.balances.Food = food
	return consumption
}

// Reset restores the initial grant. Idempotent.
func (l *Ledger) Reset() {
	l.balances = resource.Amounts{
		Gold:  InitialBalance,
		Food:  InitialBalance,
		Metal: InitialBalance,
	}
}
