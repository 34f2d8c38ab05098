// Package risk computes credit utilization, repayment default status, and
// the champion/challenger risk scores from a ledger snapshot.
//
// All calculators are pure reads over the snapshot: data-quality problems
// (negative amounts, over-repayment, future dates) are absorbed into the
// arithmetic here and surfaced separately by the anomaly engine.
package risk

import (
	"math"
	"sort"
	"time"

	"github.com/tessfin/paylater/internal/ledger"
)

// DefaultOverdueDays is how long a purchase may carry a positive residual
// balance before the user is in default.
const DefaultOverdueDays = 60

// Engine evaluates one snapshot at a fixed point in time. The evaluation
// time is part of the engine so repeated calls are deterministic.
type Engine struct {
	snap *ledger.Snapshot
	now  time.Time
}

// NewEngine creates an engine evaluating at the current time.
func NewEngine(snap *ledger.Snapshot) *Engine {
	return NewEngineAt(snap, time.Now())
}

// NewEngineAt creates an engine evaluating at the given time.
func NewEngineAt(snap *ledger.Snapshot, now time.Time) *Engine {
	return &Engine{snap: snap, now: now}
}

// Now returns the engine's evaluation time.
func (e *Engine) Now() time.Time {
	return e.now
}

// Outstanding is total purchases minus total repayments, unclamped. The
// audit path uses this to see what Utilization's clamp hides.
func (e *Engine) Outstanding(name string) float64 {
	var total float64
	for _, p := range e.snap.UserPurchases(name) {
		total += p.Amount
	}
	for _, r := range e.snap.UserRepayments(name) {
		total -= r.Amount
	}
	return total
}

// Utilization is outstanding balance over credit limit, clamped to [0,1].
// Absent users and non-positive credit limits yield 0. The clamp masks
// over-repayment (negative outstanding) from the headline figure.
func (e *Engine) Utilization(name string) float64 {
	user, ok := e.snap.User(name)
	if !ok {
		return 0.0
	}
	if user.CreditLimit <= 0 {
		return 0.0
	}
	raw := e.Outstanding(name) / user.CreditLimit
	return math.Max(0.0, math.Min(raw, 1.0))
}

// Velocity counts purchases whose whole-day age is strictly less than
// windowDays. Future-dated purchases have negative age and always count.
func (e *Engine) Velocity(name string, windowDays int) int {
	count := 0
	for _, p := range e.snap.UserPurchases(name) {
		if e.ageDays(p.Timestamp) < windowDays {
			count++
		}
	}
	return count
}

// IncomeStatus is the last-inserted verification status for the user, or
// "Not Verified" when none exists.
func (e *Engine) IncomeStatus(name string) string {
	return e.snap.IncomeStatus(name)
}

// InDefault walks purchases in timestamp order, allocating repayments
// FIFO. Each repayment is consumed at most once; a partially consumed
// repayment carries its remainder into the next purchase's settlement.
// The first purchase left with a positive residual at DefaultOverdueDays
// or older makes the user defaulted; later purchases are not examined.
func (e *Engine) InDefault(name string) bool {
	purchases := e.snap.UserPurchases(name)
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].Timestamp.Before(purchases[j].Timestamp)
	})

	repayments := e.snap.UserRepayments(name)
	sort.SliceStable(repayments, func(i, j int) bool {
		return repayments[i].Timestamp.Before(repayments[j].Timestamp)
	})

	// Working queue of remaining repayment amounts, local to this call.
	// The snapshot's records are never mutated.
	remaining := make([]float64, len(repayments))
	for i, r := range repayments {
		remaining[i] = r.Amount
	}
	head := 0

	outstanding := 0.0
	for _, p := range purchases {
		outstanding += p.Amount
		for head < len(remaining) && outstanding > 0 {
			if remaining[head] <= outstanding {
				outstanding -= remaining[head]
				head++
			} else {
				remaining[head] -= outstanding
				outstanding = 0
			}
		}
		if outstanding > 0 && e.ageDays(p.Timestamp) >= DefaultOverdueDays {
			return true
		}
	}
	return false
}

// ageDays is the whole number of days between the engine's evaluation
// time and ts. Negative for future timestamps.
func (e *Engine) ageDays(ts time.Time) int {
	return int(e.now.Sub(ts).Hours() / 24)
}
