// Package compliance classifies users against the age gate and the
// large-purchase income-verification rule.
package compliance

import (
	"time"

	"github.com/tessfin/paylater/internal/ledger"
)

// Status is the categorical compliance outcome for a user.
type Status string

const (
	StatusNotRegistered Status = "Not Registered"
	StatusUnderage      Status = "Underage"
	StatusUnverified    Status = "Income Not Verified for Large Purchase"
	StatusCompliant     Status = "Compliant"
)

// LargePurchaseThreshold is the absolute amount above which a purchase
// requires income verification. Fixed, not relative to the credit limit;
// the anomaly engine applies the stricter relative rule separately.
const LargePurchaseThreshold = 500.0

// Check classifies the named user at the given time. Rules apply in
// strict priority order: registration, then age, then verification.
func Check(snap *ledger.Snapshot, name string, now time.Time) Status {
	user, ok := snap.User(name)
	if !ok {
		return StatusNotRegistered
	}

	age := int(now.Sub(user.DOB).Hours()/24) / 365
	if age < ledger.MinAge {
		return StatusUnderage
	}

	if snap.IncomeStatus(name) != ledger.StatusVerified {
		for _, p := range snap.UserPurchases(name) {
			if p.Amount > LargePurchaseThreshold {
				return StatusUnverified
			}
		}
	}
	return StatusCompliant
}
