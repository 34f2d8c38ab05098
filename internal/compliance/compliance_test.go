package compliance

import (
	"testing"
	"time"

	"github.com/tessfin/paylater/internal/ledger"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return testNow.AddDate(0, 0, -d)
}

func snapFor(u ledger.User, purchases []ledger.Purchase, verifications []ledger.Verification) *ledger.Snapshot {
	return &ledger.Snapshot{
		Users:         []ledger.User{u},
		Purchases:     purchases,
		Verifications: verifications,
	}
}

func adult() ledger.User {
	return ledger.User{Name: "alice", DOB: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), CreditLimit: 1000}
}

func minor() ledger.User {
	return ledger.User{Name: "kid", DOB: testNow.AddDate(-16, 0, 0), CreditLimit: 1000}
}

func TestCheck_NotRegistered(t *testing.T) {
	snap := &ledger.Snapshot{}
	if got := Check(snap, "ghost", testNow); got != StatusNotRegistered {
		t.Errorf("expected %q, got %q", StatusNotRegistered, got)
	}
}

func TestCheck_UnderagePrecedesVerification(t *testing.T) {
	// An underage user with a verified large purchase is still Underage:
	// the age gate runs first.
	purchases := []ledger.Purchase{{User: "kid", Amount: 900, Timestamp: daysAgo(5)}}
	verifications := []ledger.Verification{{User: "kid", Status: ledger.StatusVerified, Timestamp: daysAgo(5)}}
	snap := snapFor(minor(), purchases, verifications)

	if got := Check(snap, "kid", testNow); got != StatusUnderage {
		t.Errorf("expected %q, got %q", StatusUnderage, got)
	}
}

func TestCheck_LargePurchaseUnverified(t *testing.T) {
	purchases := []ledger.Purchase{{User: "alice", Amount: 950, Timestamp: daysAgo(5)}}
	snap := snapFor(adult(), purchases, nil)

	if got := Check(snap, "alice", testNow); got != StatusUnverified {
		t.Errorf("expected %q, got %q", StatusUnverified, got)
	}
}

func TestCheck_LargePurchaseThresholdIsExclusive(t *testing.T) {
	// Exactly 500 does not trip the rule; only strictly greater amounts do.
	purchases := []ledger.Purchase{{User: "alice", Amount: 500, Timestamp: daysAgo(5)}}
	snap := snapFor(adult(), purchases, nil)

	if got := Check(snap, "alice", testNow); got != StatusCompliant {
		t.Errorf("expected %q, got %q", StatusCompliant, got)
	}
}

func TestCheck_VerifiedLargePurchaseIsCompliant(t *testing.T) {
	purchases := []ledger.Purchase{{User: "alice", Amount: 950, Timestamp: daysAgo(5)}}
	verifications := []ledger.Verification{{User: "alice", Status: ledger.StatusVerified, Timestamp: daysAgo(4)}}
	snap := snapFor(adult(), purchases, verifications)

	if got := Check(snap, "alice", testNow); got != StatusCompliant {
		t.Errorf("expected %q, got %q", StatusCompliant, got)
	}
}

func TestCheck_LastInsertedVerificationDecides(t *testing.T) {
	// A later-inserted non-Verified record overrides an earlier Verified
	// one even when its timestamp field is older.
	purchases := []ledger.Purchase{{User: "alice", Amount: 950, Timestamp: daysAgo(5)}}
	verifications := []ledger.Verification{
		{User: "alice", Status: ledger.StatusVerified, Timestamp: daysAgo(2)},
		{User: "alice", Status: "Rejected", Timestamp: daysAgo(30)},
	}
	snap := snapFor(adult(), purchases, verifications)

	if got := Check(snap, "alice", testNow); got != StatusUnverified {
		t.Errorf("expected %q, got %q", StatusUnverified, got)
	}
}

func TestCheck_SmallPurchasesCompliantWithoutVerification(t *testing.T) {
	purchases := []ledger.Purchase{
		{User: "alice", Amount: 200, Timestamp: daysAgo(5)},
		{User: "alice", Amount: 300, Timestamp: daysAgo(3)},
	}
	snap := snapFor(adult(), purchases, nil)

	if got := Check(snap, "alice", testNow); got != StatusCompliant {
		t.Errorf("expected %q, got %q", StatusCompliant, got)
	}
}
