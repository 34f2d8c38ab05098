// Package ledger holds the append-only event log the risk engine reads.
//
// Four collections — users, purchases, repayments, income verifications —
// keyed by user name. Records are never updated or deleted; insertion
// order is preserved and significant (the latest verification for a user
// is latest-by-insertion, not latest-by-timestamp).
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already registered")
	ErrUnderage     = errors.New("user must be at least 18 years old")
	ErrEmptyName    = errors.New("user name required")
)

// DefaultCreditLimit is applied when a user registers without a limit.
const DefaultCreditLimit = 1000.0

// MinAge is the minimum age accepted at registration.
const MinAge = 18

// User is a registered borrower. Name is the sole join key across all
// collections; name and credit limit are immutable after registration.
type User struct {
	Name        string    `json:"name"`
	DOB         time.Time `json:"dob"`
	Registered  time.Time `json:"registered"`
	CreditLimit float64   `json:"credit_limit"`
}

// Purchase is a BNPL transaction. Amounts are signed in practice; the
// anomaly engine, not the store, flags suspicious values.
type Purchase struct {
	User      string    `json:"user"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Repayment reduces a user's outstanding balance. Not linked to a
// specific purchase; allocation is FIFO at computation time.
type Repayment struct {
	User      string    `json:"user"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Verification is an income-verification event. Status is free-form;
// "Verified" is the only value with special meaning.
type Verification struct {
	User      string    `json:"user"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusVerified is the verification status that satisfies income checks.
const StatusVerified = "Verified"

// StatusNotVerified is reported for users with no verification on file.
const StatusNotVerified = "Not Verified"

// Store persists the four collections. Load returns records in insertion
// order; Append adds to the end. No update or delete operations exist.
type Store interface {
	LoadUsers(ctx context.Context) ([]User, error)
	AppendUser(ctx context.Context, u User) error
	LoadPurchases(ctx context.Context) ([]Purchase, error)
	AppendPurchase(ctx context.Context, p Purchase) error
	LoadRepayments(ctx context.Context) ([]Repayment, error)
	AppendRepayment(ctx context.Context, r Repayment) error
	LoadVerifications(ctx context.Context) ([]Verification, error)
	AppendVerification(ctx context.Context, v Verification) error
}

// Ledger wraps a Store with registration rules and snapshot loading.
type Ledger struct {
	store Store
}

// New creates a new ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Register adds a new user. The name must be non-empty and unused, and
// the user must be at least MinAge at registration time. A zero credit
// limit is replaced with DefaultCreditLimit.
func (l *Ledger) Register(ctx context.Context, u User) (*User, error) {
	done := observeOp("register")
	defer done()

	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return nil, ErrEmptyName
	}
	if ageYears(u.DOB, time.Now()) < MinAge {
		return nil, ErrUnderage
	}

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if existing.Name == u.Name {
			return nil, ErrUserExists
		}
	}

	if u.Registered.IsZero() {
		u.Registered = time.Now()
	}
	if u.CreditLimit == 0 {
		u.CreditLimit = DefaultCreditLimit
	}

	if err := l.store.AppendUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AddPurchase appends a purchase. The user is not required to exist;
// orphan records surface later through the anomaly engine.
func (l *Ledger) AddPurchase(ctx context.Context, p Purchase) error {
	done := observeOp("purchase")
	defer done()

	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	return l.store.AppendPurchase(ctx, p)
}

// AddRepayment appends a repayment.
func (l *Ledger) AddRepayment(ctx context.Context, r Repayment) error {
	done := observeOp("repayment")
	defer done()

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return l.store.AppendRepayment(ctx, r)
}

// AddVerification appends an income-verification event.
func (l *Ledger) AddVerification(ctx context.Context, v Verification) error {
	done := observeOp("verification")
	defer done()

	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	return l.store.AppendVerification(ctx, v)
}

// Snapshot loads the whole ledger once. All risk computation runs over
// the returned value; concurrent appends do not affect it.
func (l *Ledger) Snapshot(ctx context.Context) (*Snapshot, error) {
	done := observeOp("snapshot")
	defer done()

	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := l.store.LoadPurchases(ctx)
	if err != nil {
		return nil, err
	}
	repayments, err := l.store.LoadRepayments(ctx)
	if err != nil {
		return nil, err
	}
	verifications, err := l.store.LoadVerifications(ctx)
	if err != nil {
		return nil, err
	}

	RegisteredUsers.Set(float64(len(users)))

	return &Snapshot{
		Users:         users,
		Purchases:     purchases,
		Repayments:    repayments,
		Verifications: verifications,
	}, nil
}

// ageYears is whole years between dob and now, computed the same way as
// the compliance classifier: elapsed whole days divided by 365.
func ageYears(dob, now time.Time) int {
	return int(now.Sub(dob).Hours()/24) / 365
}
