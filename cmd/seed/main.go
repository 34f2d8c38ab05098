// Command seed populates a ledger with edge-case users and transactions
// for exercising the validation checks.
//
// Records are appended through the store directly, bypassing registration
// guards, so deliberately bad data (underage users, zero limits, negative
// amounts, future timestamps) lands in the ledger the way corrupt or
// legacy data would.
//
// The target is DATABASE_URL (PostgreSQL) or DATA_DIR (JSON files);
// DATA_DIR defaults to ./data when neither is set.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/tessfin/paylater/internal/ledger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	now := time.Now().UTC()
	s := seeder{ctx: ctx, store: store, now: now}

	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}

	// Active user with recent activity.
	s.user("ActiveUser", date(1995, 1, 1), 2000)
	s.purchase("ActiveUser", 150, s.daysAgo(2))
	s.purchase("ActiveUser", 200, s.daysAgo(1))
	s.repayment("ActiveUser", 100, s.daysAgo(1))
	s.verification("ActiveUser", ledger.StatusVerified, s.daysAgo(1))

	// Outstanding balance close to the credit limit.
	s.user("HighUtilUser", date(1990, 5, 5), 1000)
	s.purchase("HighUtilUser", 950, s.daysAgo(5))
	s.repayment("HighUtilUser", 50, s.daysAgo(4))
	s.verification("HighUtilUser", ledger.StatusNotVerified, s.daysAgo(4))

	// Defaulted, unverified, high utilization: scores bottom out.
	s.user("LowRiskUser", date(1985, 7, 7), 1000)
	s.purchase("LowRiskUser", 800, s.daysAgo(70))
	s.verification("LowRiskUser", ledger.StatusNotVerified, s.daysAgo(70))

	// Repayment dated before the first purchase.
	s.user("RepBeforePurchase", date(1992, 3, 3), 1000)
	s.repayment("RepBeforePurchase", 100, s.daysAgo(10))
	s.purchase("RepBeforePurchase", 100, s.daysAgo(5))
	s.verification("RepBeforePurchase", ledger.StatusVerified, s.daysAgo(5))

	// Identical amount and timestamp, twice.
	s.user("DupTxUser", date(1993, 4, 4), 1000)
	dupTime := s.daysAgo(3)
	s.purchase("DupTxUser", 300, dupTime)
	s.purchase("DupTxUser", 300, dupTime)
	s.verification("DupTxUser", ledger.StatusVerified, dupTime)

	// Large purchase with no verification on file.
	s.user("LargeNoVerif", date(1994, 6, 6), 1000)
	s.purchase("LargeNoVerif", 950, s.daysAgo(2))

	// Negative purchase amount (refund or data error).
	s.user("NegTxUser", date(1991, 8, 8), 1000)
	s.purchase("NegTxUser", -100, s.daysAgo(2))
	s.verification("NegTxUser", ledger.StatusVerified, s.daysAgo(2))

	// Repaid more than was ever purchased.
	s.user("OverpayUser", date(1988, 9, 9), 1000)
	s.purchase("OverpayUser", 200, s.daysAgo(10))
	s.repayment("OverpayUser", 300, s.daysAgo(9))
	s.verification("OverpayUser", ledger.StatusVerified, s.daysAgo(9))

	// Purchase five days in the future.
	s.user("FutureTxUser", date(1997, 10, 10), 1000)
	s.purchase("FutureTxUser", 100, now.AddDate(0, 0, 5))
	s.verification("FutureTxUser", ledger.StatusVerified, now)

	// Zero credit limit but still transacting.
	s.user("ZeroLimitUser", date(1996, 11, 11), 0)
	s.purchase("ZeroLimitUser", 50, s.daysAgo(2))
	s.verification("ZeroLimitUser", ledger.StatusVerified, s.daysAgo(2))

	// Two large purchases, verification current for only the first.
	s.user("MultiLargeUser", date(1987, 12, 12), 1000)
	s.purchase("MultiLargeUser", 600, s.daysAgo(20))
	s.verification("MultiLargeUser", ledger.StatusVerified, s.daysAgo(19))
	s.purchase("MultiLargeUser", 650, s.daysAgo(5))

	// Zero and negative repayments.
	s.user("SuspiciousRpUser", date(1998, 1, 13), 1000)
	s.purchase("SuspiciousRpUser", 100, s.daysAgo(3))
	s.repayment("SuspiciousRpUser", 0, s.daysAgo(2))
	s.repayment("SuspiciousRpUser", -50, s.daysAgo(1))
	s.verification("SuspiciousRpUser", ledger.StatusVerified, s.daysAgo(3))

	// Twelve purchases within a single day.
	s.user("SameDayUser", date(1999, 2, 14), 1000)
	sameDay := s.daysAgo(1).Truncate(time.Hour)
	for i := 0; i < 12; i++ {
		s.purchase("SameDayUser", 50, sameDay.Add(time.Duration(i)*time.Minute))
	}
	s.verification("SameDayUser", ledger.StatusVerified, sameDay)

	// Fifteen years old.
	s.user("UnderageUser", now.AddDate(-15, 0, 0), 1000)
	s.purchase("UnderageUser", 100, s.daysAgo(2))
	s.verification("UnderageUser", ledger.StatusVerified, s.daysAgo(2))

	if s.err != nil {
		return s.err
	}

	fmt.Println("Edge case users and transactions inserted.")
	return nil
}

// seeder appends records, keeping the first error.
type seeder struct {
	ctx   context.Context
	store ledger.Store
	now   time.Time
	err   error
}

func (s *seeder) daysAgo(d int) time.Time {
	return s.now.AddDate(0, 0, -d)
}

func (s *seeder) user(name string, dob time.Time, limit float64) {
	if s.err != nil {
		return
	}
	s.err = s.store.AppendUser(s.ctx, ledger.User{
		Name:        name,
		DOB:         dob,
		Registered:  s.now,
		CreditLimit: limit,
	})
}

func (s *seeder) purchase(user string, amount float64, ts time.Time) {
	if s.err != nil {
		return
	}
	s.err = s.store.AppendPurchase(s.ctx, ledger.Purchase{User: user, Amount: amount, Timestamp: ts})
}

func (s *seeder) repayment(user string, amount float64, ts time.Time) {
	if s.err != nil {
		return
	}
	s.err = s.store.AppendRepayment(s.ctx, ledger.Repayment{User: user, Amount: amount, Timestamp: ts})
}

func (s *seeder) verification(user, status string, ts time.Time) {
	if s.err != nil {
		return
	}
	s.err = s.store.AppendVerification(s.ctx, ledger.Verification{User: user, Status: status, Timestamp: ts})
}

func openStore() (ledger.Store, func(), error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return ledger.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}

	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	store, err := ledger.NewFileStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open file store: %w", err)
	}
	return store, func() {}, nil
}
