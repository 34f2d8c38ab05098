package anomaly

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tessfin/paylater/internal/ledger"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return testNow.AddDate(0, 0, -d)
}

func user(name string, limit float64) ledger.User {
	return ledger.User{
		Name:        name,
		DOB:         time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Registered:  daysAgo(400),
		CreditLimit: limit,
	}
}

func verified(name string) ledger.Verification {
	return ledger.Verification{User: name, Status: ledger.StatusVerified, Timestamp: daysAgo(10)}
}

func findResult(t *testing.T, report *Report, name string) Result {
	t.Helper()
	for _, res := range report.Results {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("no result for user %q", name)
	return Result{}
}

func hasFinding(findings []string, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

func TestParseChecks(t *testing.T) {
	if got := ParseChecks(""); !reflect.DeepEqual(got, AllChecks()) {
		t.Errorf("empty selection should mean all checks, got %v", got)
	}

	got := ParseChecks("velocity, bogus_check, duplicate_transactions")
	want := []Check{CheckVelocity, CheckDuplicateTransactions}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := ParseChecks("nothing_real, also_fake"); len(got) != 0 {
		t.Errorf("unknown names should be silently dropped, got %v", got)
	}
}

func TestRun_CleanUserHasNoFindings(t *testing.T) {
	snap := &ledger.Snapshot{
		Users:         []ledger.User{user("alice", 1000)},
		Purchases:     []ledger.Purchase{{User: "alice", Amount: 100, Timestamp: daysAgo(5)}},
		Repayments:    []ledger.Repayment{{User: "alice", Amount: 50, Timestamp: daysAgo(3)}},
		Verifications: []ledger.Verification{verified("alice")},
	}
	report := NewRunnerAt(snap, testNow).Run(AllChecks(), "")

	res := findResult(t, report, "alice")
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues, got %v", res.Issues)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	if res.Compliance != "Compliant" {
		t.Errorf("expected Compliant, got %q", res.Compliance)
	}
}

func TestRun_DuplicateTransactionsFireOncePerPair(t *testing.T) {
	ts := daysAgo(5)
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 25, Timestamp: ts},
			{User: "alice", Amount: 25, Timestamp: ts},
			{User: "alice", Amount: 25, Timestamp: ts},
			{User: "alice", Amount: 40, Timestamp: ts}, // different amount, no dup
		},
		Verifications: []ledger.Verification{verified("alice")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckDuplicateTransactions}, "")

	res := findResult(t, report, "alice")
	if len(res.Issues) != 1 {
		t.Fatalf("expected exactly 1 duplicate finding, got %v", res.Issues)
	}
	if !strings.Contains(res.Issues[0], "(3 times)") {
		t.Errorf("expected occurrence count 3 in finding, got %q", res.Issues[0])
	}
}

func TestRun_RepaymentBeforeFirstPurchase(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 100, Timestamp: daysAgo(20)},
		},
		Repayments: []ledger.Repayment{
			// Flagged regardless of amount.
			{User: "alice", Amount: 0.01, Timestamp: daysAgo(30)},
		},
		Verifications: []ledger.Verification{verified("alice")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckRepaymentBeforePurchase}, "")

	res := findResult(t, report, "alice")
	if !hasFinding(res.Issues, "Repayment before first purchase") {
		t.Errorf("expected repayment-before-purchase issue, got %v", res.Issues)
	}
}

func TestRun_OverRepaymentAndSuspiciousRepayment(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 100, Timestamp: daysAgo(20)},
		},
		Repayments: []ledger.Repayment{
			{User: "alice", Amount: 250, Timestamp: daysAgo(10)},
			{User: "alice", Amount: -5, Timestamp: daysAgo(9)},
		},
		Verifications: []ledger.Verification{verified("alice")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckOverRepayment, CheckSuspiciousRepayments, CheckOutstanding}, "")

	res := findResult(t, report, "alice")
	if !hasFinding(res.Issues, "Over-repayment") {
		t.Errorf("expected over-repayment issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Suspicious repayment") {
		t.Errorf("expected suspicious repayment issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Outstanding negative balance") {
		t.Errorf("expected negative outstanding issue, got %v", res.Issues)
	}
}

func TestRun_FutureDatedRecords(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 100, Timestamp: daysAgo(-5)},
		},
		Repayments: []ledger.Repayment{
			{User: "alice", Amount: 50, Timestamp: daysAgo(-2)},
		},
		Verifications: []ledger.Verification{verified("alice")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckFutureDated}, "")

	res := findResult(t, report, "alice")
	if !hasFinding(res.Issues, "Future-dated transaction") {
		t.Errorf("expected future-dated transaction issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Future-dated repayment") {
		t.Errorf("expected future-dated repayment issue, got %v", res.Issues)
	}
}

func TestRun_VelocityAndInactiveWarnings(t *testing.T) {
	var fast []ledger.Purchase
	for i := 0; i < 11; i++ {
		fast = append(fast, ledger.Purchase{User: "rapid", Amount: 10, Timestamp: daysAgo(i % 6)})
	}
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("rapid", 1000), user("dormant", 1000)},
		Purchases: append(fast,
			ledger.Purchase{User: "dormant", Amount: 10, Timestamp: daysAgo(120)},
		),
		Verifications: []ledger.Verification{verified("rapid"), verified("dormant")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckVelocity, CheckInactive}, "")

	rapid := findResult(t, report, "rapid")
	if !hasFinding(rapid.Warnings, "High transaction velocity: 11 in 7 days") {
		t.Errorf("expected velocity warning, got %v", rapid.Warnings)
	}

	dormant := findResult(t, report, "dormant")
	if !hasFinding(dormant.Warnings, "Inactive user") {
		t.Errorf("expected inactive warning, got %v", dormant.Warnings)
	}
	if len(rapid.Warnings) != 1 {
		t.Errorf("rapid user should not be inactive, got %v", rapid.Warnings)
	}
}

func TestRun_LargePurchaseChecks(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 600, Timestamp: daysAgo(5)},
			{User: "alice", Amount: 950, Timestamp: daysAgo(4)}, // also >90% of limit
		},
	}
	report := NewRunnerAt(snap, testNow).Run(
		[]Check{CheckLargePurchase, CheckMultipleLargePurchases, CheckHighRelativeTransaction}, "")

	res := findResult(t, report, "alice")
	large := 0
	for _, issue := range res.Issues {
		if strings.Contains(issue, "Large purchase without income verification") {
			large++
		}
	}
	if large != 2 {
		t.Errorf("expected 2 large-purchase issues, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Multiple large purchases without income verification: 2") {
		t.Errorf("expected multiple-large-purchases issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "High relative transaction") {
		t.Errorf("expected high-relative issue, got %v", res.Issues)
	}
}

func TestRun_CreditLimitAndHighUtilization(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("broke", 0), user("maxed", 1000)},
		Purchases: []ledger.Purchase{
			{User: "maxed", Amount: 900, Timestamp: daysAgo(5)},
		},
		Verifications: []ledger.Verification{verified("maxed"), verified("broke")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckCreditLimit, CheckHighUtilization}, "")

	broke := findResult(t, report, "broke")
	if !hasFinding(broke.Issues, "Non-positive credit limit") {
		t.Errorf("expected credit limit issue, got %v", broke.Issues)
	}

	maxed := findResult(t, report, "maxed")
	if !hasFinding(maxed.Warnings, "High utilization: 0.90") {
		t.Errorf("expected high utilization warning, got %v", maxed.Warnings)
	}
}

func TestRun_LowScoreAndComplianceIssues(t *testing.T) {
	// Defaulted, unverified and maxed out: both scores fall below 30 and
	// compliance reports the large-purchase rule.
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 1000, Timestamp: daysAgo(70)},
		},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckLowRiskScore, CheckCompliance}, "")

	res := findResult(t, report, "alice")
	if !hasFinding(res.Issues, "Low risk score in champion") {
		t.Errorf("expected low champion score issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Low risk score in challenger") {
		t.Errorf("expected low challenger score issue, got %v", res.Issues)
	}
	if !hasFinding(res.Issues, "Non-compliance: Income Not Verified for Large Purchase") {
		t.Errorf("expected compliance issue, got %v", res.Issues)
	}
}

func TestRun_UserFilter(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000), user("bob", 1000)},
		Verifications: []ledger.Verification{
			verified("alice"), verified("bob"),
		},
	}
	report := NewRunnerAt(snap, testNow).Run(AllChecks(), "bob")

	if report.Summary.TotalUsers != 1 {
		t.Errorf("expected 1 user with filter, got %d", report.Summary.TotalUsers)
	}
	if report.Results[0].Name != "bob" {
		t.Errorf("expected bob, got %q", report.Results[0].Name)
	}

	// A filter matching nobody yields an empty report, not an error.
	empty := NewRunnerAt(snap, testNow).Run(AllChecks(), "ghost")
	if empty.Summary.TotalUsers != 0 || len(empty.Results) != 0 {
		t.Errorf("expected empty report for unknown user, got %+v", empty.Summary)
	}
}

func TestRun_SummaryAggregation(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{
			user("clean", 1000),
			user("bad", 0), // credit limit issue
		},
		Purchases: []ledger.Purchase{
			{User: "clean", Amount: 50, Timestamp: daysAgo(5)},
			{User: "bad", Amount: 50, Timestamp: daysAgo(120)}, // inactive warning
		},
		Verifications: []ledger.Verification{verified("clean"), verified("bad")},
	}
	report := NewRunnerAt(snap, testNow).Run([]Check{CheckCreditLimit, CheckInactive}, "")

	s := report.Summary
	if s.TotalUsers != 2 {
		t.Errorf("expected 2 total users, got %d", s.TotalUsers)
	}
	if s.UsersWithIssues != 1 {
		t.Errorf("expected 1 user with issues, got %d", s.UsersWithIssues)
	}
	if s.UsersWithWarnings != 1 {
		t.Errorf("expected 1 user with warnings, got %d", s.UsersWithWarnings)
	}
	if s.Issues != 1 || s.Warnings != 1 {
		t.Errorf("expected 1 issue and 1 warning, got %d/%d", s.Issues, s.Warnings)
	}
}

func TestRun_Idempotent(t *testing.T) {
	snap := &ledger.Snapshot{
		Users: []ledger.User{user("alice", 1000)},
		Purchases: []ledger.Purchase{
			{User: "alice", Amount: 100, Timestamp: daysAgo(80)},
			{User: "alice", Amount: 100, Timestamp: daysAgo(65)},
		},
		Repayments: []ledger.Repayment{
			{User: "alice", Amount: 150, Timestamp: daysAgo(70)},
		},
	}

	runner := NewRunnerAt(snap, testNow)
	first := runner.Run(AllChecks(), "")
	second := runner.Run(AllChecks(), "")

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical reports over an unchanged snapshot")
	}
}

func TestRun_ScoresAndComplianceAlwaysPresent(t *testing.T) {
	snap := &ledger.Snapshot{
		Users:         []ledger.User{user("alice", 1000)},
		Verifications: []ledger.Verification{verified("alice")},
	}
	// No checks selected at all.
	report := NewRunnerAt(snap, testNow).Run(nil, "")

	res := findResult(t, report, "alice")
	if res.Scores.Champion != 100 {
		t.Errorf("expected champion score present, got %v", res.Scores)
	}
	if res.Compliance != "Compliant" {
		t.Errorf("expected compliance present, got %q", res.Compliance)
	}
}
