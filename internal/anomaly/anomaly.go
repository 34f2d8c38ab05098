// Package anomaly runs data-quality and risk checks over the user
// population and assembles the validation report.
//
// Each check is an independently selectable variant of Check. Checks
// append findings tagged as issues (hard problems) or warnings (soft
// signals); the scoring path never fails on these conditions, so this
// package is where they become visible.
package anomaly

import (
	"strings"

	"github.com/tessfin/paylater/internal/risk"
)

// Check identifies one validation check. The string values double as the
// selection names accepted by the CLI and the HTTP API.
type Check string

const (
	CheckUtilization             Check = "utilization"
	CheckOutstanding             Check = "outstanding"
	CheckRiskScores              Check = "risk_scores"
	CheckDefaultScore            Check = "default_score"
	CheckCompliance              Check = "compliance"
	CheckOverRepayment           Check = "over_repayment"
	CheckLargePurchase           Check = "large_purchase_verification"
	CheckVelocity                Check = "velocity"
	CheckInactive                Check = "inactive"
	CheckCreditLimit             Check = "credit_limit"
	CheckSuspiciousRepayments    Check = "suspicious_repayments"
	CheckMultipleLargePurchases  Check = "multiple_large_purchases"
	CheckFutureDated             Check = "future_dated"
	CheckHighUtilization         Check = "high_utilization"
	CheckLowRiskScore            Check = "low_risk_score"
	CheckRepaymentBeforePurchase Check = "repayment_before_purchase"
	CheckDuplicateTransactions   Check = "duplicate_transactions"
	CheckHighRelativeTransaction Check = "high_relative_transaction"
)

// AllChecks returns every check in its canonical run order.
func AllChecks() []Check {
	return []Check{
		CheckUtilization,
		CheckOutstanding,
		CheckRiskScores,
		CheckDefaultScore,
		CheckCompliance,
		CheckOverRepayment,
		CheckLargePurchase,
		CheckVelocity,
		CheckInactive,
		CheckCreditLimit,
		CheckSuspiciousRepayments,
		CheckMultipleLargePurchases,
		CheckFutureDated,
		CheckHighUtilization,
		CheckLowRiskScore,
		CheckRepaymentBeforePurchase,
		CheckDuplicateTransactions,
		CheckHighRelativeTransaction,
	}
}

// ParseChecks turns a comma-separated selection into checks, preserving
// canonical order and silently dropping unknown or duplicate names. An
// empty selection means all checks.
func ParseChecks(s string) []Check {
	if strings.TrimSpace(s) == "" {
		return AllChecks()
	}

	wanted := make(map[Check]bool)
	for _, part := range strings.Split(s, ",") {
		name := Check(strings.TrimSpace(part))
		if _, ok := dispatch[name]; ok {
			wanted[name] = true
		}
	}

	var checks []Check
	for _, c := range AllChecks() {
		if wanted[c] {
			checks = append(checks, c)
		}
	}
	return checks
}

// Result is the per-user outcome of a validation run.
type Result struct {
	Name       string      `json:"name"`
	Issues     []string    `json:"issues"`
	Warnings   []string    `json:"warnings"`
	Scores     risk.Scores `json:"scores"`
	Compliance string      `json:"compliance"`
}

// Summary aggregates a validation run over the whole population.
type Summary struct {
	TotalUsers        int `json:"total_users"`
	UsersWithIssues   int `json:"users_with_issues"`
	UsersWithWarnings int `json:"users_with_warnings"`
	Issues            int `json:"issues"`
	Warnings          int `json:"warnings"`
}

// Report is the full validation output.
type Report struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

func (r *Result) issue(msg string) {
	r.Issues = append(r.Issues, msg)
}

func (r *Result) warning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
