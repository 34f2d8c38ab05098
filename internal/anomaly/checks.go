package anomaly

import (
	"fmt"
	"time"

	"github.com/tessfin/paylater/internal/compliance"
	"github.com/tessfin/paylater/internal/ledger"
)

// Check thresholds.
const (
	highVelocityWindowDays = 7
	highVelocityLimit      = 10
	inactiveWindowDays     = 90
	highUtilizationLimit   = 0.8
	lowScoreLimit          = 30
	relativeLimitFraction  = 0.9
)

// checkFunc appends findings for one user to res.
type checkFunc func(r *Runner, user ledger.User, res *Result)

var dispatch = map[Check]checkFunc{
	CheckUtilization:             checkUtilizationBounds,
	CheckOutstanding:             checkOutstandingNegative,
	CheckRiskScores:              checkRiskScoreBounds,
	CheckDefaultScore:            checkDefaultScoreMismatch,
	CheckCompliance:              checkCompliance,
	CheckOverRepayment:           checkOverRepayment,
	CheckLargePurchase:           checkLargePurchaseVerification,
	CheckVelocity:                checkVelocity,
	CheckInactive:                checkInactive,
	CheckCreditLimit:             checkCreditLimit,
	CheckSuspiciousRepayments:    checkSuspiciousRepayments,
	CheckMultipleLargePurchases:  checkMultipleLargePurchases,
	CheckFutureDated:             checkFutureDated,
	CheckHighUtilization:         checkHighUtilization,
	CheckLowRiskScore:            checkLowRiskScore,
	CheckRepaymentBeforePurchase: checkRepaymentBeforePurchase,
	CheckDuplicateTransactions:   checkDuplicateTransactions,
	CheckHighRelativeTransaction: checkHighRelativeTransaction,
}

func checkUtilizationBounds(r *Runner, user ledger.User, res *Result) {
	util := r.engine.Utilization(user.Name)
	if util < 0 || util > 1.0 {
		res.issue(fmt.Sprintf("Utilization out of bounds: %.2f", util))
	}
}

func checkOutstandingNegative(r *Runner, user ledger.User, res *Result) {
	outstanding := r.engine.Outstanding(user.Name)
	if outstanding < 0 {
		res.issue(fmt.Sprintf("Outstanding negative balance: %.2f", outstanding))
	}
}

func checkRiskScoreBounds(r *Runner, user ledger.User, res *Result) {
	scores := r.engine.Scores(user.Name)
	for _, model := range []struct {
		name  string
		score float64
	}{
		{"champion", scores.Champion},
		{"challenger", scores.Challenger},
	} {
		if model.score < 0 || model.score > 100 {
			res.issue(fmt.Sprintf("Risk score %s out of bounds: %g", model.name, model.score))
		}
	}
}

func checkDefaultScoreMismatch(r *Runner, user ledger.User, res *Result) {
	if !r.engine.InDefault(user.Name) {
		return
	}
	if champion := r.engine.Scores(user.Name).Champion; champion > 70 {
		res.warning(fmt.Sprintf("User in default but champion score high: %g", champion))
	}
}

func checkCompliance(r *Runner, user ledger.User, res *Result) {
	status := compliance.Check(r.snap, user.Name, r.engine.Now())
	if status != compliance.StatusCompliant {
		res.issue(fmt.Sprintf("Non-compliance: %s", status))
	}
}

func checkOverRepayment(r *Runner, user ledger.User, res *Result) {
	var purchased, repaid float64
	for _, p := range r.snap.UserPurchases(user.Name) {
		purchased += p.Amount
	}
	for _, rp := range r.snap.UserRepayments(user.Name) {
		repaid += rp.Amount
	}
	if repaid > purchased {
		res.issue(fmt.Sprintf("Over-repayment: repaid %g, purchased %g", repaid, purchased))
	}
}

func checkLargePurchaseVerification(r *Runner, user ledger.User, res *Result) {
	if r.snap.IncomeStatus(user.Name) == ledger.StatusVerified {
		return
	}
	for _, p := range r.snap.UserPurchases(user.Name) {
		if p.Amount > compliance.LargePurchaseThreshold || p.Amount > relativeLimitFraction*user.CreditLimit {
			res.issue(fmt.Sprintf("Large purchase without income verification: %g", p.Amount))
		}
	}
}

func checkVelocity(r *Runner, user ledger.User, res *Result) {
	count := r.engine.Velocity(user.Name, highVelocityWindowDays)
	if count > highVelocityLimit {
		res.warning(fmt.Sprintf("High transaction velocity: %d in 7 days", count))
	}
}

func checkInactive(r *Runner, user ledger.User, res *Result) {
	if r.engine.Velocity(user.Name, inactiveWindowDays) == 0 {
		res.warning("Inactive user: no transactions in last 90 days")
	}
}

func checkCreditLimit(_ *Runner, user ledger.User, res *Result) {
	if user.CreditLimit <= 0 {
		res.issue(fmt.Sprintf("Non-positive credit limit: %g", user.CreditLimit))
	}
}

func checkSuspiciousRepayments(r *Runner, user ledger.User, res *Result) {
	for _, rp := range r.snap.UserRepayments(user.Name) {
		if rp.Amount <= 0 {
			res.issue(fmt.Sprintf("Suspicious repayment: %g on %s", rp.Amount, rp.Timestamp.Format(time.RFC3339)))
		}
	}
}

func checkMultipleLargePurchases(r *Runner, user ledger.User, res *Result) {
	count := 0
	for _, p := range r.snap.UserPurchases(user.Name) {
		if p.Amount > compliance.LargePurchaseThreshold {
			count++
		}
	}
	if count > 1 && r.snap.IncomeStatus(user.Name) != ledger.StatusVerified {
		res.issue(fmt.Sprintf("Multiple large purchases without income verification: %d", count))
	}
}

func checkFutureDated(r *Runner, user ledger.User, res *Result) {
	now := r.engine.Now()
	for _, p := range r.snap.UserPurchases(user.Name) {
		if p.Timestamp.After(now) {
			res.issue(fmt.Sprintf("Future-dated transaction: %s", p.Timestamp.Format(time.RFC3339)))
		}
	}
	for _, rp := range r.snap.UserRepayments(user.Name) {
		if rp.Timestamp.After(now) {
			res.issue(fmt.Sprintf("Future-dated repayment: %s", rp.Timestamp.Format(time.RFC3339)))
		}
	}
}

func checkHighUtilization(r *Runner, user ledger.User, res *Result) {
	util := r.engine.Utilization(user.Name)
	if util > highUtilizationLimit {
		res.warning(fmt.Sprintf("High utilization: %.2f", util))
	}
}

func checkLowRiskScore(r *Runner, user ledger.User, res *Result) {
	scores := r.engine.Scores(user.Name)
	for _, model := range []struct {
		name  string
		score float64
	}{
		{"champion", scores.Champion},
		{"challenger", scores.Challenger},
	} {
		if model.score < lowScoreLimit {
			res.issue(fmt.Sprintf("Low risk score in %s: %g", model.name, model.score))
		}
	}
}

func checkRepaymentBeforePurchase(r *Runner, user ledger.User, res *Result) {
	purchases := r.snap.UserPurchases(user.Name)
	if len(purchases) == 0 {
		return
	}
	first := purchases[0].Timestamp
	for _, p := range purchases[1:] {
		if p.Timestamp.Before(first) {
			first = p.Timestamp
		}
	}
	for _, rp := range r.snap.UserRepayments(user.Name) {
		if rp.Timestamp.Before(first) {
			res.issue(fmt.Sprintf("Repayment before first purchase: %s", rp.Timestamp.Format(time.RFC3339)))
		}
	}
}

func checkDuplicateTransactions(r *Runner, user ledger.User, res *Result) {
	type txKey struct {
		amount float64
		ts     int64
	}
	counts := make(map[txKey]int)
	var order []txKey
	var samples = make(map[txKey]time.Time)

	for _, p := range r.snap.UserPurchases(user.Name) {
		key := txKey{amount: p.Amount, ts: p.Timestamp.UnixNano()}
		if counts[key] == 0 {
			order = append(order, key)
			samples[key] = p.Timestamp
		}
		counts[key]++
	}

	// One finding per distinct (amount, timestamp) pair seen twice or more.
	for _, key := range order {
		if n := counts[key]; n > 1 {
			res.issue(fmt.Sprintf("Duplicate transactions: amount %g at %s (%d times)",
				key.amount, samples[key].Format(time.RFC3339), n))
		}
	}
}

func checkHighRelativeTransaction(r *Runner, user ledger.User, res *Result) {
	if r.snap.IncomeStatus(user.Name) == ledger.StatusVerified {
		return
	}
	for _, p := range r.snap.UserPurchases(user.Name) {
		if p.Amount > relativeLimitFraction*user.CreditLimit {
			res.issue(fmt.Sprintf("High relative transaction (%g > 90%% of %g) without income verification",
				p.Amount, user.CreditLimit))
		}
	}
}
