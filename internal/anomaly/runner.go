package anomaly

import (
	"time"

	"github.com/tessfin/paylater/internal/compliance"
	"github.com/tessfin/paylater/internal/ledger"
	"github.com/tessfin/paylater/internal/risk"
)

// Runner evaluates checks over one snapshot at a fixed time. Runs over
// an unchanged snapshot are idempotent.
type Runner struct {
	snap   *ledger.Snapshot
	engine *risk.Engine
}

// NewRunner creates a runner evaluating at the current time.
func NewRunner(snap *ledger.Snapshot) *Runner {
	return NewRunnerAt(snap, time.Now())
}

// NewRunnerAt creates a runner evaluating at the given time.
func NewRunnerAt(snap *ledger.Snapshot, now time.Time) *Runner {
	return &Runner{snap: snap, engine: risk.NewEngineAt(snap, now)}
}

// Run executes the selected checks against every user (or only the named
// user when userFilter is non-empty) and assembles the report. Scores and
// compliance are reported for every user regardless of which checks ran.
func (r *Runner) Run(checks []Check, userFilter string) *Report {
	done := observeRun()
	defer done()

	var results []Result
	for _, user := range r.snap.Users {
		if userFilter != "" && user.Name != userFilter {
			continue
		}

		res := Result{
			Name:     user.Name,
			Issues:   []string{},
			Warnings: []string{},
		}
		for _, check := range checks {
			dispatch[check](r, user, &res)
			ChecksRunTotal.WithLabelValues(string(check)).Inc()
		}
		res.Scores = r.engine.Scores(user.Name)
		res.Compliance = string(compliance.Check(r.snap, user.Name, r.engine.Now()))
		results = append(results, res)
	}

	report := &Report{Results: results}
	for _, res := range results {
		report.Summary.TotalUsers++
		report.Summary.Issues += len(res.Issues)
		report.Summary.Warnings += len(res.Warnings)
		if len(res.Issues) > 0 {
			report.Summary.UsersWithIssues++
		}
		if len(res.Warnings) > 0 {
			report.Summary.UsersWithWarnings++
		}
	}

	observeSummary(report.Summary)
	return report
}
