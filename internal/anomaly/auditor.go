package anomaly

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/tessfin/paylater/internal/ledger"
)

// Auditor re-runs the full validation report on a cron schedule, logging
// the summary and refreshing the last-run gauges. It takes its schedule
// and check selection as explicit configuration.
type Auditor struct {
	ledger   *ledger.Ledger
	logger   *slog.Logger
	schedule string
	checks   []Check
	cron     *cron.Cron
}

// NewAuditor creates an auditor. An empty check selection means all
// checks. The schedule uses standard cron syntax (e.g. "0 2 * * *").
func NewAuditor(l *ledger.Ledger, schedule string, checks []Check, logger *slog.Logger) *Auditor {
	if len(checks) == 0 {
		checks = AllChecks()
	}
	return &Auditor{
		ledger:   l,
		logger:   logger,
		schedule: schedule,
		checks:   checks,
	}
}

// Start schedules the sweep. Returns an error for an invalid schedule.
func (a *Auditor) Start() error {
	a.cron = cron.New()
	if _, err := a.cron.AddFunc(a.schedule, a.sweep); err != nil {
		return err
	}
	a.cron.Start()
	a.logger.Info("audit sweep scheduled", "schedule", a.schedule, "checks", len(a.checks))
	return nil
}

// Stop cancels future sweeps and waits for a running one to finish.
func (a *Auditor) Stop() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
}

// Sweep runs one validation pass immediately. The cron trigger calls
// this; it is exported so operators can force a pass.
func (a *Auditor) Sweep(ctx context.Context) (*Report, error) {
	snap, err := a.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := NewRunner(snap).Run(a.checks, "")
	a.logger.Info("audit sweep complete",
		"total_users", report.Summary.TotalUsers,
		"users_with_issues", report.Summary.UsersWithIssues,
		"users_with_warnings", report.Summary.UsersWithWarnings,
		"issues", report.Summary.Issues,
		"warnings", report.Summary.Warnings,
	)
	return report, nil
}

func (a *Auditor) sweep() {
	if _, err := a.Sweep(context.Background()); err != nil {
		a.logger.Error("audit sweep failed", "error", err)
	}
}
