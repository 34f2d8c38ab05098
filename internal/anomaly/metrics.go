package anomaly

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RunsTotal counts validation runs.
	RunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "paylater",
			Name:      "validation_runs_total",
			Help:      "Total anomaly validation runs.",
		},
	)

	// RunDuration observes validation run latency.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "paylater",
			Name:      "validation_run_duration_seconds",
			Help:      "Anomaly validation run duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	// ChecksRunTotal counts individual check executions by check name.
	ChecksRunTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paylater",
			Name:      "validation_checks_run_total",
			Help:      "Total check executions by check name.",
		},
		[]string{"check"},
	)

	// LastRunIssues tracks the issue count of the most recent run.
	LastRunIssues = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paylater",
			Name:      "validation_last_run_issues",
			Help:      "Issues found in the most recent validation run.",
		},
	)

	// LastRunWarnings tracks the warning count of the most recent run.
	LastRunWarnings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paylater",
			Name:      "validation_last_run_warnings",
			Help:      "Warnings found in the most recent validation run.",
		},
	)

	// LastRunUsersWithIssues tracks users with issues in the most recent run.
	LastRunUsersWithIssues = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paylater",
			Name:      "validation_last_run_users_with_issues",
			Help:      "Users with at least one issue in the most recent validation run.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RunsTotal,
		RunDuration,
		ChecksRunTotal,
		LastRunIssues,
		LastRunWarnings,
		LastRunUsersWithIssues,
	)
}

func observeRun() func() {
	RunsTotal.Inc()
	start := time.Now()
	return func() {
		RunDuration.Observe(time.Since(start).Seconds())
	}
}

func observeSummary(s Summary) {
	LastRunIssues.Set(float64(s.Issues))
	LastRunWarnings.Set(float64(s.Warnings))
	LastRunUsersWithIssues.Set(float64(s.UsersWithIssues))
}
