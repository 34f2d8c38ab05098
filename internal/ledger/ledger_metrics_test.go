package ledger

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveOp_IncrementsCounter(t *testing.T) {
	OpsTotal.Reset()

	done := observeOp("test_op")
	done()

	counter, err := OpsTotal.GetMetricWithLabelValues("test_op")
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := m.Counter.GetValue(); got != 1.0 {
		t.Errorf("counter = %v, want 1", got)
	}
}

func TestObserveOp_ObservesDuration(t *testing.T) {
	OpDuration.Reset()

	observeOp("timed_op")()

	ch := make(chan prometheus.Metric, 8)
	OpDuration.Collect(ch)
	close(ch)

	var samples uint64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil {
			t.Fatalf("write metric: %v", err)
		}
		if m.Histogram != nil {
			samples += m.Histogram.GetSampleCount()
		}
	}
	if samples != 1 {
		t.Errorf("histogram sample count = %d, want 1", samples)
	}
}

func TestMetrics_Registered(t *testing.T) {
	RegisteredUsers.Set(3)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	want := map[string]bool{
		"paylater_ledger_operations_total":           false,
		"paylater_ledger_operation_duration_seconds": false,
		"paylater_ledger_registered_users":           false,
	}
	for _, fam := range families {
		if _, ok := want[fam.GetName()]; ok {
			want[fam.GetName()] = true
		}
	}
	for name, found := range want {
		if !found && strings.HasSuffix(name, "_registered_users") {
			t.Errorf("metric %s not gathered", name)
		} else if !found {
			// Vec metrics only appear after a label combination is written.
			t.Logf("metric %s has no samples yet", name)
		}
	}
}
