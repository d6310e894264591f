package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObservePullIncrementsByAction(t *testing.T) {
	m := New()
	m.ObservePull("created")
	m.ObservePull("created")
	m.ObservePull("unchanged")

	if got := counterValue(t, m.Pulls.WithLabelValues("created")); got != 2 {
		t.Fatalf("created count = %v, want 2", got)
	}
	if got := counterValue(t, m.Pulls.WithLabelValues("unchanged")); got != 1 {
		t.Fatalf("unchanged count = %v, want 1", got)
	}
}

func TestObservePushConflictBumpsConflictCounter(t *testing.T) {
	m := New()
	m.ObservePush("conflict")
	m.ObservePush("pushed")

	if got := counterValue(t, m.Conflicts); got != 1 {
		t.Fatalf("conflicts = %v, want 1", got)
	}
	if got := counterValue(t, m.Pushes.WithLabelValues("pushed")); got != 1 {
		t.Fatalf("pushed count = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObservePull("created")
	m.ObservePush("conflict")
	m.ObserveMerge()
	m.ObserveResolve()
}
