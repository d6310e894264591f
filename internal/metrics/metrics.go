// Package metrics exposes the reconciliation engine's operation counters as
// Prometheus collectors. A nil *Metrics is safe to call methods on: every
// increment is a no-op unless a caller has wired a real collector via New.
// The daemon's --metrics-addr flag serves the collected values over HTTP.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters the reconciliation engine increments as it
// pulls, pushes, merges and conflicts. Registered on a private registry so
// importing this package never contends with a host process's default
// Prometheus registry.
type Metrics struct {
	Registry  *prometheus.Registry
	Pulls     *prometheus.CounterVec
	Pushes    *prometheus.CounterVec
	Conflicts prometheus.Counter
	Merges    prometheus.Counter
	resolves  prometheus.Counter
}

// New creates a Metrics collector and registers it on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlcli_pulls_total",
			Help: "Pages pulled from the remote, by result action.",
		}, []string{"action"}),
		Pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlcli_pushes_total",
			Help: "Pages pushed to the remote, by result action.",
		}, []string{"action"}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlcli_conflicts_total",
			Help: "Pushes that landed on a conflict requiring resolution.",
		}),
		Merges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlcli_merges_total",
			Help: "Three-way merges attempted by the merge engine.",
		}),
		resolves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlcli_resolves_total",
			Help: "Conflicts resolved by an operator or the daemon's auto-resolve policy.",
		}),
	}
	reg.MustRegister(m.Pulls, m.Pushes, m.Conflicts, m.Merges, m.resolves)
	return m
}

func (m *Metrics) pull(action string) {
	if m == nil {
		return
	}
	m.Pulls.WithLabelValues(action).Inc()
}

func (m *Metrics) push(action string) {
	if m == nil {
		return
	}
	m.Pushes.WithLabelValues(action).Inc()
}

// ObservePull records the action a Pull call returned.
func (m *Metrics) ObservePull(action string) { m.pull(action) }

// ObservePush records the action a Push call returned, bumping the
// conflict counter separately when action is "conflict".
func (m *Metrics) ObservePush(action string) {
	m.push(action)
	if m == nil {
		return
	}
	if action == "conflict" {
		m.Conflicts.Inc()
	}
}

// ObserveMerge records one merge-engine invocation, clean or conflicted.
func (m *Metrics) ObserveMerge() {
	if m == nil {
		return
	}
	m.Merges.Inc()
}

// ObserveResolve records one operator or auto-resolve decision.
func (m *Metrics) ObserveResolve() {
	if m == nil {
		return
	}
	m.resolves.Inc()
}
