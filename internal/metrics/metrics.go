// Package metrics exposes front desk counters and gauges to prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors recorded by the services.
type Metrics struct {
	transitions *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
	cancelled   *prometheus.CounterVec
	interrupts  prometheus.Counter
	derived     *prometheus.CounterVec
	buckets     *prometheus.GaugeVec
	passes      prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Passing a fresh prometheus.Registry
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_outcome_transitions_total",
			Help: "Persisted outcome transitions by resulting outcome",
		}, []string{"outcome"}),
		storeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_store_errors_total",
			Help: "Failed store operations",
		}, []string{"operation"}),
		cancelled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_decisions_cancelled_total",
			Help: "Popups closed without a change",
		}, []string{"target"}),
		interrupts: f.NewCounter(prometheus.CounterOpts{
			Name: "desk_call_interrupts_total",
			Help: "Upcoming-call reminders shown",
		}),
		derived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_derived_entries_total",
			Help: "Saved duplicates and reschedules",
		}, []string{"variant"}),
		buckets: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "desk_task_bucket_size",
			Help: "Entries in each task bucket at the last refresh",
		}, []string{"bucket"}),
		passes: f.NewGauge(prometheus.GaugeOpts{
			Name: "desk_pass_followups_pending",
			Help: "Trial passes waiting for a follow-up",
		}),
		gatherer: reg,
	}
}

// Nop returns metrics bound to a private registry nobody scrapes.
func Nop() *Metrics { return New(prometheus.NewRegistry()) }

func (m *Metrics) Transition(outcome string)   { m.transitions.WithLabelValues(outcome).Inc() }
func (m *Metrics) StoreError(operation string) { m.storeErrors.WithLabelValues(operation).Inc() }
func (m *Metrics) Cancelled(target string)     { m.cancelled.WithLabelValues(target).Inc() }
func (m *Metrics) Interrupt()                  { m.interrupts.Inc() }
func (m *Metrics) Derived(variant string)      { m.derived.WithLabelValues(variant).Inc() }
func (m *Metrics) PassFollowUps(n int)         { m.passes.Set(float64(n)) }

// Buckets records the size of each task bucket.
func (m *Metrics) Buckets(confirmations, calls, absentees int) {
	m.buckets.WithLabelValues("confirmation").Set(float64(confirmations))
	m.buckets.WithLabelValues("calls").Set(float64(calls))
	m.buckets.WithLabelValues("absentees").Set(float64(absentees))
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
