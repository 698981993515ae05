// Package metrics exports admission counters for scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/me/edgesentry/pkg/model"
)

// Recorder publishes per-policy decision counters and load gauges. A nil
// *Recorder is valid and records nothing, so the comparator does not need
// to care whether scraping is enabled.
type Recorder struct {
	decisions *prometheus.CounterVec
	peakLoad  *prometheus.GaugeVec
	projected prometheus.Histogram
}

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgesentry_decisions_total",
				Help: "Total admission decisions, by policy and action.",
			},
			[]string{"policy", "action"},
		),
		peakLoad: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "edgesentry_peak_load_percent",
				Help: "Peak projected CPU load observed per policy in the last comparison.",
			},
			[]string{"policy"},
		),
		projected: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "edgesentry_projected_load_percent",
				Help:    "Projected load at decision time.",
				Buckets: prometheus.LinearBuckets(0, 15, 11),
			},
		),
	}
	reg.MustRegister(r.decisions, r.peakLoad, r.projected)
	return r
}

// ObserveDecision records one admission decision.
func (r *Recorder) ObserveDecision(d model.Decision) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(d.Policy, string(d.Action)).Inc()
	r.projected.Observe(d.ProjectedLoad)
}

// SetPeakLoad records the peak load a policy reached over a workload.
func (r *Recorder) SetPeakLoad(policy string, peak float64) {
	if r == nil {
		return
	}
	r.peakLoad.WithLabelValues(policy).Set(peak)
}
