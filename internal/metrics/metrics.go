// Package metrics holds the Prometheus collectors for a running peaqcore
// driver: frames processed and the last-observed value of every MOV.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors for a comparison run.
type Metrics struct {
	framesProcessed *prometheus.CounterVec // comparison
	movValue        *prometheus.GaugeVec   // comparison, mov
}

// New creates and registers the collectors.
func New() *Metrics {
	return &Metrics{
		framesProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peaqcore_frames_processed_total",
				Help: "Frames run through the MOV pipeline, by comparison label.",
			},
			[]string{"comparison"},
		),
		movValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "peaqcore_mov_value",
				Help: "Last-observed value of a Model Output Variable, by comparison and MOV name.",
			},
			[]string{"comparison", "mov"},
		),
	}
}

// RecordFrame increments the frame counter for a comparison.
func (m *Metrics) RecordFrame(comparison string) {
	m.framesProcessed.WithLabelValues(comparison).Inc()
}

// RecordValues sets every MOV gauge for a comparison's final readout.
func (m *Metrics) RecordValues(comparison string, values map[string]float64) {
	for name, v := range values {
		m.movValue.WithLabelValues(comparison, name).Set(v)
	}
}
