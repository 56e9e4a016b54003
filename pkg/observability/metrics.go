package observability

import (
	"context"

	"github.com/aretw0/dtm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run outcomes, step counts and durations.
type Metrics struct {
	runs     *prometheus.CounterVec
	steps    *prometheus.HistogramVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dtm_runs_total",
				Help: "Total number of finished machine runs",
			},
			[]string{"program", "mode", "reason"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dtm_run_steps",
				Help:    "Transitions fired per run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"program", "mode"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dtm_run_duration_seconds",
				Help: "Wall time of machine runs",
			},
			[]string{"program", "mode"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dtm_runs_in_flight",
				Help: "Runs currently executing",
			},
			[]string{"program"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.steps, m.duration, m.inFlight)
	}
	return m
}

// Hooks returns lifecycle hooks that record runs of the named program.
func (m *Metrics) Hooks(program string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.inFlight.WithLabelValues(program).Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			mode := string(e.Mode)
			m.inFlight.WithLabelValues(program).Dec()
			m.runs.WithLabelValues(program, mode, string(e.Reason)).Inc()
			m.steps.WithLabelValues(program, mode).Observe(float64(e.Steps))
			m.duration.WithLabelValues(program, mode).Observe(e.Duration.Seconds())
		},
	}
}
