package fairalpha

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricCalibrationsTotal      = "fairalpha_calibrations_total"
	MetricEvaluationsPerRun      = "fairalpha_evaluations_per_calibration"
	MetricAchievedTargetDistance = "fairalpha_achieved_target_distance"
)

// Outcome labels.
const (
	OutcomeConverged  = "converged"
	OutcomeBestEffort = "best_effort"
)

// Metrics records calibration runs. All operations are thread-safe.
type Metrics struct {
	calibrations *prometheus.CounterVec
	evaluations  *prometheus.HistogramVec
	distance     *prometheus.HistogramVec
}

// NewMetrics creates the collectors. They are not registered; call Register.
func NewMetrics() *Metrics {
	return &Metrics{
		calibrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCalibrationsTotal,
				Help: "Total number of alpha calibrations by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		evaluations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricEvaluationsPerRun,
				Help:    "Evaluator calls made by a single calibration",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 501, 1000, 2000},
			},
			[]string{"strategy"},
		),
		distance: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricAchievedTargetDistance,
				Help:    "Absolute distance between achieved failure probability and target",
				Buckets: []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.05, 0.1, 0.5},
			},
			[]string{"strategy"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.calibrations,
		m.evaluations,
		m.distance,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one result.
func (m *Metrics) Observe(res Result) {
	outcome := OutcomeBestEffort
	if res.Converged {
		outcome = OutcomeConverged
	}
	m.calibrations.WithLabelValues(res.Strategy, outcome).Inc()
	m.evaluations.WithLabelValues(res.Strategy).Observe(float64(res.Evaluations))
	if !math.IsNaN(res.Distance) {
		m.distance.WithLabelValues(res.Strategy).Observe(res.Distance)
	}
}
