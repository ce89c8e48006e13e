// Package metrics instruments the engine itself. The CLI makes no network
// calls, so instead of serving an HTTP endpoint the gathered families can be
// dumped to a file in text exposition format at the end of a run.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	// OutcomeSuccess labels completed analyses.
	OutcomeSuccess = "success"
	// OutcomeError labels failed analyses.
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_slo",
			Name:      "analyses_total",
			Help:      "Total number of analyses executed, partitioned by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mirador_slo",
			Name:      "analysis_seconds",
			Help:      "Analysis latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"kind"},
	)

	seriesAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mirador_slo",
			Name:      "series_analyzed_total",
			Help:      "Total number of metric series processed.",
		},
	)
)

// Register attaches the engine collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		seriesAnalyzed,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records one analysis run of the given kind.
func ObserveAnalysis(kind string, duration time.Duration, outcome string) {
	if outcome != OutcomeError {
		outcome = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(kind, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// AddSeriesAnalyzed bumps the processed-series counter.
func AddSeriesAnalyzed(n int) {
	seriesAnalyzed.Add(float64(n))
}

// WriteSnapshot dumps every gathered metric family to w in text exposition
// format.
func WriteSnapshot(gatherer prometheus.Gatherer, w io.Writer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
