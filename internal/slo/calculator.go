// Package slo derives service-level indicators, error budgets and
// multi-window burn rates from a metric series and an objective definition.
// Calculation is a pure function of its inputs.
package slo

import (
	"time"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/stats"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// DefaultMinSamples is the smallest window population the calculator accepts.
const DefaultMinSamples = 2

// Options tune how samples are classified.
type Options struct {
	// SuccessFn decides whether an availability sample counts as good.
	// Defaults to treating the value as an HTTP status code below 400.
	SuccessFn func(models.MetricSample) bool
	// LatencyThreshold is the target latency for the latency SLI, in the
	// same unit as the sample values.
	LatencyThreshold float64
	// ThroughputMin is the minimum acceptable rate for the throughput SLI.
	ThroughputMin float64
	// MinSamples overrides DefaultMinSamples when positive.
	MinSamples int
}

func defaultSuccessFn(s models.MetricSample) bool {
	return s.Value < 400
}

// Calculate produces an ErrorBudgetReport for the series under the given
// objective.
func Calculate(series models.MetricSeries, def models.SLODefinition, opts Options) (models.ErrorBudgetReport, error) {
	const op = "slo.Calculate"

	if !def.SLIType.Valid() {
		return models.ErrorBudgetReport{}, utils.Ef(utils.KindConfiguration, op, "unsupported SLI type %q", def.SLIType)
	}
	if def.TargetPercent <= 0 || def.TargetPercent >= 100 {
		return models.ErrorBudgetReport{}, utils.Ef(utils.KindConfiguration, op, "target %.4f%% must be strictly between 0 and 100", def.TargetPercent)
	}
	if !def.WindowSupported() {
		return models.ErrorBudgetReport{}, utils.Ef(utils.KindConfiguration, op, "window %s is not in the supported set %v", def.Window, models.SupportedSLOWindows)
	}
	for i := 1; i < len(series.Samples); i++ {
		if !series.Samples[i].Timestamp.After(series.Samples[i-1].Timestamp) {
			return models.ErrorBudgetReport{}, utils.Ef(utils.KindInput, op, "series %s: non-monotonic timestamp at sample %d", series.Name, i)
		}
	}

	success, err := classifier(def.SLIType, opts)
	if err != nil {
		return models.ErrorBudgetReport{}, err
	}

	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}

	end := series.End()
	window := series.Since(end.Add(-time.Duration(def.Window)))
	if len(window) < minSamples {
		return models.ErrorBudgetReport{}, utils.Ef(utils.KindInsufficientData, op,
			"series %s: %d samples in window %s, need at least %d", series.Name, len(window), def.Window, minSamples)
	}

	successful := 0
	for _, sample := range window {
		if success(sample) {
			successful++
		}
	}
	total := len(window)
	violating := total - successful

	allowed := def.AllowedErrorRate()
	budgetTotal := allowed * float64(total)
	budgetConsumed := float64(violating)
	remaining := (budgetTotal - budgetConsumed) / budgetTotal * 100
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 100 {
		remaining = 100
	}

	report := models.ErrorBudgetReport{
		Metric:             series.Name,
		SLIType:            def.SLIType,
		TargetPercent:      def.TargetPercent,
		Window:             def.Window,
		SLIValue:           float64(successful) / float64(total) * 100,
		TotalSamples:       total,
		SuccessfulSamples:  successful,
		BudgetTotal:        budgetTotal,
		BudgetConsumed:     budgetConsumed,
		BudgetRemainingPct: remaining,
		BurnRates:          burnRates(window, end, allowed, success),
	}

	if def.SLIType == models.SLILatency {
		values := make([]float64, len(window))
		for i, s := range window {
			values[i] = s.Value
		}
		report.Percentiles = map[string]float64{
			"p50": stats.Percentile(values, 50),
			"p95": stats.Percentile(values, 95),
			"p99": stats.Percentile(values, 99),
		}
	}

	report.Recommendation = recommend(report)
	return report, nil
}

func classifier(sliType models.SLIType, opts Options) (func(models.MetricSample) bool, error) {
	const op = "slo.Calculate"
	switch sliType {
	case models.SLIAvailability:
		if opts.SuccessFn != nil {
			return opts.SuccessFn, nil
		}
		return defaultSuccessFn, nil
	case models.SLILatency:
		if opts.LatencyThreshold <= 0 {
			return nil, utils.E(utils.KindConfiguration, op, "latency SLI requires a positive latency threshold")
		}
		return func(s models.MetricSample) bool { return s.Value <= opts.LatencyThreshold }, nil
	case models.SLIThroughput:
		if opts.ThroughputMin <= 0 {
			return nil, utils.E(utils.KindConfiguration, op, "throughput SLI requires a positive minimum rate")
		}
		return func(s models.MetricSample) bool { return s.Value >= opts.ThroughputMin }, nil
	}
	return nil, utils.Ef(utils.KindConfiguration, op, "unsupported SLI type %q", sliType)
}

// burnRates computes the observed-vs-allowed error rate ratio over each
// lookback in the fixed ladder. Lookbacks with no samples are omitted: an
// empty window is unknown, not healthy.
func burnRates(window []models.MetricSample, end time.Time, allowed float64, success func(models.MetricSample) bool) map[string]float64 {
	rates := make(map[string]float64, len(models.BurnRateLadder))
	for _, lookback := range models.BurnRateLadder {
		start := end.Add(-time.Duration(lookback))
		total, violating := 0, 0
		for _, sample := range window {
			if sample.Timestamp.Before(start) {
				continue
			}
			total++
			if !success(sample) {
				violating++
			}
		}
		if total == 0 {
			continue
		}
		rates[lookback.String()] = float64(violating) / float64(total) / allowed
	}
	return rates
}
