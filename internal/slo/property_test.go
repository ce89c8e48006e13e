package slo

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Budget arithmetic must stay inside its documented bounds for any mix of
// passing and failing samples.
func TestCalculateBudgetBounds(t *testing.T) {
	window, err := utils.ParseWindow("30d")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 200).Draw(t, "samples")
		target := rapid.Float64Range(50, 99.99).Draw(t, "target")

		start := time.Now().Add(-time.Duration(n) * time.Minute)
		samples := make([]models.MetricSample, n)
		failures := 0
		for i := range samples {
			value := 200.0
			if rapid.Bool().Draw(t, "failing") {
				value = 500.0
				failures++
			}
			samples[i] = models.MetricSample{Timestamp: start.Add(time.Duration(i) * time.Minute), Value: value}
		}
		series := models.MetricSeries{Name: "http_requests_total", Samples: samples}
		def := models.SLODefinition{SLIType: models.SLIAvailability, TargetPercent: target, Window: window}

		report, err := Calculate(series, def, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.SLIValue < 0 || report.SLIValue > 100 {
			t.Fatalf("SLI out of range: %f", report.SLIValue)
		}
		if report.BudgetRemainingPct < 0 || report.BudgetRemainingPct > 100 {
			t.Fatalf("remaining budget out of range: %f", report.BudgetRemainingPct)
		}
		if report.SuccessfulSamples+failures != n {
			t.Fatalf("sample accounting broken: %d successful + %d failing != %d", report.SuccessfulSamples, failures, n)
		}
		if report.BudgetConsumed != float64(failures) {
			t.Fatalf("expected consumed budget %d, got %f", failures, report.BudgetConsumed)
		}
		for lookback, rate := range report.BurnRates {
			if rate < 0 {
				t.Fatalf("negative burn rate over %s: %f", lookback, rate)
			}
		}
	})
}

// A strictly worse series can never report more remaining budget.
func TestCalculateBudgetMonotonic(t *testing.T) {
	window, err := utils.ParseWindow("7d")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	def := models.SLODefinition{SLIType: models.SLIAvailability, TargetPercent: 99.0, Window: window}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(10, 100).Draw(t, "samples")
		failures := rapid.IntRange(0, n-1).Draw(t, "failures")

		remaining := func(failing int) float64 {
			start := time.Now().Add(-time.Duration(n) * time.Minute)
			samples := make([]models.MetricSample, n)
			for i := range samples {
				value := 200.0
				if i < failing {
					value = 500.0
				}
				samples[i] = models.MetricSample{Timestamp: start.Add(time.Duration(i) * time.Minute), Value: value}
			}
			report, cerr := Calculate(models.MetricSeries{Name: "m", Samples: samples}, def, Options{})
			if cerr != nil {
				t.Fatalf("unexpected error: %v", cerr)
			}
			return report.BudgetRemainingPct
		}

		if remaining(failures+1) > remaining(failures) {
			t.Fatalf("remaining budget increased when an extra sample failed")
		}
	})
}

// Turning a passing sample into a failure can lower no window's burn rate.
func TestCalculateBurnRateMonotonic(t *testing.T) {
	window, err := utils.ParseWindow("30d")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	def := models.SLODefinition{SLIType: models.SLIAvailability, TargetPercent: 99.9, Window: window}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(10, 120).Draw(t, "samples")
		failures := rapid.IntRange(0, n-1).Draw(t, "failures")
		start := time.Now().Truncate(time.Minute).Add(-time.Duration(n) * time.Minute)

		burns := func(failing int) map[string]float64 {
			samples := make([]models.MetricSample, n)
			for i := range samples {
				value := 200.0
				if i >= n-failing {
					value = 500.0
				}
				samples[i] = models.MetricSample{Timestamp: start.Add(time.Duration(i) * time.Minute), Value: value}
			}
			report, cerr := Calculate(models.MetricSeries{Name: "m", Samples: samples}, def, Options{})
			if cerr != nil {
				t.Fatalf("unexpected error: %v", cerr)
			}
			return report.BurnRates
		}

		before := burns(failures)
		after := burns(failures + 1)
		for lookback, rate := range before {
			if after[lookback] < rate {
				t.Fatalf("burn rate over %s dropped from %f to %f when an extra sample failed", lookback, rate, after[lookback])
			}
		}
	})
}
