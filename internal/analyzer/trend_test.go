package analyzer

import (
	"math"
	"testing"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

func TestTrendIncreasing(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 10 + 0.5*float64(i)
	}
	series := mkSeries("memory_bytes", values...)

	result, err := Trend(series, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != models.TrendIncreasing {
		t.Fatalf("expected increasing, got %s", result.Direction)
	}
	if math.Abs(result.Slope-0.5) > 1e-9 {
		t.Fatalf("expected slope 0.5, got %f", result.Slope)
	}
	if result.Confidence < 0.99 {
		t.Fatalf("expected near-perfect confidence on a noiseless ramp, got %f", result.Confidence)
	}
}

func TestTrendDecreasing(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 1000 - 3*float64(i)
	}
	result, err := Trend(mkSeries("free_disk", values...), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != models.TrendDecreasing {
		t.Fatalf("expected decreasing, got %s", result.Direction)
	}
}

func TestTrendStableNoise(t *testing.T) {
	// Alternating noise with no drift: total change across the window stays
	// under one stddev.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i%2)*4 - 2
	}
	result, err := Trend(mkSeries("cpu_ratio", values...), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != models.TrendStable {
		t.Fatalf("expected stable, got %s with slope %f", result.Direction, result.Slope)
	}
}

func TestTrendSeasonalOverridesSlope(t *testing.T) {
	// A sine wave with a slight upward drift: strong autocorrelation at the
	// season lag wins over the regression slope.
	values := make([]float64, 96)
	for i := range values {
		values[i] = 100 + 20*math.Sin(2*math.Pi*float64(i)/24) + 0.01*float64(i)
	}
	result, err := Trend(mkSeries("traffic", values...), Config{SeasonLag: 24})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction != models.TrendSeasonal {
		t.Fatalf("expected seasonal, got %s", result.Direction)
	}
	if result.Confidence <= 0.6 {
		t.Fatalf("expected confidence above the seasonal threshold, got %f", result.Confidence)
	}
}

func TestTrendNoSeasonLagConfigured(t *testing.T) {
	values := make([]float64, 48)
	for i := range values {
		values[i] = 100 + 20*math.Sin(2*math.Pi*float64(i)/24)
	}
	result, err := Trend(mkSeries("traffic", values...), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Direction == models.TrendSeasonal {
		t.Fatalf("seasonality must not be reported without a configured lag")
	}
}

func TestTrendTooFewSamples(t *testing.T) {
	_, err := Trend(mkSeries("sparse", 1, 2), Config{})
	if utils.KindOf(err) != utils.KindInsufficientData {
		t.Fatalf("expected insufficient_data, got %v", err)
	}
}
