package analyzer

import (
	"math"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/stats"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Trend fits a linear regression of value against sample index and
// classifies the direction. A slope whose total change across the window is
// smaller than one baseline stddev counts as stable. When a season lag is
// configured and the autocorrelation at that lag exceeds the seasonal
// threshold, the series is classified seasonal regardless of slope.
func Trend(series models.MetricSeries, cfg Config) (models.TrendResult, error) {
	const op = "analyzer.Trend"
	cfg = cfg.withDefaults()

	if len(series.Samples) < 3 {
		return models.TrendResult{}, utils.Ef(utils.KindInsufficientData, op,
			"series %s: %d samples, trend needs at least 3", series.Name, len(series.Samples))
	}

	values := series.Values()
	slope, _, r := stats.LinearRegression(values)
	stddev := stats.StdDev(values)

	if cfg.SeasonLag > 0 {
		if ac := stats.Autocorrelation(values, cfg.SeasonLag); ac > cfg.SeasonalThreshold {
			return models.TrendResult{
				SeriesName: series.Name,
				Direction:  models.TrendSeasonal,
				Slope:      slope,
				Confidence: ac,
			}, nil
		}
	}

	result := models.TrendResult{SeriesName: series.Name, Slope: slope}
	totalChange := math.Abs(slope * float64(len(values)-1))
	switch {
	case totalChange < stddev || slope == 0:
		result.Direction = models.TrendStable
		result.Confidence = 1 - math.Abs(r)
	case slope > 0:
		result.Direction = models.TrendIncreasing
		result.Confidence = math.Abs(r)
	default:
		result.Direction = models.TrendDecreasing
		result.Confidence = math.Abs(r)
	}
	return result, nil
}
