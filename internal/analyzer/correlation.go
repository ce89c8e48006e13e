package analyzer

import (
	"math"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/stats"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Correlate computes the pairwise Pearson correlation of two series.
//
// Alignment policy: strict join. Both series must carry identical timestamp
// vectors; anything else is rejected as an input error instead of being
// silently resampled. Zero variance in either series yields an undefined
// (NaN) coefficient, which is a result, not an error.
func Correlate(a, b models.MetricSeries) (models.CorrelationResult, error) {
	const op = "analyzer.Correlate"

	if len(a.Samples) == 0 || len(b.Samples) == 0 {
		return models.CorrelationResult{}, utils.E(utils.KindInsufficientData, op, "correlation requires two non-empty series")
	}
	if len(a.Samples) != len(b.Samples) {
		return models.CorrelationResult{}, utils.Ef(utils.KindInput, op,
			"series %s (%d samples) and %s (%d samples) are not aligned",
			a.Name, len(a.Samples), b.Name, len(b.Samples))
	}
	for i := range a.Samples {
		if !a.Samples[i].Timestamp.Equal(b.Samples[i].Timestamp) {
			return models.CorrelationResult{}, utils.Ef(utils.KindInput, op,
				"series %s and %s diverge at sample %d (%s vs %s)",
				a.Name, b.Name, i,
				a.Samples[i].Timestamp.Format("2006-01-02T15:04:05Z07:00"),
				b.Samples[i].Timestamp.Format("2006-01-02T15:04:05Z07:00"))
		}
	}

	coefficient := stats.Pearson(a.Values(), b.Values())
	return models.CorrelationResult{
		SeriesA:     a.Name,
		SeriesB:     b.Name,
		Coefficient: coefficient,
		Defined:     !math.IsNaN(coefficient),
	}, nil
}
