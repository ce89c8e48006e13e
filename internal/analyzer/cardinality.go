package analyzer

import (
	"sort"

	"github.com/prometheus/common/model"

	"github.com/miradorstack/mirador-slo/internal/models"
)

// Cardinality counts the distinct label combinations per metric name and
// flags names whose count exceeds the configured ceiling. Label identity
// uses the series fingerprint, so equivalent label sets collapse regardless
// of map iteration order.
func Cardinality(series []models.MetricSeries, cfg Config) []models.CardinalitySummary {
	cfg = cfg.withDefaults()

	combos := make(map[string]map[model.Fingerprint]struct{})
	for _, s := range series {
		set, ok := combos[s.Name]
		if !ok {
			set = make(map[model.Fingerprint]struct{})
			combos[s.Name] = set
		}
		set[s.Fingerprint()] = struct{}{}
	}

	names := make([]string, 0, len(combos))
	for name := range combos {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]models.CardinalitySummary, 0, len(names))
	for _, name := range names {
		count := len(combos[name])
		summaries = append(summaries, models.CardinalitySummary{
			SeriesName:              name,
			UniqueLabelCombinations: count,
			Flagged:                 count > cfg.CardinalityCeiling,
		})
	}
	return summaries
}
