package analyzer

import (
	"math"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/stats"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// DetectZScore flags samples whose absolute z-score against the baseline
// exceeds the configured threshold. A zero baseline stddev flags nothing:
// a flat series has no outliers, and dividing by zero would invent them.
func DetectZScore(series models.MetricSeries, cfg Config) ([]models.AnomalyRecord, error) {
	const op = "analyzer.DetectZScore"
	cfg = cfg.withDefaults()

	if len(series.Samples) == 0 {
		return nil, utils.Ef(utils.KindInsufficientData, op, "series %s is empty", series.Name)
	}

	values := series.Values()
	var records []models.AnomalyRecord

	if cfg.BaselineWindow <= 0 {
		mean := stats.Mean(values)
		stddev := stats.StdDev(values)
		if stddev == 0 {
			return nil, nil
		}
		for i, sample := range series.Samples {
			score := math.Abs(values[i]-mean) / stddev
			if score > cfg.ZScoreThreshold {
				records = append(records, zscoreRecord(series.Name, sample, mean, stddev, score))
			}
		}
		return records, nil
	}

	// Rolling baseline: each sample is scored against the trailing window
	// that precedes it, so the sample under test never shifts its own
	// baseline.
	for i, sample := range series.Samples {
		start := i - cfg.BaselineWindow
		if start < 0 {
			start = 0
		}
		baseline := values[start:i]
		if len(baseline) < 2 {
			continue
		}
		mean := stats.Mean(baseline)
		stddev := stats.StdDev(baseline)
		if stddev == 0 {
			continue
		}
		score := math.Abs(sample.Value-mean) / stddev
		if score > cfg.ZScoreThreshold {
			records = append(records, zscoreRecord(series.Name, sample, mean, stddev, score))
		}
	}
	return records, nil
}

func zscoreRecord(name string, sample models.MetricSample, mean, stddev, score float64) models.AnomalyRecord {
	return models.AnomalyRecord{
		SeriesName:     name,
		Timestamp:      sample.Timestamp,
		Observed:       sample.Value,
		BaselineMean:   mean,
		BaselineStddev: stddev,
		Score:          score,
		Method:         models.MethodZScore,
	}
}

// DetectIQR flags samples outside the Tukey fences
// [Q1 - k*IQR, Q3 + k*IQR]. Quartiles use the same nearest-rank percentile
// as the rest of the engine. Runs independently of DetectZScore; a sample
// flagged by both methods is reported once per method.
func DetectIQR(series models.MetricSeries, cfg Config) ([]models.AnomalyRecord, error) {
	const op = "analyzer.DetectIQR"
	cfg = cfg.withDefaults()

	if len(series.Samples) == 0 {
		return nil, utils.Ef(utils.KindInsufficientData, op, "series %s is empty", series.Name)
	}

	values := series.Values()
	q1, q3 := stats.Quartiles(values)
	iqr := q3 - q1
	lower := q1 - cfg.IQRFactor*iqr
	upper := q3 + cfg.IQRFactor*iqr
	mean := stats.Mean(values)
	stddev := stats.StdDev(values)

	var records []models.AnomalyRecord
	for i, sample := range series.Samples {
		v := values[i]
		if v >= lower && v <= upper {
			continue
		}
		distance := lower - v
		if v > upper {
			distance = v - upper
		}
		score := distance
		if iqr > 0 {
			score = distance / iqr
		}
		records = append(records, models.AnomalyRecord{
			SeriesName:     series.Name,
			Timestamp:      sample.Timestamp,
			Observed:       v,
			BaselineMean:   mean,
			BaselineStddev: stddev,
			Score:          score,
			Method:         models.MethodIQR,
		})
	}
	return records, nil
}
