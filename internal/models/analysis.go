package models

import (
	"encoding/json"
	"time"
)

// AnomalyMethod names the detection method that produced a record.
type AnomalyMethod string

const (
	MethodZScore AnomalyMethod = "zscore"
	MethodIQR    AnomalyMethod = "iqr"
)

// AnomalyRecord describes one outlier sample. A sample flagged by both
// methods yields one record per method.
type AnomalyRecord struct {
	SeriesName     string        `json:"series_name"`
	Timestamp      time.Time     `json:"timestamp"`
	Observed       float64       `json:"observed"`
	BaselineMean   float64       `json:"baseline_mean"`
	BaselineStddev float64       `json:"baseline_stddev"`
	Score          float64       `json:"score"`
	Method         AnomalyMethod `json:"method"`
}

// TrendDirection classifies the overall movement of a series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendSeasonal   TrendDirection = "seasonal"
)

// TrendResult summarises the linear fit (and seasonality check) of a series.
type TrendResult struct {
	SeriesName string         `json:"series_name"`
	Direction  TrendDirection `json:"direction"`
	Slope      float64        `json:"slope"`
	Confidence float64        `json:"confidence"`
}

// CorrelationResult reports the Pearson coefficient of two aligned series.
// Defined is false when either series has zero variance; the coefficient is
// NaN in that case and serialised as null.
type CorrelationResult struct {
	SeriesA     string  `json:"series_a"`
	SeriesB     string  `json:"series_b"`
	Coefficient float64 `json:"-"`
	Defined     bool    `json:"defined"`
}

// MarshalJSON emits the coefficient as null when the correlation is
// undefined, since NaN is not representable in JSON.
func (c CorrelationResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		SeriesA     string   `json:"series_a"`
		SeriesB     string   `json:"series_b"`
		Coefficient *float64 `json:"coefficient"`
		Defined     bool     `json:"defined"`
	}
	w := wire{SeriesA: c.SeriesA, SeriesB: c.SeriesB, Defined: c.Defined}
	if c.Defined {
		v := c.Coefficient
		w.Coefficient = &v
	}
	return json.Marshal(w)
}

// CardinalitySummary counts distinct label combinations per metric name.
type CardinalitySummary struct {
	SeriesName              string `json:"series_name"`
	UniqueLabelCombinations int    `json:"unique_label_combinations"`
	Flagged                 bool   `json:"flagged"`
}

// AnalysisReport aggregates analyzer output for one invocation. Only the
// collections the requested analysis produced are populated.
type AnalysisReport struct {
	Anomalies    []AnomalyRecord      `json:"anomalies,omitempty"`
	Trends       []TrendResult        `json:"trends,omitempty"`
	Correlations []CorrelationResult  `json:"correlations,omitempty"`
	Cardinality  []CardinalitySummary `json:"cardinality,omitempty"`
}
