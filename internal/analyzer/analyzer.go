// Package analyzer computes statistical baselines over metric series and
// detects anomalies, trends, correlations and label-cardinality problems.
package analyzer

// Default thresholds. The z-score and seasonality values follow the usual
// three-sigma and strong-correlation conventions; the cardinality ceiling
// matches the point where most TSDBs start to degrade.
const (
	DefaultZScoreThreshold    = 3.0
	DefaultIQRFactor          = 1.5
	DefaultSeasonalThreshold  = 0.6
	DefaultCardinalityCeiling = 10000
)

// Config tunes the analyzer. The zero value selects every default; a zero
// BaselineWindow uses the full series as the baseline.
type Config struct {
	ZScoreThreshold    float64
	BaselineWindow     int
	IQRFactor          float64
	SeasonLag          int
	SeasonalThreshold  float64
	CardinalityCeiling int
}

func (c Config) withDefaults() Config {
	if c.ZScoreThreshold <= 0 {
		c.ZScoreThreshold = DefaultZScoreThreshold
	}
	if c.IQRFactor <= 0 {
		c.IQRFactor = DefaultIQRFactor
	}
	if c.SeasonalThreshold <= 0 {
		c.SeasonalThreshold = DefaultSeasonalThreshold
	}
	if c.CardinalityCeiling <= 0 {
		c.CardinalityCeiling = DefaultCardinalityCeiling
	}
	return c
}
