package models

import "github.com/prometheus/common/model"

// SLIType enumerates the indicator families the calculator understands.
type SLIType string

const (
	SLIAvailability SLIType = "availability"
	SLILatency      SLIType = "latency"
	SLIThroughput   SLIType = "throughput"
)

// Valid reports whether the SLI type is supported.
func (t SLIType) Valid() bool {
	switch t {
	case SLIAvailability, SLILatency, SLIThroughput:
		return true
	}
	return false
}

// SupportedSLOWindows is the closed set of objective windows. Keeping the set
// small keeps the burn-rate lookback ladder well-defined.
var SupportedSLOWindows = []model.Duration{
	parseDuration("7d"),
	parseDuration("30d"),
	parseDuration("90d"),
}

// BurnRateLadder is the fixed set of lookback windows burn rates are computed
// over, shortest first.
var BurnRateLadder = []model.Duration{
	parseDuration("5m"),
	parseDuration("30m"),
	parseDuration("1h"),
	parseDuration("6h"),
	parseDuration("24h"),
	parseDuration("3d"),
}

func parseDuration(s string) model.Duration {
	d, err := model.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}

// SLODefinition declares an objective: an SLI family, a target percentage in
// (0,100) exclusive, and an evaluation window from SupportedSLOWindows.
type SLODefinition struct {
	SLIType       SLIType        `json:"sli_type"`
	TargetPercent float64        `json:"target_percent"`
	Window        model.Duration `json:"window"`
}

// AllowedErrorRate is the fraction of events the budget permits to fail.
func (d SLODefinition) AllowedErrorRate() float64 {
	return 1 - d.TargetPercent/100
}

// WindowSupported reports whether the definition's window is in the closed set.
func (d SLODefinition) WindowSupported() bool {
	for _, w := range SupportedSLOWindows {
		if d.Window == w {
			return true
		}
	}
	return false
}

// ErrorBudgetReport is the calculator's output. Computed fresh on every
// invocation, never mutated afterwards.
type ErrorBudgetReport struct {
	Service            string             `json:"service,omitempty"`
	Metric             string             `json:"metric"`
	SLIType            SLIType            `json:"sli_type"`
	TargetPercent      float64            `json:"target_percent"`
	Window             model.Duration     `json:"window"`
	SLIValue           float64            `json:"sli_value"`
	TotalSamples       int                `json:"total_samples"`
	SuccessfulSamples  int                `json:"successful_samples"`
	BudgetTotal        float64            `json:"budget_total"`
	BudgetConsumed     float64            `json:"budget_consumed"`
	BudgetRemainingPct float64            `json:"budget_remaining_pct"`
	BurnRates          map[string]float64 `json:"burn_rates"`
	Percentiles        map[string]float64 `json:"percentiles,omitempty"`
	Recommendation     string             `json:"recommendation"`
}
