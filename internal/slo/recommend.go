package slo

import "github.com/miradorstack/mirador-slo/internal/models"

// Burn-rate and remaining-budget thresholds behind the recommendation rules.
// The 14.4 factor exhausts a 30d budget in roughly two days.
const (
	pageBurnRate        = 14.4
	investigateBurnRate = 6.0
	lowBudgetPct        = 10.0
	watchBudgetPct      = 25.0
)

// recommend derives deterministic, rule-based guidance from the report.
// Rules are ordered most to least urgent; the first match wins.
func recommend(r models.ErrorBudgetReport) string {
	if r.BurnRates["1h"] >= pageBurnRate {
		return "Page immediately: 1h burn rate exceeds " +
			"the fast-burn threshold; the error budget will be exhausted within days at the current rate."
	}
	if r.BudgetRemainingPct <= 0 {
		return "Error budget exhausted: freeze non-essential deployments and start incident review."
	}
	if r.BudgetRemainingPct < lowBudgetPct {
		return "Tighten deployment gating: less than 10% of the error budget remains for this window."
	}
	if r.BurnRates["6h"] >= investigateBurnRate {
		return "Investigate: sustained 6h burn rate indicates a slow-burn incident in progress."
	}
	if r.BudgetRemainingPct < watchBudgetPct {
		return "Monitor closely: error budget consumption is ahead of schedule for this window."
	}
	return "Error budget healthy: continue normal release cadence."
}
