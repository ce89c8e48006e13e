// Package alerts turns an SLO definition into platform-neutral
// multi-window, multi-burn-rate alert rules. Pairing a short confirmation
// window with a long detection window on every rule is the core
// anti-false-positive mechanism; single-window rules are not produced.
package alerts

import (
	"fmt"

	"github.com/prometheus/common/model"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Options tune rule synthesis.
type Options struct {
	// RunbookURL is attached to every rule's annotations. A default
	// pointing at the service's runbook index is used when empty.
	RunbookURL string
}

type tierSpec struct {
	severity    models.Severity
	shortWindow model.Duration
	longWindow  model.Duration
	factor      float64
	forDuration model.Duration
}

// tiersFor maps the SLO target to burn-rate factors and windows. Tighter
// objectives confirm faster: at 99.95%+ the budget is so small that waiting
// the standard confirmation period forfeits most of it.
func tiersFor(targetPercent float64) []tierSpec {
	fast, slow, trickle := mustDuration("2m"), mustDuration("15m"), mustDuration("1h")
	factors := [3]float64{14.4, 6, 1}
	switch {
	case targetPercent >= 99.95:
	case targetPercent >= 99.0:
		fast, slow, trickle = mustDuration("5m"), mustDuration("30m"), mustDuration("2h")
	default:
		fast, slow, trickle = mustDuration("10m"), mustDuration("1h"), mustDuration("6h")
		factors = [3]float64{7.2, 3, 1}
	}
	return []tierSpec{
		{models.SeverityCritical, mustDuration("5m"), mustDuration("1h"), factors[0], fast},
		{models.SeverityWarning, mustDuration("30m"), mustDuration("6h"), factors[1], slow},
		{models.SeverityInfo, mustDuration("6h"), mustDuration("3d"), factors[2], trickle},
	}
}

// Synthesize produces one rule per severity tier for the given objective.
// Critical rules inhibit the warning and info rules of the same service.
func Synthesize(def models.SLODefinition, service models.ServiceDescriptor, opts Options) ([]models.AbstractAlertRule, error) {
	const op = "alerts.Synthesize"

	if service.ServiceName == "" {
		return nil, utils.E(utils.KindConfiguration, op, "service name is required")
	}
	if !def.SLIType.Valid() {
		return nil, utils.Ef(utils.KindConfiguration, op, "unsupported SLI type %q", def.SLIType)
	}
	if def.TargetPercent <= 0 || def.TargetPercent >= 100 {
		return nil, utils.Ef(utils.KindConfiguration, op, "target %.4f%% must be strictly between 0 and 100", def.TargetPercent)
	}
	if !def.WindowSupported() {
		return nil, utils.Ef(utils.KindConfiguration, op, "window %s is not in the supported set %v", def.Window, models.SupportedSLOWindows)
	}

	runbook := opts.RunbookURL
	if runbook == "" {
		runbook = fmt.Sprintf("https://runbooks.example.com/%s/slo-burn", service.ServiceName)
	}

	tiers := tiersFor(def.TargetPercent)
	rules := make([]models.AbstractAlertRule, 0, len(tiers))
	criticalID := ruleID(service.ServiceName, def.SLIType, models.SeverityCritical)

	for _, tier := range tiers {
		rule := models.AbstractAlertRule{
			ID:          ruleID(service.ServiceName, def.SLIType, tier.severity),
			Service:     service.ServiceName,
			Severity:    tier.severity,
			ShortWindow: models.BurnRateCondition{Window: tier.shortWindow, Threshold: tier.factor},
			LongWindow:  models.BurnRateCondition{Window: tier.longWindow, Threshold: tier.factor},
			ForDuration: tier.forDuration,
			Annotations: map[string]string{
				"summary": fmt.Sprintf("%s %s SLO burn rate is above %gx over %s and %s",
					service.ServiceName, def.SLIType, tier.factor, tier.longWindow, tier.shortWindow),
				"description": fmt.Sprintf("The %s error budget for the %s%% objective over %s is burning at more than %gx the sustainable rate.",
					service.ServiceName, trimFloat(def.TargetPercent), def.Window, tier.factor),
				models.AnnotationRunbookURL: runbook,
			},
		}
		if tier.severity != models.SeverityCritical {
			rule.InhibitedBy = []string{criticalID}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func ruleID(service string, sliType models.SLIType, severity models.Severity) string {
	return fmt.Sprintf("%s-%s-burn-%s", service, sliType, severity)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

func mustDuration(s string) model.Duration {
	d, err := model.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
