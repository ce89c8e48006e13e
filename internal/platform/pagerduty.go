package platform

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// pagerdutyAdapter emits an event-orchestration JSON document. Each rule
// becomes an orchestration rule whose conditions test both burn-rate legs
// from the event payload. PagerDuty has no dashboard surface, so dashboard
// rendering fails instead of pretending.
type pagerdutyAdapter struct{}

func (*pagerdutyAdapter) Name() string { return "pagerduty" }

type pagerdutyOrchestration struct {
	OrchestrationName string           `json:"orchestration_name"`
	Rules             []pagerdutyRule  `json:"rules"`
	Suppressions      []pagerdutyInhib `json:"suppressions"`
}

type pagerdutyRule struct {
	Label      string           `json:"label"`
	Conditions []pagerdutyCond  `json:"conditions"`
	Actions    pagerdutyActions `json:"actions"`
}

type pagerdutyCond struct {
	Expression string `json:"expression"`
}

type pagerdutyActions struct {
	Severity    string            `json:"severity"`
	Suspend     int               `json:"suspend_seconds"`
	Annotations map[string]string `json:"annotate"`
}

type pagerdutyInhib struct {
	When     string `json:"when"`
	Suppress string `json:"suppress"`
}

func (a *pagerdutyAdapter) RenderAlert(rules []models.AbstractAlertRule) (string, error) {
	const op = "platform.pagerduty.RenderAlert"
	if err := validateRules(op, rules); err != nil {
		return "", err
	}

	orchestration := pagerdutyOrchestration{
		OrchestrationName: rules[0].Service + "-slo-burn",
	}
	for _, rule := range rules {
		orchestration.Rules = append(orchestration.Rules, pagerdutyRule{
			Label: rule.ID,
			Conditions: []pagerdutyCond{
				{Expression: burnRateExpression(rule.LongWindow)},
				{Expression: burnRateExpression(rule.ShortWindow)},
			},
			Actions: pagerdutyActions{
				Severity:    string(rule.Severity),
				Suspend:     int(time.Duration(rule.ForDuration).Seconds()),
				Annotations: rule.Annotations,
			},
		})
		for _, inhibitor := range rule.InhibitedBy {
			orchestration.Suppressions = append(orchestration.Suppressions, pagerdutyInhib{
				When:     inhibitor,
				Suppress: rule.ID,
			})
		}
	}

	out, err := json.MarshalIndent(orchestration, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal orchestration", err)
	}
	return string(out) + "\n", nil
}

func burnRateExpression(cond models.BurnRateCondition) string {
	return fmt.Sprintf("event.custom_details.burn_rate_%s > %g", cond.Window.String(), cond.Threshold)
}

// RenderDashboard always fails: PagerDuty has no dashboard surface.
func (a *pagerdutyAdapter) RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error) {
	const op = "platform.pagerduty.RenderDashboard"
	return "", utils.Ef(utils.KindRendering, op,
		"pagerduty has no dashboard surface; cannot render panel spec %q for service %s", spec.Method, desc.ServiceName)
}
