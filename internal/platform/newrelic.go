package platform

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// newrelicAdapter emits an alert-policy JSON document with two NRQL
// conditions per rule joined by an AND operator block.
type newrelicAdapter struct{}

func (*newrelicAdapter) Name() string { return "newrelic" }

type newrelicPolicy struct {
	PolicyName string          `json:"policy_name"`
	Rules      []newrelicRule `json:"rules"`
}

type newrelicRule struct {
	Name       string              `json:"name"`
	Severity   string              `json:"severity"`
	Operator   string              `json:"operator"`
	Conditions []newrelicCondition `json:"conditions"`
	Runbook    string              `json:"runbook_url"`
	Metadata   map[string]string   `json:"metadata"`
}

type newrelicCondition struct {
	Name      string            `json:"name"`
	NRQL      map[string]string `json:"nrql"`
	Threshold newrelicThreshold `json:"critical"`
}

type newrelicThreshold struct {
	Operator          string  `json:"operator"`
	Value             float64 `json:"threshold"`
	DurationSeconds   int     `json:"threshold_duration"`
	ThresholdOccurred string  `json:"threshold_occurrences"`
}

func (a *newrelicAdapter) RenderAlert(rules []models.AbstractAlertRule) (string, error) {
	const op = "platform.newrelic.RenderAlert"
	if err := validateRules(op, rules); err != nil {
		return "", err
	}

	policy := newrelicPolicy{PolicyName: rules[0].Service + "-slo-burn"}
	for _, rule := range rules {
		metadata := map[string]string{
			"service":      rule.Service,
			"for_duration": rule.ForDuration.String(),
		}
		for _, k := range sortedAnnotationKeys(rule.Annotations) {
			metadata[k] = rule.Annotations[k]
		}
		if len(rule.InhibitedBy) > 0 {
			metadata["inhibited_by"] = rule.InhibitedBy[0]
		}

		policy.Rules = append(policy.Rules, newrelicRule{
			Name:     rule.ID,
			Severity: string(rule.Severity),
			Operator: "AND",
			Conditions: []newrelicCondition{
				nrqlCondition(rule, rule.LongWindow, "long"),
				nrqlCondition(rule, rule.ShortWindow, "short"),
			},
			Runbook:  rule.Annotations[models.AnnotationRunbookURL],
			Metadata: metadata,
		})
	}

	out, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal policy", err)
	}
	return string(out) + "\n", nil
}

func nrqlCondition(rule models.AbstractAlertRule, cond models.BurnRateCondition, leg string) newrelicCondition {
	return newrelicCondition{
		Name: fmt.Sprintf("%s-%s", rule.ID, leg),
		NRQL: map[string]string{
			"query": fmt.Sprintf(
				"SELECT latest(slo.errorBudgetBurnRate) FROM Metric WHERE service = '%s' AND window = '%s'",
				rule.Service, cond.Window.String()),
		},
		Threshold: newrelicThreshold{
			Operator:          "above",
			Value:             cond.Threshold,
			DurationSeconds:   int(time.Duration(rule.ForDuration).Seconds()),
			ThresholdOccurred: "all",
		},
	}
}

type newrelicDashboard struct {
	Name  string         `json:"name"`
	Pages []newrelicPage `json:"pages"`
}

type newrelicPage struct {
	Name    string           `json:"name"`
	Widgets []newrelicWidget `json:"widgets"`
}

type newrelicWidget struct {
	Title         string            `json:"title"`
	Visualization string            `json:"visualization"`
	Configuration map[string]string `json:"configuration"`
}

func (a *newrelicAdapter) RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error) {
	const op = "platform.newrelic.RenderDashboard"
	if err := validateSpec(op, desc, spec); err != nil {
		return "", err
	}

	page := newrelicPage{Name: spec.Method}
	for _, panel := range spec.Panels {
		page.Widgets = append(page.Widgets, newrelicWidget{
			Title:         panel.Title,
			Visualization: "viz.line",
			Configuration: map[string]string{
				"query": fmt.Sprintf("SELECT average(%s) FROM Metric WHERE service = '%s' TIMESERIES",
					panel.Metric, desc.ServiceName),
				"unit": panel.Unit,
			},
		})
	}

	dashboard := newrelicDashboard{
		Name:  fmt.Sprintf("%s (%s)", desc.ServiceName, spec.Method),
		Pages: []newrelicPage{page},
	}
	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal dashboard", err)
	}
	return string(out) + "\n", nil
}
