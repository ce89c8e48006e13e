package platform

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// prometheusAdapter emits a Prometheus rule-group YAML document for alerts
// and a Grafana-compatible dashboard JSON document for panels. Burn rates
// are referenced through the slo:error_budget:burn_rate recording rule the
// platform is expected to maintain.
type prometheusAdapter struct{}

func (*prometheusAdapter) Name() string { return "prometheus" }

type promRuleGroups struct {
	Groups []promRuleGroup `yaml:"groups"`
}

type promRuleGroup struct {
	Name  string     `yaml:"name"`
	Rules []promRule `yaml:"rules"`
}

type promRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

func (a *prometheusAdapter) RenderAlert(rules []models.AbstractAlertRule) (string, error) {
	const op = "platform.prometheus.RenderAlert"
	if err := validateRules(op, rules); err != nil {
		return "", err
	}

	group := promRuleGroup{Name: rules[0].Service + "-slo-burn"}
	for _, rule := range rules {
		labels := map[string]string{
			"severity": string(rule.Severity),
			"service":  rule.Service,
		}
		if len(rule.InhibitedBy) > 0 {
			// Consumed by an Alertmanager inhibit_rules entry keyed on
			// inhibited_by / alert id.
			labels["inhibited_by"] = rule.InhibitedBy[0]
		}
		group.Rules = append(group.Rules, promRule{
			Alert: rule.ID,
			Expr: fmt.Sprintf("(%s > %g) and (%s > %g)",
				burnRateSelector(rule.Service, rule.LongWindow.Window.String()), rule.LongWindow.Threshold,
				burnRateSelector(rule.Service, rule.ShortWindow.Window.String()), rule.ShortWindow.Threshold),
			For:         rule.ForDuration.String(),
			Labels:      labels,
			Annotations: rule.Annotations,
		})
	}

	out, err := yaml.Marshal(promRuleGroups{Groups: []promRuleGroup{group}})
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal rule groups", err)
	}
	return string(out), nil
}

func burnRateSelector(service, window string) string {
	return fmt.Sprintf(`slo:error_budget:burn_rate{service=%q,window=%q}`, service, window)
}

type grafanaDashboard struct {
	Title  string         `json:"title"`
	Tags   []string       `json:"tags"`
	Panels []grafanaPanel `json:"panels"`
}

type grafanaPanel struct {
	ID      int             `json:"id"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Unit    string          `json:"unit"`
	Targets []grafanaTarget `json:"targets"`
}

type grafanaTarget struct {
	Expr string `json:"expr"`
}

func (a *prometheusAdapter) RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error) {
	const op = "platform.prometheus.RenderDashboard"
	if err := validateSpec(op, desc, spec); err != nil {
		return "", err
	}

	dashboard := grafanaDashboard{
		Title: fmt.Sprintf("%s (%s)", desc.ServiceName, spec.Method),
		Tags:  []string{"slo-engine", string(desc.ServiceType)},
	}
	for i, panel := range spec.Panels {
		dashboard.Panels = append(dashboard.Panels, grafanaPanel{
			ID:    i + 1,
			Title: panel.Title,
			Type:  "timeseries",
			Unit:  panel.Unit,
			Targets: []grafanaTarget{{
				Expr: fmt.Sprintf(`%s{service=%q}`, panel.Metric, desc.ServiceName),
			}},
		})
	}

	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal dashboard", err)
	}
	return string(out) + "\n", nil
}
