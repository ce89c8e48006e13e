package platform

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-slo/internal/alerts"
	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

func testRules(t *testing.T) []models.AbstractAlertRule {
	t.Helper()
	w, err := utils.ParseWindow("30d")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	def := models.SLODefinition{SLIType: models.SLIAvailability, TargetPercent: 99.9, Window: w}
	svc := models.ServiceDescriptor{ServiceName: "checkout", ServiceType: models.ServiceTypeAPI}
	rules, err := alerts.Synthesize(def, svc, alerts.Options{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	return rules
}

func TestForName(t *testing.T) {
	for _, name := range Names() {
		adapter, err := ForName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if adapter.Name() != name {
			t.Fatalf("expected name %s, got %s", name, adapter.Name())
		}
	}
}

func TestForNameUnsupported(t *testing.T) {
	_, err := ForName("zabbix")
	if utils.KindOf(err) != utils.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "prometheus") {
		t.Fatalf("expected supported platforms listed, got %q", err.Error())
	}
}

// Every adapter must preserve severity, both burn-rate windows and the
// confirmation duration, in whatever vocabulary its platform uses.
func TestRenderAlertPreservesRuleSemantics(t *testing.T) {
	rules := testRules(t)
	for _, name := range Names() {
		adapter, err := ForName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out, err := adapter.RenderAlert(rules)
		if err != nil {
			t.Fatalf("%s: render: %v", name, err)
		}
		for _, rule := range rules {
			if !strings.Contains(out, string(rule.Severity)) {
				t.Fatalf("%s: output drops severity %s", name, rule.Severity)
			}
			if !strings.Contains(out, rule.ID) {
				t.Fatalf("%s: output drops rule id %s", name, rule.ID)
			}
			verbatim := rule.ForDuration.String()
			seconds := strconv.Itoa(int(time.Duration(rule.ForDuration).Seconds()))
			if !strings.Contains(out, verbatim) && !strings.Contains(out, seconds) {
				t.Fatalf("%s: output drops the %s confirmation duration for %s", name, verbatim, rule.ID)
			}
		}
		if !strings.Contains(out, "runbooks.example.com/checkout") {
			t.Fatalf("%s: output drops the runbook url", name)
		}
	}
}

func TestPrometheusRuleGroupsParse(t *testing.T) {
	adapter, err := ForName("prometheus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := adapter.RenderAlert(testRules(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		Groups []struct {
			Name  string `yaml:"name"`
			Rules []struct {
				Alert  string            `yaml:"alert"`
				Expr   string            `yaml:"expr"`
				For    string            `yaml:"for"`
				Labels map[string]string `yaml:"labels"`
			} `yaml:"rules"`
		} `yaml:"groups"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(doc.Groups) != 1 || doc.Groups[0].Name != "checkout-slo-burn" {
		t.Fatalf("unexpected groups: %+v", doc.Groups)
	}
	if len(doc.Groups[0].Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(doc.Groups[0].Rules))
	}
	critical := doc.Groups[0].Rules[0]
	if !strings.Contains(critical.Expr, " and ") {
		t.Fatalf("expected a two-window conjunction, got %q", critical.Expr)
	}
	if !strings.Contains(critical.Expr, `window="5m"`) || !strings.Contains(critical.Expr, `window="1h"`) {
		t.Fatalf("expected both windows in the expression, got %q", critical.Expr)
	}
	if critical.For != "2m" {
		t.Fatalf("expected for 2m at a 99.9%% objective, got %q", critical.For)
	}
	warning := doc.Groups[0].Rules[1]
	if warning.Labels["inhibited_by"] != "checkout-availability-burn-critical" {
		t.Fatalf("expected inhibition label, got %v", warning.Labels)
	}
}

func TestDatadogCompositeMonitors(t *testing.T) {
	adapter, err := ForName("datadog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := adapter.RenderAlert(testRules(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("output is not valid JSON")
	}
	if !strings.Contains(out, "&&") {
		t.Fatalf("expected composite monitors joining both windows, got %s", out)
	}
}

func TestCloudWatchAlarmsParse(t *testing.T) {
	adapter, err := ForName("cloudwatch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := adapter.RenderAlert(testRules(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("output is not valid JSON")
	}
	if !strings.Contains(out, "AND") {
		t.Fatalf("expected a metric-math conjunction, got %s", out)
	}
}

func TestRenderAlertRejectsIncompleteRule(t *testing.T) {
	rules := testRules(t)
	delete(rules[0].Annotations, models.AnnotationRunbookURL)
	for _, name := range Names() {
		adapter, err := ForName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := adapter.RenderAlert(rules); utils.KindOf(err) != utils.KindRendering {
			t.Fatalf("%s: expected rendering error for missing runbook, got %v", name, err)
		}
	}
}

func TestRenderAlertRejectsEmptyRuleSet(t *testing.T) {
	adapter, err := ForName("prometheus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := adapter.RenderAlert(nil); utils.KindOf(err) != utils.KindRendering {
		t.Fatalf("expected rendering error for empty rule set, got %v", err)
	}
}

func TestPanelsForServiceTypes(t *testing.T) {
	red, err := PanelsFor(models.ServiceDescriptor{ServiceName: "checkout", ServiceType: models.ServiceTypeAPI})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if red.Method != "RED" || len(red.Panels) != 3 {
		t.Fatalf("expected a 3-panel RED spec for api, got %+v", red)
	}

	use, err := PanelsFor(models.ServiceDescriptor{ServiceName: "orders-db", ServiceType: models.ServiceTypeDatabase})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if use.Method != "USE" || len(use.Panels) != 3 {
		t.Fatalf("expected a 3-panel USE spec for database, got %+v", use)
	}

	if _, err := PanelsFor(models.ServiceDescriptor{ServiceName: "x", ServiceType: "lambda"}); utils.KindOf(err) != utils.KindConfiguration {
		t.Fatalf("expected configuration error for unknown service type, got %v", err)
	}
}

func TestRenderDashboardAcrossPlatforms(t *testing.T) {
	desc := models.ServiceDescriptor{ServiceName: "checkout", ServiceType: models.ServiceTypeAPI}
	spec, err := PanelsFor(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range Names() {
		if name == "pagerduty" {
			continue
		}
		adapter, err := ForName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out, err := adapter.RenderDashboard(desc, spec)
		if err != nil {
			t.Fatalf("%s: render dashboard: %v", name, err)
		}
		for _, panel := range spec.Panels {
			if !strings.Contains(out, panel.Title) {
				t.Fatalf("%s: dashboard drops panel %q", name, panel.Title)
			}
		}
	}
}

func TestPagerDutyHasNoDashboardSurface(t *testing.T) {
	adapter, err := ForName("pagerduty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	desc := models.ServiceDescriptor{ServiceName: "checkout", ServiceType: models.ServiceTypeAPI}
	spec, err := PanelsFor(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := adapter.RenderDashboard(desc, spec); utils.KindOf(err) != utils.KindRendering {
		t.Fatalf("expected rendering error, got %v", err)
	}
}
