package platform

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// datadogAdapter emits a composite-monitor JSON document per rule: one
// child monitor per burn-rate window, combined with &&, which preserves the
// two-window conjunction on the Datadog side.
type datadogAdapter struct{}

func (*datadogAdapter) Name() string { return "datadog" }

type datadogDocument struct {
	Monitors []datadogComposite `json:"monitors"`
}

type datadogComposite struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Query    string           `json:"query"`
	Message  string           `json:"message"`
	Tags     []string         `json:"tags"`
	Options  datadogOptions   `json:"options"`
	Children []datadogMonitor `json:"child_monitors"`
}

type datadogMonitor struct {
	Handle string  `json:"handle"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Query  string  `json:"query"`
	Window string  `json:"window"`
	Alert  float64 `json:"alert_threshold"`
}

type datadogOptions struct {
	NotifyBySeverity string `json:"priority"`
	RenotifyInterval int    `json:"renotify_interval"`
	EvaluationDelay  int    `json:"evaluation_delay"`
}

func (a *datadogAdapter) RenderAlert(rules []models.AbstractAlertRule) (string, error) {
	const op = "platform.datadog.RenderAlert"
	if err := validateRules(op, rules); err != nil {
		return "", err
	}

	doc := datadogDocument{}
	for _, rule := range rules {
		long := childMonitor(rule, rule.LongWindow, "long")
		short := childMonitor(rule, rule.ShortWindow, "short")

		message := annotationLines(rule)
		if len(rule.InhibitedBy) > 0 {
			message += fmt.Sprintf("inhibited_by: %s\n", strings.Join(rule.InhibitedBy, ","))
		}

		doc.Monitors = append(doc.Monitors, datadogComposite{
			Name:    rule.ID,
			Type:    "composite",
			Query:   fmt.Sprintf("%s && %s", long.Handle, short.Handle),
			Message: message,
			Tags: []string{
				"service:" + rule.Service,
				"severity:" + string(rule.Severity),
				"for_duration:" + rule.ForDuration.String(),
			},
			Options: datadogOptions{
				NotifyBySeverity: datadogPriority(rule.Severity),
				RenotifyInterval: int(time.Duration(rule.ForDuration).Minutes()),
				EvaluationDelay:  60,
			},
			Children: []datadogMonitor{long, short},
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal monitors", err)
	}
	return string(out) + "\n", nil
}

func childMonitor(rule models.AbstractAlertRule, cond models.BurnRateCondition, leg string) datadogMonitor {
	window := cond.Window.String()
	return datadogMonitor{
		Handle: fmt.Sprintf("%s-%s", rule.ID, leg),
		Name:   fmt.Sprintf("%s burn rate over %s", rule.Service, window),
		Type:   "query alert",
		Query: fmt.Sprintf("avg(last_%s):avg:slo.error_budget.burn_rate{service:%s,window:%s} > %g",
			window, rule.Service, window, cond.Threshold),
		Window: window,
		Alert:  cond.Threshold,
	}
}

func datadogPriority(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "P1"
	case models.SeverityWarning:
		return "P2"
	default:
		return "P3"
	}
}

type datadogDashboard struct {
	Title       string          `json:"title"`
	LayoutType  string          `json:"layout_type"`
	Description string          `json:"description"`
	Widgets     []datadogWidget `json:"widgets"`
}

type datadogWidget struct {
	Definition datadogWidgetDef `json:"definition"`
}

type datadogWidgetDef struct {
	Title    string              `json:"title"`
	Type     string              `json:"type"`
	Requests []map[string]string `json:"requests"`
}

func (a *datadogAdapter) RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error) {
	const op = "platform.datadog.RenderDashboard"
	if err := validateSpec(op, desc, spec); err != nil {
		return "", err
	}

	dashboard := datadogDashboard{
		Title:       fmt.Sprintf("%s (%s)", desc.ServiceName, spec.Method),
		LayoutType:  "ordered",
		Description: fmt.Sprintf("%s method dashboard for %s service %s", spec.Method, desc.ServiceType, desc.ServiceName),
	}
	for _, panel := range spec.Panels {
		dashboard.Widgets = append(dashboard.Widgets, datadogWidget{
			Definition: datadogWidgetDef{
				Title: panel.Title,
				Type:  "timeseries",
				Requests: []map[string]string{{
					"q": fmt.Sprintf("avg:%s{service:%s}", panel.Metric, desc.ServiceName),
				}},
			},
		})
	}

	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal dashboard", err)
	}
	return string(out) + "\n", nil
}
