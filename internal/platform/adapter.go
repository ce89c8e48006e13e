// Package platform renders abstract alert rules and dashboard panel specs
// into the native syntax of each supported monitoring system. The adapter
// set is closed; rendering is total — every field of the abstract form
// appears in the output or the adapter fails instead of dropping data.
package platform

import (
	"fmt"
	"sort"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Adapter renders alert rules and dashboards for one monitoring platform.
type Adapter interface {
	Name() string
	RenderAlert(rules []models.AbstractAlertRule) (string, error)
	RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error)
}

// ForName returns the adapter for the named platform, or a configuration
// error listing the supported set.
func ForName(name string) (Adapter, error) {
	const op = "platform.ForName"
	switch name {
	case "prometheus":
		return &prometheusAdapter{}, nil
	case "datadog":
		return &datadogAdapter{}, nil
	case "cloudwatch":
		return &cloudwatchAdapter{}, nil
	case "newrelic":
		return &newrelicAdapter{}, nil
	case "pagerduty":
		return &pagerdutyAdapter{}, nil
	default:
		return nil, utils.Ef(utils.KindConfiguration, op, "unsupported platform %q (supported: %v)", name, Names())
	}
}

// Names lists the supported platforms.
func Names() []string {
	return []string{"cloudwatch", "datadog", "newrelic", "pagerduty", "prometheus"}
}

// validateRules rejects rules an adapter could only render by dropping
// data, before any output is produced.
func validateRules(op string, rules []models.AbstractAlertRule) error {
	if len(rules) == 0 {
		return utils.E(utils.KindRendering, op, "no rules to render")
	}
	for _, rule := range rules {
		if rule.ID == "" {
			return utils.E(utils.KindRendering, op, "rule without id")
		}
		switch rule.Severity {
		case models.SeverityCritical, models.SeverityWarning, models.SeverityInfo:
		default:
			return utils.Ef(utils.KindRendering, op, "rule %s: unsupported severity %q", rule.ID, rule.Severity)
		}
		if rule.ShortWindow.Window <= 0 || rule.LongWindow.Window <= 0 {
			return utils.Ef(utils.KindRendering, op, "rule %s: both burn-rate windows are required", rule.ID)
		}
		if rule.ShortWindow.Threshold <= 0 || rule.LongWindow.Threshold <= 0 {
			return utils.Ef(utils.KindRendering, op, "rule %s: both burn-rate thresholds are required", rule.ID)
		}
		if rule.ForDuration <= 0 {
			return utils.Ef(utils.KindRendering, op, "rule %s: for_duration is required", rule.ID)
		}
		if rule.Annotations[models.AnnotationRunbookURL] == "" {
			return utils.Ef(utils.KindRendering, op, "rule %s: missing %s annotation", rule.ID, models.AnnotationRunbookURL)
		}
	}
	return nil
}

func validateSpec(op string, desc models.ServiceDescriptor, spec models.PanelSpec) error {
	if desc.ServiceName == "" {
		return utils.E(utils.KindRendering, op, "service name is required")
	}
	if !desc.ServiceType.Valid() {
		return utils.Ef(utils.KindRendering, op, "unsupported service type %q", desc.ServiceType)
	}
	if len(spec.Panels) == 0 {
		return utils.Ef(utils.KindRendering, op, "panel spec %q has no panels", spec.Method)
	}
	return nil
}

func sortedAnnotationKeys(annotations map[string]string) []string {
	keys := make([]string, 0, len(annotations))
	for k := range annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func annotationLines(rule models.AbstractAlertRule) string {
	out := ""
	for _, k := range sortedAnnotationKeys(rule.Annotations) {
		out += fmt.Sprintf("%s: %s\n", k, rule.Annotations[k])
	}
	return out
}
