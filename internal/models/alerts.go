package models

import "github.com/prometheus/common/model"

// Severity captures alert urgency tiers.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AnnotationRunbookURL is the annotation key adapters must carry through.
const AnnotationRunbookURL = "runbook_url"

// BurnRateCondition is one leg of a multi-window alert condition: the burn
// rate over Window must exceed Threshold.
type BurnRateCondition struct {
	Window    model.Duration `json:"window"`
	Threshold float64        `json:"threshold"`
}

// AbstractAlertRule is the platform-neutral intermediate alert form. The
// condition is always the conjunction of the short and long window legs;
// a rule firing on a single window alone is not representable on purpose.
type AbstractAlertRule struct {
	ID          string            `json:"id"`
	Service     string            `json:"service"`
	Severity    Severity          `json:"severity"`
	ShortWindow BurnRateCondition `json:"short_window"`
	LongWindow  BurnRateCondition `json:"long_window"`
	ForDuration model.Duration    `json:"for_duration"`
	Annotations map[string]string `json:"annotations"`
	InhibitedBy []string          `json:"inhibited_by,omitempty"`
}

// PanelKind distinguishes dashboard panel families.
type PanelKind string

const (
	PanelRate        PanelKind = "rate"
	PanelErrors      PanelKind = "errors"
	PanelDuration    PanelKind = "duration"
	PanelUtilization PanelKind = "utilization"
	PanelSaturation  PanelKind = "saturation"
)

// Panel describes one dashboard panel in platform-neutral terms.
type Panel struct {
	Title  string    `json:"title"`
	Kind   PanelKind `json:"kind"`
	Metric string    `json:"metric"`
	Unit   string    `json:"unit"`
}

// PanelSpec is a named panel template set (RED or USE) selected from the
// service type.
type PanelSpec struct {
	Method string  `json:"method"`
	Panels []Panel `json:"panels"`
}
