package platform

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// cloudwatchAdapter emits a metric-math alarm document per rule. Each
// burn-rate window is one metric data query; an IF expression ANDs the two
// legs so the alarm only fires on the conjunction.
type cloudwatchAdapter struct{}

func (*cloudwatchAdapter) Name() string { return "cloudwatch" }

type cloudwatchDocument struct {
	Alarms []cloudwatchAlarm `json:"Alarms"`
}

type cloudwatchAlarm struct {
	AlarmName          string             `json:"AlarmName"`
	AlarmDescription   string             `json:"AlarmDescription"`
	Metrics            []cloudwatchMetric `json:"Metrics"`
	EvaluationPeriods  int                `json:"EvaluationPeriods"`
	DatapointsToAlarm  int                `json:"DatapointsToAlarm"`
	Threshold          float64            `json:"Threshold"`
	ComparisonOperator string             `json:"ComparisonOperator"`
	Tags               []cloudwatchTag    `json:"Tags"`
}

type cloudwatchMetric struct {
	ID         string          `json:"Id"`
	Expression string          `json:"Expression,omitempty"`
	Label      string          `json:"Label,omitempty"`
	MetricStat *cloudwatchStat `json:"MetricStat,omitempty"`
	ReturnData bool            `json:"ReturnData"`
}

type cloudwatchStat struct {
	Metric cloudwatchMetricRef `json:"Metric"`
	Period int                 `json:"Period"`
	Stat   string              `json:"Stat"`
}

type cloudwatchMetricRef struct {
	Namespace  string         `json:"Namespace"`
	MetricName string         `json:"MetricName"`
	Dimensions []cloudwatchDim `json:"Dimensions"`
}

type cloudwatchDim struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type cloudwatchTag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

func (a *cloudwatchAdapter) RenderAlert(rules []models.AbstractAlertRule) (string, error) {
	const op = "platform.cloudwatch.RenderAlert"
	if err := validateRules(op, rules); err != nil {
		return "", err
	}

	doc := cloudwatchDocument{}
	for _, rule := range rules {
		forDuration := time.Duration(rule.ForDuration)
		periods := int(forDuration / time.Minute)
		if periods < 1 {
			periods = 1
		}

		tags := []cloudwatchTag{
			{Key: "service", Value: rule.Service},
			{Key: "severity", Value: string(rule.Severity)},
			{Key: "for_duration", Value: rule.ForDuration.String()},
			{Key: "runbook_url", Value: rule.Annotations[models.AnnotationRunbookURL]},
		}
		for _, inhibitor := range rule.InhibitedBy {
			tags = append(tags, cloudwatchTag{Key: "inhibited_by", Value: inhibitor})
		}

		doc.Alarms = append(doc.Alarms, cloudwatchAlarm{
			AlarmName:        rule.ID,
			AlarmDescription: annotationLines(rule),
			Metrics: []cloudwatchMetric{
				burnRateQuery("long", rule.Service, rule.LongWindow),
				burnRateQuery("short", rule.Service, rule.ShortWindow),
				{
					ID: "fire",
					Expression: fmt.Sprintf("IF(long > %g AND short > %g, 1, 0)",
						rule.LongWindow.Threshold, rule.ShortWindow.Threshold),
					Label:      "burn rate conjunction",
					ReturnData: true,
				},
			},
			EvaluationPeriods:  periods,
			DatapointsToAlarm:  periods,
			Threshold:          1,
			ComparisonOperator: "GreaterThanOrEqualToThreshold",
			Tags:               tags,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal alarms", err)
	}
	return string(out) + "\n", nil
}

func burnRateQuery(id, service string, cond models.BurnRateCondition) cloudwatchMetric {
	return cloudwatchMetric{
		ID: id,
		MetricStat: &cloudwatchStat{
			Metric: cloudwatchMetricRef{
				Namespace:  "SLO",
				MetricName: "ErrorBudgetBurnRate",
				Dimensions: []cloudwatchDim{
					{Name: "Service", Value: service},
					{Name: "Window", Value: cond.Window.String()},
				},
			},
			Period: 60,
			Stat:   "Average",
		},
		ReturnData: false,
	}
}

type cloudwatchDashboard struct {
	Widgets []cloudwatchWidget `json:"widgets"`
}

type cloudwatchWidget struct {
	Type       string               `json:"type"`
	Properties cloudwatchWidgetBody `json:"properties"`
}

type cloudwatchWidgetBody struct {
	Title   string     `json:"title"`
	Metrics [][]string `json:"metrics"`
	Stat    string     `json:"stat"`
	YAxis   string     `json:"yAxisLabel"`
}

func (a *cloudwatchAdapter) RenderDashboard(desc models.ServiceDescriptor, spec models.PanelSpec) (string, error) {
	const op = "platform.cloudwatch.RenderDashboard"
	if err := validateSpec(op, desc, spec); err != nil {
		return "", err
	}

	dashboard := cloudwatchDashboard{}
	for _, panel := range spec.Panels {
		dashboard.Widgets = append(dashboard.Widgets, cloudwatchWidget{
			Type: "metric",
			Properties: cloudwatchWidgetBody{
				Title:   panel.Title,
				Metrics: [][]string{{"SLO", panel.Metric, "Service", desc.ServiceName}},
				Stat:    "Average",
				YAxis:   panel.Unit,
			},
		})
	}

	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, op, "marshal dashboard", err)
	}
	return string(out) + "\n", nil
}
