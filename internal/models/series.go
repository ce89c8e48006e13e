package models

import (
	"time"

	"github.com/prometheus/common/model"
)

// MetricSample is a single timestamped observation. Immutable once recorded.
type MetricSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries is a named, labeled sample sequence ordered by timestamp.
// Timestamps are strictly increasing; the snapshot loader rejects anything else.
type MetricSeries struct {
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels,omitempty"`
	Samples []MetricSample    `json:"samples"`
}

// Fingerprint returns a stable identity for the series' label combination,
// including the metric name.
func (s MetricSeries) Fingerprint() model.Fingerprint {
	ls := make(model.LabelSet, len(s.Labels)+1)
	ls[model.MetricNameLabel] = model.LabelValue(s.Name)
	for k, v := range s.Labels {
		ls[model.LabelName(k)] = model.LabelValue(v)
	}
	return ls.Fingerprint()
}

// Values extracts the raw sample values in timestamp order.
func (s MetricSeries) Values() []float64 {
	values := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		values[i] = sample.Value
	}
	return values
}

// Since returns the samples at or after the given instant. The receiver is
// never mutated; the returned slice aliases the original backing array.
func (s MetricSeries) Since(t time.Time) []MetricSample {
	for i, sample := range s.Samples {
		if !sample.Timestamp.Before(t) {
			return s.Samples[i:]
		}
	}
	return nil
}

// End returns the timestamp of the last sample, or the zero time for an
// empty series.
func (s MetricSeries) End() time.Time {
	if len(s.Samples) == 0 {
		return time.Time{}
	}
	return s.Samples[len(s.Samples)-1].Timestamp
}

// ServiceType categorises a monitored service for dashboard and alert defaults.
type ServiceType string

const (
	ServiceTypeAPI      ServiceType = "api"
	ServiceTypeDatabase ServiceType = "database"
	ServiceTypeQueue    ServiceType = "queue"
	ServiceTypeCache    ServiceType = "cache"
	ServiceTypeWeb      ServiceType = "web"
)

// Valid reports whether the service type is one of the supported values.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeAPI, ServiceTypeDatabase, ServiceTypeQueue, ServiceTypeCache, ServiceTypeWeb:
		return true
	}
	return false
}

// ServiceDescriptor identifies the service a report or rendering targets.
type ServiceDescriptor struct {
	ServiceName string      `json:"service_name"`
	ServiceType ServiceType `json:"service_type"`
}
