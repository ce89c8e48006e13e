package models

import (
	"testing"
	"time"

	"github.com/prometheus/common/model"
)

func TestFingerprintLabelOrderIndependent(t *testing.T) {
	a := MetricSeries{Name: "m", Labels: map[string]string{"x": "1", "y": "2"}}
	b := MetricSeries{Name: "m", Labels: map[string]string{"y": "2", "x": "1"}}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equivalent label sets must share a fingerprint")
	}
	c := MetricSeries{Name: "other", Labels: map[string]string{"x": "1", "y": "2"}}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("the metric name must participate in the fingerprint")
	}
}

func TestSeriesSince(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := MetricSeries{Name: "m", Samples: []MetricSample{
		{Timestamp: start, Value: 1},
		{Timestamp: start.Add(time.Minute), Value: 2},
		{Timestamp: start.Add(2 * time.Minute), Value: 3},
	}}

	if got := s.Since(start.Add(time.Minute)); len(got) != 2 || got[0].Value != 2 {
		t.Fatalf("expected the cut to be inclusive, got %+v", got)
	}
	if got := s.Since(start.Add(time.Hour)); got != nil {
		t.Fatalf("expected nil past the end, got %+v", got)
	}
	if !s.End().Equal(start.Add(2 * time.Minute)) {
		t.Fatalf("unexpected end: %s", s.End())
	}
	if !(MetricSeries{}).End().IsZero() {
		t.Fatalf("empty series must report the zero time")
	}
}

func TestSLODefinitionWindowSupported(t *testing.T) {
	for _, w := range SupportedSLOWindows {
		def := SLODefinition{Window: w}
		if !def.WindowSupported() {
			t.Fatalf("%s should be supported", w)
		}
	}
	odd, err := model.ParseDuration("12d")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if (SLODefinition{Window: odd}).WindowSupported() {
		t.Fatalf("12d must not be supported")
	}
}

func TestAllowedErrorRate(t *testing.T) {
	def := SLODefinition{TargetPercent: 99.9}
	if got := def.AllowedErrorRate(); got < 0.000999 || got > 0.001001 {
		t.Fatalf("expected 0.001, got %f", got)
	}
}

func TestEnumValidity(t *testing.T) {
	for _, sli := range []SLIType{SLIAvailability, SLILatency, SLIThroughput} {
		if !sli.Valid() {
			t.Fatalf("%s should be valid", sli)
		}
	}
	if SLIType("uptime").Valid() {
		t.Fatalf("uptime is not a valid SLI type")
	}
	if ServiceType("mainframe").Valid() {
		t.Fatalf("mainframe is not a valid service type")
	}
}
