// Package snapshot loads metrics snapshot files into the in-memory series
// model. Two input encodings are supported: CSV with columns
// timestamp,metric_name,labels,value and the Prometheus text exposition
// format. Every invocation is stateless; files are closed on all paths.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Load reads the snapshot at path, choosing the decoder from the file
// extension: .csv for CSV, .prom or .txt for text exposition format.
func Load(path string) ([]models.MetricSeries, error) {
	const op = "snapshot.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, utils.Wrap(utils.KindInput, op, "open snapshot", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(f)
	case ".prom", ".txt":
		return LoadExposition(f)
	default:
		return nil, utils.Ef(utils.KindInput, op, "unsupported snapshot extension %q (want .csv, .prom or .txt)", ext)
	}
}

// Select returns the series whose metric name matches. An empty name keeps
// everything.
func Select(series []models.MetricSeries, name string) []models.MetricSeries {
	if name == "" {
		return series
	}
	selected := make([]models.MetricSeries, 0, len(series))
	for _, s := range series {
		if s.Name == name {
			selected = append(selected, s)
		}
	}
	return selected
}

type seriesBuilder struct {
	order  []model.Fingerprint
	series map[model.Fingerprint]*models.MetricSeries
}

func newSeriesBuilder() *seriesBuilder {
	return &seriesBuilder{series: make(map[model.Fingerprint]*models.MetricSeries)}
}

func (b *seriesBuilder) add(name string, labels map[string]string, sample models.MetricSample) error {
	const op = "snapshot.add"

	if !model.IsValidMetricName(model.LabelValue(name)) {
		return utils.Ef(utils.KindInput, op, "invalid metric name %q", name)
	}
	for k := range labels {
		if !model.LabelName(k).IsValid() {
			return utils.Ef(utils.KindInput, op, "series %s: invalid label name %q", name, k)
		}
	}

	key := models.MetricSeries{Name: name, Labels: labels}.Fingerprint()
	s, ok := b.series[key]
	if !ok {
		s = &models.MetricSeries{Name: name, Labels: labels}
		b.series[key] = s
		b.order = append(b.order, key)
	}
	if n := len(s.Samples); n > 0 && !sample.Timestamp.After(s.Samples[n-1].Timestamp) {
		return utils.Ef(utils.KindInput, op,
			"series %s: timestamp %s is not after previous sample %s",
			name, sample.Timestamp.Format(time.RFC3339Nano), s.Samples[n-1].Timestamp.Format(time.RFC3339Nano))
	}
	s.Samples = append(s.Samples, sample)
	return nil
}

func (b *seriesBuilder) finish() []models.MetricSeries {
	out := make([]models.MetricSeries, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.series[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadCSV decodes a timestamp,metric_name,labels,value snapshot. The labels
// column holds semicolon-separated key=value pairs and may be empty. A
// header row is skipped when the first column does not parse as a timestamp.
func LoadCSV(r io.Reader) ([]models.MetricSeries, error) {
	const op = "snapshot.LoadCSV"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	builder := newSeriesBuilder()
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, utils.Wrap(utils.KindInput, op, "read csv", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}
		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, utils.Wrap(utils.KindInput, op, fmt.Sprintf("line %d: bad timestamp %q", line, record[0]), err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, utils.Wrap(utils.KindInput, op, fmt.Sprintf("line %d: bad value %q", line, record[3]), err)
		}
		labels, err := parseLabels(record[2])
		if err != nil {
			return nil, utils.Wrap(utils.KindInput, op, fmt.Sprintf("line %d: bad labels %q", line, record[2]), err)
		}

		sample := models.MetricSample{Timestamp: ts, Value: value}
		if err := builder.add(strings.TrimSpace(record[1]), labels, sample); err != nil {
			return nil, err
		}
	}

	series := builder.finish()
	if len(series) == 0 {
		return nil, utils.E(utils.KindInput, op, "snapshot contains no samples")
	}
	return series, nil
}

// LoadExposition decodes a Prometheus text exposition snapshot. Samples must
// carry explicit timestamps; counter, gauge and untyped families are
// ingested, histogram and summary families are rejected since the engine
// operates on raw sample sequences.
func LoadExposition(r io.Reader) ([]models.MetricSeries, error) {
	const op = "snapshot.LoadExposition"

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, utils.Wrap(utils.KindInput, op, "parse exposition format", err)
	}

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	builder := newSeriesBuilder()
	for _, name := range names {
		family := families[name]
		for _, m := range family.GetMetric() {
			value, err := sampleValue(family.GetType(), m)
			if err != nil {
				return nil, utils.Wrap(utils.KindInput, op, "family "+name, err)
			}
			if m.TimestampMs == nil {
				return nil, utils.Ef(utils.KindInput, op, "series %s: sample without timestamp", name)
			}
			labels := make(map[string]string, len(m.GetLabel()))
			for _, pair := range m.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			sample := models.MetricSample{
				Timestamp: time.UnixMilli(m.GetTimestampMs()).UTC(),
				Value:     value,
			}
			if err := builder.add(name, labels, sample); err != nil {
				return nil, err
			}
		}
	}

	series := builder.finish()
	if len(series) == 0 {
		return nil, utils.E(utils.KindInput, op, "snapshot contains no samples")
	}
	return series, nil
}

func sampleValue(t dto.MetricType, m *dto.Metric) (float64, error) {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), nil
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), nil
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), nil
	default:
		return 0, fmt.Errorf("unsupported metric type %s", t)
	}
}

// parseTimestamp accepts RFC3339 or a unix epoch in seconds (integer or
// fractional).
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := utils.ParseRFC3339(value); err == nil {
		return t.UTC(), nil
	}
	epoch, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("neither RFC3339 nor unix epoch: %q", value)
	}
	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC(), nil
}

func parseLabels(value string) (map[string]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	labels := make(map[string]string)
	for _, pair := range strings.Split(value, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("label pair %q is not key=value", pair)
		}
		labels[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}
