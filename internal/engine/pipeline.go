// Package engine orchestrates snapshot loading, SLO calculation, metric
// analysis, and platform rendering into complete runs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/mirador-slo/internal/alerts"
	"github.com/miradorstack/mirador-slo/internal/analyzer"
	"github.com/miradorstack/mirador-slo/internal/metrics"
	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/platform"
	"github.com/miradorstack/mirador-slo/internal/report"
	"github.com/miradorstack/mirador-slo/internal/slo"
	"github.com/miradorstack/mirador-slo/internal/snapshot"
	"github.com/miradorstack/mirador-slo/internal/utils"
	"github.com/miradorstack/mirador-slo/pkg/logger"
)

// AnalysisKind selects which analysis a pipeline run performs.
type AnalysisKind string

const (
	AnalysisZScore      AnalysisKind = "zscore"
	AnalysisIQR         AnalysisKind = "iqr"
	AnalysisTrend       AnalysisKind = "trend"
	AnalysisCorrelation AnalysisKind = "correlation"
	AnalysisCardinality AnalysisKind = "cardinality"
)

// ParseAnalysisKind validates a user-supplied analysis kind.
func ParseAnalysisKind(s string) (AnalysisKind, error) {
	switch AnalysisKind(s) {
	case AnalysisZScore, AnalysisIQR, AnalysisTrend, AnalysisCorrelation, AnalysisCardinality:
		return AnalysisKind(s), nil
	}
	return "", utils.Ef(utils.KindInput, "engine.ParseAnalysisKind",
		"unknown analysis kind %q (supported: zscore, iqr, trend, correlation, cardinality)", s)
}

// Pipeline wires the calculator and analyzer to snapshot input and
// platform output. A Pipeline is safe for concurrent use.
type Pipeline struct {
	log     logger.Logger
	workers int
}

// NewPipeline builds a Pipeline. workers bounds the analysis fan-out;
// zero or negative means one worker per CPU.
func NewPipeline(log logger.Logger, workers int) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{log: log, workers: workers}
}

// SLORequest describes one error-budget calculation run.
type SLORequest struct {
	SnapshotPath string
	Metric       string
	Service      models.ServiceDescriptor
	Definition   models.SLODefinition
	Options      slo.Options
}

// RunSLO loads the snapshot and computes one error-budget report per
// matching series.
func (p *Pipeline) RunSLO(ctx context.Context, req SLORequest) ([]models.ErrorBudgetReport, error) {
	const op = "engine.RunSLO"
	runID := uuid.NewString()
	start := time.Now()

	series, err := p.loadMetric(op, req.SnapshotPath, req.Metric)
	if err != nil {
		metrics.ObserveAnalysis("slo", time.Since(start), metrics.OutcomeError)
		return nil, err
	}

	reports := make([]models.ErrorBudgetReport, len(series))
	err = p.forEachSeries(ctx, series, func(i int, s models.MetricSeries) error {
		rep, cerr := slo.Calculate(s, req.Definition, req.Options)
		if cerr != nil {
			return cerr
		}
		rep.Service = req.Service.ServiceName
		reports[i] = rep
		return nil
	})
	metrics.AddSeriesAnalyzed(len(series))
	if err != nil {
		metrics.ObserveAnalysis("slo", time.Since(start), metrics.OutcomeError)
		return nil, err
	}

	metrics.ObserveAnalysis("slo", time.Since(start), metrics.OutcomeSuccess)
	p.log.Info("slo run complete",
		"run_id", runID,
		"service", req.Service.ServiceName,
		"metric", req.Metric,
		"series", len(series),
		"duration", time.Since(start).String(),
	)
	return reports, nil
}

// AnalysisRequest describes one analysis run. Metric filters the
// snapshot; correlation additionally needs MetricB. Cardinality ignores
// the filter and inspects every series in the snapshot.
type AnalysisRequest struct {
	SnapshotPath string
	Metric       string
	MetricB      string
	Kind         AnalysisKind
	Config       analyzer.Config
}

// RunAnalysis loads the snapshot and runs the requested analysis across
// the matching series, fanning per-series work out to the worker pool.
func (p *Pipeline) RunAnalysis(ctx context.Context, req AnalysisRequest) (models.AnalysisReport, error) {
	const op = "engine.RunAnalysis"
	runID := uuid.NewString()
	start := time.Now()

	report, n, err := p.runAnalysis(ctx, op, req)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveAnalysis(string(req.Kind), time.Since(start), outcome)
	metrics.AddSeriesAnalyzed(n)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	p.log.Info("analysis run complete",
		"run_id", runID,
		"kind", string(req.Kind),
		"metric", req.Metric,
		"series", n,
		"duration", time.Since(start).String(),
	)
	return report, nil
}

func (p *Pipeline) runAnalysis(ctx context.Context, op string, req AnalysisRequest) (models.AnalysisReport, int, error) {
	if req.Kind == AnalysisCardinality {
		all, err := snapshot.Load(req.SnapshotPath)
		if err != nil {
			return models.AnalysisReport{}, 0, err
		}
		summary := analyzer.Cardinality(all, req.Config)
		return models.AnalysisReport{Cardinality: summary}, len(all), nil
	}

	series, err := p.loadMetric(op, req.SnapshotPath, req.Metric)
	if err != nil {
		return models.AnalysisReport{}, 0, err
	}

	switch req.Kind {
	case AnalysisZScore, AnalysisIQR:
		detect := analyzer.DetectZScore
		if req.Kind == AnalysisIQR {
			detect = analyzer.DetectIQR
		}
		perSeries := make([][]models.AnomalyRecord, len(series))
		err = p.forEachSeries(ctx, series, func(i int, s models.MetricSeries) error {
			recs, derr := detect(s, req.Config)
			if derr != nil {
				return derr
			}
			perSeries[i] = recs
			return nil
		})
		if err != nil {
			return models.AnalysisReport{}, len(series), err
		}
		var merged []models.AnomalyRecord
		for _, recs := range perSeries {
			merged = append(merged, recs...)
		}
		report.SortAnomalies(merged)
		return models.AnalysisReport{Anomalies: merged}, len(series), nil

	case AnalysisTrend:
		trends := make([]models.TrendResult, len(series))
		err = p.forEachSeries(ctx, series, func(i int, s models.MetricSeries) error {
			tr, terr := analyzer.Trend(s, req.Config)
			if terr != nil {
				return terr
			}
			trends[i] = tr
			return nil
		})
		if err != nil {
			return models.AnalysisReport{}, len(series), err
		}
		return models.AnalysisReport{Trends: trends}, len(series), nil

	case AnalysisCorrelation:
		if req.MetricB == "" {
			return models.AnalysisReport{}, 0, utils.E(utils.KindInput, op,
				"correlation requires a second metric name")
		}
		other, err := p.loadMetric(op, req.SnapshotPath, req.MetricB)
		if err != nil {
			return models.AnalysisReport{}, 0, err
		}
		if len(series) > 1 || len(other) > 1 {
			return models.AnalysisReport{}, 0, utils.Ef(utils.KindInput, op,
				"correlation needs exactly one label combination per metric: %s has %d, %s has %d",
				req.Metric, len(series), req.MetricB, len(other))
		}
		res, cerr := analyzer.Correlate(series[0], other[0])
		if cerr != nil {
			return models.AnalysisReport{}, 2, cerr
		}
		return models.AnalysisReport{Correlations: []models.CorrelationResult{res}}, 2, nil
	}

	return models.AnalysisReport{}, 0, utils.Ef(utils.KindInput, op, "unknown analysis kind %q", req.Kind)
}

// AlertRequest describes one alert-rule synthesis and render run.
type AlertRequest struct {
	Definition models.SLODefinition
	Service    models.ServiceDescriptor
	Platform   string
	Options    alerts.Options
}

// RunAlerts synthesizes the multi-window burn-rate rules for the SLO and
// renders them for the target platform.
func (p *Pipeline) RunAlerts(ctx context.Context, req AlertRequest) (string, error) {
	runID := uuid.NewString()
	start := time.Now()

	adapter, err := platform.ForName(req.Platform)
	if err != nil {
		return "", err
	}
	rules, err := alerts.Synthesize(req.Definition, req.Service, req.Options)
	if err != nil {
		return "", err
	}
	out, err := adapter.RenderAlert(rules)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveAnalysis("alerts", time.Since(start), outcome)
	if err != nil {
		return "", err
	}

	p.log.Info("alert render complete",
		"run_id", runID,
		"service", req.Service.ServiceName,
		"platform", adapter.Name(),
		"rules", len(rules),
	)
	return out, nil
}

// DashboardRequest describes one dashboard render run.
type DashboardRequest struct {
	Service  models.ServiceDescriptor
	Platform string
}

// RunDashboard selects the panel set for the service type and renders it
// for the target platform.
func (p *Pipeline) RunDashboard(ctx context.Context, req DashboardRequest) (string, error) {
	runID := uuid.NewString()
	start := time.Now()

	adapter, err := platform.ForName(req.Platform)
	if err != nil {
		return "", err
	}
	spec, err := platform.PanelsFor(req.Service)
	if err != nil {
		return "", err
	}
	out, err := adapter.RenderDashboard(req.Service, spec)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveAnalysis("dashboard", time.Since(start), outcome)
	if err != nil {
		return "", err
	}

	p.log.Info("dashboard render complete",
		"run_id", runID,
		"service", req.Service.ServiceName,
		"platform", adapter.Name(),
		"panels", len(spec.Panels),
	)
	return out, nil
}

// WriteOutput writes a rendered document to path atomically so a failed
// run never leaves a truncated file behind.
func (p *Pipeline) WriteOutput(path, content string) error {
	if err := utils.WriteFileAtomic(path, []byte(content)); err != nil {
		return utils.Wrap(utils.KindRendering, "engine.WriteOutput", fmt.Sprintf("write %s", path), err)
	}
	return nil
}

func (p *Pipeline) loadMetric(op, path, metric string) ([]models.MetricSeries, error) {
	all, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	if metric == "" {
		return nil, utils.E(utils.KindInput, op, "metric name is required")
	}
	series := snapshot.Select(all, metric)
	if len(series) == 0 {
		return nil, utils.Ef(utils.KindInput, op, "metric %q not found in snapshot %s", metric, path)
	}
	return series, nil
}

// forEachSeries runs fn(i, series[i]) across the pool. Each invocation
// owns its index, so workers never write the same result slot.
func (p *Pipeline) forEachSeries(ctx context.Context, series []models.MetricSeries, fn func(int, models.MetricSeries) error) error {
	workers := p.workers
	if workers > len(series) {
		workers = len(series)
	}
	if workers <= 1 {
		for i, s := range series {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i, s); err != nil {
				return err
			}
		}
		return nil
	}

	jobs := make(chan int)
	errs := make([]error, len(series))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				errs[i] = fn(i, series[i])
			}
		}()
	}
	for i := range series {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return errors.Join(errs...)
}
