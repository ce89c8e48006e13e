package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-slo/internal/engine"
	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/report"
	"github.com/miradorstack/mirador-slo/internal/slo"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

func newSLOCmd(a *app) *cobra.Command {
	var (
		snapshotPath     string
		metric           string
		service          string
		serviceType      string
		sliType          string
		target           float64
		window           string
		latencyThreshold float64
		throughputMin    float64
		minSamples       int
	)

	cmd := &cobra.Command{
		Use:   "slo",
		Short: "Compute SLI, error budget and burn rates for a metric",
		Example: `  slo-engine slo --snapshot metrics.csv --metric http_requests_total \
    --service checkout --sli availability --target 99.9 --window 30d`,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, svc, err := buildDefinition(service, serviceType, sliType, target, window)
			if err != nil {
				return err
			}

			opts := slo.Options{
				LatencyThreshold: a.cfg.SLO.LatencyThreshold,
				ThroughputMin:    a.cfg.SLO.ThroughputMin,
				MinSamples:       a.cfg.SLO.MinSamples,
				SuccessFn:        successBelow(a.cfg.SLO.SuccessBelow),
			}
			if cmd.Flags().Changed("latency-threshold") {
				opts.LatencyThreshold = latencyThreshold
			}
			if cmd.Flags().Changed("throughput-min") {
				opts.ThroughputMin = throughputMin
			}
			if cmd.Flags().Changed("min-samples") {
				opts.MinSamples = minSamples
			}

			reports, err := a.pipeline.RunSLO(cmd.Context(), engine.SLORequest{
				SnapshotPath: snapshotPath,
				Metric:       metric,
				Service:      svc,
				Definition:   def,
				Options:      opts,
			})
			if err != nil {
				return err
			}

			var out strings.Builder
			for _, r := range reports {
				rendered, rerr := report.RenderSLO(a.format, r)
				if rerr != nil {
					return rerr
				}
				out.WriteString(rendered)
			}
			return a.emit(cmd, out.String())
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Metric snapshot file (.csv, .prom or .txt)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric name to evaluate")
	cmd.Flags().StringVar(&service, "service", "", "Service the SLO belongs to")
	cmd.Flags().StringVar(&serviceType, "service-type", "api", "Service type (api, database, queue, cache, web)")
	cmd.Flags().StringVar(&sliType, "sli", "availability", "SLI type (availability, latency, throughput)")
	cmd.Flags().Float64Var(&target, "target", 99.9, "SLO target percentage, strictly between 0 and 100")
	cmd.Flags().StringVar(&window, "window", "30d", "SLO window (7d, 30d or 90d)")
	cmd.Flags().Float64Var(&latencyThreshold, "latency-threshold", 0, "Latency SLI success threshold in milliseconds")
	cmd.Flags().Float64Var(&throughputMin, "throughput-min", 0, "Throughput SLI minimum rate")
	cmd.Flags().IntVar(&minSamples, "min-samples", 0, "Minimum samples required in the window")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("metric")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

// buildDefinition validates the shared SLO flag set.
func buildDefinition(service, serviceType, sliType string, target float64, window string) (models.SLODefinition, models.ServiceDescriptor, error) {
	const op = "cli.buildDefinition"
	if service == "" {
		return models.SLODefinition{}, models.ServiceDescriptor{}, utils.E(utils.KindInput, op, "service name is required")
	}
	st := models.ServiceType(serviceType)
	if !st.Valid() {
		return models.SLODefinition{}, models.ServiceDescriptor{}, utils.Ef(utils.KindConfiguration, op,
			"unsupported service type %q (supported: api, database, queue, cache, web)", serviceType)
	}
	w, err := utils.ParseWindow(window)
	if err != nil {
		return models.SLODefinition{}, models.ServiceDescriptor{}, err
	}
	def := models.SLODefinition{
		SLIType:       models.SLIType(sliType),
		TargetPercent: target,
		Window:        w,
	}
	svc := models.ServiceDescriptor{ServiceName: service, ServiceType: st}
	return def, svc, nil
}

// successBelow adapts the configured status-code style cutoff into an
// availability classifier.
func successBelow(cutoff float64) func(models.MetricSample) bool {
	if cutoff <= 0 {
		return nil
	}
	return func(s models.MetricSample) bool {
		return s.Value < cutoff
	}
}
