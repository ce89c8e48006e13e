package cli

import (
	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-slo/internal/analyzer"
	"github.com/miradorstack/mirador-slo/internal/engine"
	"github.com/miradorstack/mirador-slo/internal/report"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		snapshotPath       string
		metric             string
		metricB            string
		kind               string
		zscoreThreshold    float64
		baselineWindow     int
		iqrFactor          float64
		seasonLag          int
		cardinalityCeiling int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Detect anomalies, trends, correlations and cardinality risks",
		Example: `  slo-engine analyze --snapshot metrics.csv --metric request_latency_ms --kind zscore
  slo-engine analyze --snapshot metrics.csv --metric errors --metric-b latency --kind correlation
  slo-engine analyze --snapshot metrics.prom --kind cardinality`,
		RunE: func(cmd *cobra.Command, args []string) error {
			analysisKind, err := engine.ParseAnalysisKind(kind)
			if err != nil {
				return err
			}

			cfg := analyzer.Config{
				ZScoreThreshold:    a.cfg.Analysis.ZScoreThreshold,
				BaselineWindow:     a.cfg.Analysis.BaselineWindow,
				IQRFactor:          a.cfg.Analysis.IQRFactor,
				SeasonalThreshold:  a.cfg.Analysis.SeasonalThreshold,
				CardinalityCeiling: a.cfg.Analysis.CardinalityCeiling,
			}
			if cmd.Flags().Changed("zscore-threshold") {
				cfg.ZScoreThreshold = zscoreThreshold
			}
			if cmd.Flags().Changed("baseline-window") {
				cfg.BaselineWindow = baselineWindow
			}
			if cmd.Flags().Changed("iqr-factor") {
				cfg.IQRFactor = iqrFactor
			}
			if cmd.Flags().Changed("season-lag") {
				cfg.SeasonLag = seasonLag
			}
			if cmd.Flags().Changed("cardinality-ceiling") {
				cfg.CardinalityCeiling = cardinalityCeiling
			}

			result, err := a.pipeline.RunAnalysis(cmd.Context(), engine.AnalysisRequest{
				SnapshotPath: snapshotPath,
				Metric:       metric,
				MetricB:      metricB,
				Kind:         analysisKind,
				Config:       cfg,
			})
			if err != nil {
				return err
			}

			rendered, err := report.RenderAnalysis(a.format, result)
			if err != nil {
				return err
			}
			return a.emit(cmd, rendered)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Metric snapshot file (.csv, .prom or .txt)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric name to analyze (ignored by cardinality)")
	cmd.Flags().StringVar(&metricB, "metric-b", "", "Second metric name for correlation; both metrics must resolve to a single label combination")
	cmd.Flags().StringVar(&kind, "kind", "zscore", "Analysis kind (zscore, iqr, trend, correlation, cardinality)")
	cmd.Flags().Float64Var(&zscoreThreshold, "zscore-threshold", 0, "Z-score above which a sample is anomalous")
	cmd.Flags().IntVar(&baselineWindow, "baseline-window", 0, "Trailing baseline size for rolling z-score (0 uses the whole series)")
	cmd.Flags().Float64Var(&iqrFactor, "iqr-factor", 0, "Tukey fence multiplier for IQR detection")
	cmd.Flags().IntVar(&seasonLag, "season-lag", 0, "Sample lag checked for seasonality during trend analysis")
	cmd.Flags().IntVar(&cardinalityCeiling, "cardinality-ceiling", 0, "Unique label combinations a series may reach before being flagged")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}
