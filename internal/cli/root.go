// Package cli wires the engine pipeline to the slo-engine command tree.
package cli

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-slo/internal/config"
	"github.com/miradorstack/mirador-slo/internal/engine"
	"github.com/miradorstack/mirador-slo/internal/metrics"
	"github.com/miradorstack/mirador-slo/internal/report"
	"github.com/miradorstack/mirador-slo/internal/utils"
	"github.com/miradorstack/mirador-slo/pkg/logger"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// app carries the state shared by every subcommand after the root
// PersistentPreRunE has run.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	pipeline *engine.Pipeline
	format   report.Format

	configPath string
	logLevel   string
	logFormat  string
	output     string
	outFile    string
	workers    int
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "slo-engine",
		Short:         "SLO error-budget calculator and metric analyzer",
		Long:          "slo-engine computes SLIs, error budgets and burn rates from metric snapshots,\ndetects anomalies and trends, and renders alert rules and dashboards for\nmonitoring platforms.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (console, json)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "", "Report format (text, json, markdown)")
	rootCmd.PersistentFlags().StringVar(&a.outFile, "out-file", "", "Write the result to this file instead of stdout")
	rootCmd.PersistentFlags().IntVar(&a.workers, "workers", 0, "Number of analysis workers (0 uses one per CPU)")

	rootCmd.AddCommand(
		newSLOCmd(a),
		newAnalyzeCmd(a),
		newAlertsCmd(a),
		newDashboardCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if a.output != "" {
		cfg.Output.Format = a.output
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = a.workers
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.format = format
	a.pipeline = engine.NewPipeline(log, cfg.Workers)
	return nil
}

// emit writes a rendered result to --out-file when set, stdout otherwise.
func (a *app) emit(cmd *cobra.Command, result string) error {
	if a.outFile != "" {
		if err := a.pipeline.WriteOutput(a.outFile, result); err != nil {
			return err
		}
		a.log.Info("result written", "path", a.outFile)
		return nil
	}
	_, err := cmd.OutOrStdout().Write([]byte(result))
	return err
}

func (a *app) dumpSelfMetrics() error {
	path := ""
	if a.cfg != nil {
		path = a.cfg.Output.SelfMetricsPath
	}
	if path == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := metrics.WriteSnapshot(prometheus.DefaultGatherer, &buf); err != nil {
		return utils.Wrap(utils.KindRendering, "cli.dumpSelfMetrics", "gather self metrics", err)
	}
	return utils.WriteFileAtomic(path, buf.Bytes())
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	a := &app{}
	return run(newRootCmd(a), a)
}

func run(rootCmd *cobra.Command, a *app) int {
	err := rootCmd.Execute()
	// The self-metrics dump must capture failed runs too, so it happens
	// outside cobra's post-run hooks.
	if derr := a.dumpSelfMetrics(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		reportError(a, err)
		return exitCode(err)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return ExitOK
}

func reportError(a *app, err error) {
	if a.format == report.FormatJSON {
		envelope := struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}{}
		envelope.Error.Kind = string(utils.KindOf(err))
		envelope.Error.Message = err.Error()
		if out, merr := json.Marshal(envelope); merr == nil {
			os.Stderr.Write(append(out, '\n'))
		}
	}
	if a.log != nil {
		a.log.Error("command failed", "kind", string(utils.KindOf(err)), "error", err.Error())
		_ = a.log.Sync()
		return
	}
	if a.format != report.FormatJSON {
		os.Stderr.WriteString("slo-engine: " + err.Error() + "\n")
	}
}
