// Package config holds the explicit run configuration for the engine.
// Defaults are applied first, then an optional YAML file, then environment
// overrides; the result is validated in one pass before any computation
// starts, so an analysis run never discovers a bad setting halfway through.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config captures every tunable the engine reads.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	SLO      SLOConfig      `yaml:"slo"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	// Workers bounds the analysis worker pool; 0 means one worker per CPU.
	Workers int `yaml:"workers" validate:"gte=0,lte=256"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// SLOConfig holds calculator defaults the CLI flags can override.
type SLOConfig struct {
	MinSamples       int     `yaml:"minSamples" validate:"gte=1"`
	LatencyThreshold float64 `yaml:"latencyThreshold" validate:"gt=0"`
	ThroughputMin    float64 `yaml:"throughputMin" validate:"gt=0"`
	// SuccessBelow is the availability cutoff: sample values below it count
	// as good. The default treats values as HTTP status codes.
	SuccessBelow float64 `yaml:"successBelow" validate:"gt=0"`
}

// AnalysisConfig holds analyzer defaults the CLI flags can override.
type AnalysisConfig struct {
	ZScoreThreshold    float64 `yaml:"zscoreThreshold" validate:"gt=0"`
	BaselineWindow     int     `yaml:"baselineWindow" validate:"gte=0"`
	IQRFactor          float64 `yaml:"iqrFactor" validate:"gt=0"`
	SeasonalThreshold  float64 `yaml:"seasonalThreshold" validate:"gt=0,lte=1"`
	CardinalityCeiling int     `yaml:"cardinalityCeiling" validate:"gte=1"`
}

// OutputConfig controls report encoding and optional self-metrics dump.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json markdown"`
	// SelfMetricsPath, when set, receives the engine's own collectors in
	// text exposition format at the end of a run.
	SelfMetricsPath string `yaml:"selfMetricsPath"`
}

var validate = validator.New()

// Load initialises Config from defaults, an optional YAML file and
// environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MIRADOR_SLO_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		SLO: SLOConfig{
			MinSamples:       2,
			LatencyThreshold: 250,
			ThroughputMin:    1,
			SuccessBelow:     400,
		},
		Analysis: AnalysisConfig{
			ZScoreThreshold:    3.0,
			BaselineWindow:     0,
			IQRFactor:          1.5,
			SeasonalThreshold:  0.6,
			CardinalityCeiling: 10000,
		},
		Output: OutputConfig{Format: "text"},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MIRADOR_SLO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MIRADOR_SLO_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MIRADOR_SLO_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("MIRADOR_SLO_SELF_METRICS_PATH"); v != "" {
		cfg.Output.SelfMetricsPath = v
	}
	if v := os.Getenv("MIRADOR_SLO_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Workers = workers
		}
	}
	if v := os.Getenv("MIRADOR_SLO_MIN_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SLO.MinSamples = n
		}
	}
	if v := os.Getenv("MIRADOR_SLO_ZSCORE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.ZScoreThreshold = f
		}
	}
	if v := os.Getenv("MIRADOR_SLO_CARDINALITY_CEILING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.CardinalityCeiling = n
		}
	}
}
