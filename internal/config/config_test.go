package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.SLO.MinSamples)
	assert.Equal(t, 3.0, cfg.Analysis.ZScoreThreshold)
	assert.Equal(t, 1.5, cfg.Analysis.IQRFactor)
	assert.Equal(t, 10000, cfg.Analysis.CardinalityCeiling)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
  format: json
slo:
  minSamples: 10
analysis:
  cardinalityCeiling: 500
workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 10, cfg.SLO.MinSamples)
	assert.Equal(t, 500, cfg.Analysis.CardinalityCeiling)
	assert.Equal(t, 8, cfg.Workers)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3.0, cfg.Analysis.ZScoreThreshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MIRADOR_SLO_LOG_LEVEL", "warn")
	t.Setenv("MIRADOR_SLO_OUTPUT_FORMAT", "json")
	t.Setenv("MIRADOR_SLO_WORKERS", "16")
	t.Setenv("MIRADOR_SLO_CARDINALITY_CEILING", "2000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 2000, cfg.Analysis.CardinalityCeiling)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0o644))
	t.Setenv("MIRADOR_SLO_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad log level":    "logging:\n  level: loud\n",
		"bad format":       "output:\n  format: xml\n",
		"negative workers": "workers: -1\n",
		"zero min samples": "slo:\n  minSamples: 0\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), name)
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}
