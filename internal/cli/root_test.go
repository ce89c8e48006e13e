package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A failed run must still dump self-metrics so the error counters it
// just incremented are not lost.
func TestRunDumpsSelfMetricsOnFailure(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "self.prom")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "output:\n  selfMetricsPath: " + metricsPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a := &app{}
	rootCmd := newRootCmd(a)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{
		"--config", cfgPath,
		"slo",
		"--snapshot", filepath.Join(dir, "missing.csv"),
		"--metric", "http_requests_total",
		"--service", "checkout",
	})

	if code := run(rootCmd, a); code != ExitInput {
		t.Fatalf("expected exit code %d for a missing snapshot, got %d", ExitInput, code)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("self metrics were not written after the failed run: %v", err)
	}
	if !strings.Contains(string(data), "mirador_slo_analyses_total") {
		t.Fatalf("expected analysis counters in the dump, got:\n%s", data)
	}
}
