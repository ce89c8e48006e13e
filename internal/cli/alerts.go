package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-slo/internal/alerts"
	"github.com/miradorstack/mirador-slo/internal/engine"
	"github.com/miradorstack/mirador-slo/internal/platform"
)

func newAlertsCmd(a *app) *cobra.Command {
	var (
		service      string
		serviceType  string
		sliType      string
		target       float64
		window       string
		platformName string
		runbookURL   string
	)

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Render multi-window burn-rate alert rules for a platform",
		Example: `  slo-engine alerts --service checkout --sli availability --target 99.9 \
    --window 30d --platform prometheus --out-file rules.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, svc, err := buildDefinition(service, serviceType, sliType, target, window)
			if err != nil {
				return err
			}
			result, err := a.pipeline.RunAlerts(cmd.Context(), engine.AlertRequest{
				Definition: def,
				Service:    svc,
				Platform:   platformName,
				Options:    alerts.Options{RunbookURL: runbookURL},
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, result)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service the SLO belongs to")
	cmd.Flags().StringVar(&serviceType, "service-type", "api", "Service type (api, database, queue, cache, web)")
	cmd.Flags().StringVar(&sliType, "sli", "availability", "SLI type (availability, latency, throughput)")
	cmd.Flags().Float64Var(&target, "target", 99.9, "SLO target percentage, strictly between 0 and 100")
	cmd.Flags().StringVar(&window, "window", "30d", "SLO window (7d, 30d or 90d)")
	cmd.Flags().StringVar(&platformName, "platform", "prometheus", "Target platform ("+strings.Join(platform.Names(), ", ")+")")
	cmd.Flags().StringVar(&runbookURL, "runbook-url", "", "Runbook URL attached to every rule")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}
