package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-slo/internal/engine"
	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/platform"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		service      string
		serviceType  string
		platformName string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render a RED or USE dashboard for a service",
		Example: `  slo-engine dashboard --service checkout --service-type api \
    --platform datadog --out-file dashboard.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "cli.dashboard"
			if service == "" {
				return utils.E(utils.KindInput, op, "service name is required")
			}
			st := models.ServiceType(serviceType)
			if !st.Valid() {
				return utils.Ef(utils.KindConfiguration, op,
					"unsupported service type %q (supported: api, database, queue, cache, web)", serviceType)
			}
			result, err := a.pipeline.RunDashboard(cmd.Context(), engine.DashboardRequest{
				Service:  models.ServiceDescriptor{ServiceName: service, ServiceType: st},
				Platform: platformName,
			})
			if err != nil {
				return err
			}
			return a.emit(cmd, result)
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service the dashboard targets")
	cmd.Flags().StringVar(&serviceType, "service-type", "api", "Service type (api, database, queue, cache, web)")
	cmd.Flags().StringVar(&platformName, "platform", "prometheus", "Target platform ("+strings.Join(platform.Names(), ", ")+")")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}
