package platform

import (
	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// PanelsFor selects the panel template set for a service: the RED method
// (rate, errors, duration) for request-serving services and the USE method
// (utilization, saturation, errors) for resource-bound ones.
func PanelsFor(desc models.ServiceDescriptor) (models.PanelSpec, error) {
	const op = "platform.PanelsFor"

	switch desc.ServiceType {
	case models.ServiceTypeAPI, models.ServiceTypeWeb:
		return models.PanelSpec{
			Method: "RED",
			Panels: []models.Panel{
				{Title: "Request rate", Kind: models.PanelRate, Metric: "http_requests_total", Unit: "req/s"},
				{Title: "Error rate", Kind: models.PanelErrors, Metric: "http_requests_errors_total", Unit: "%"},
				{Title: "Request duration (p95)", Kind: models.PanelDuration, Metric: "http_request_duration_seconds", Unit: "s"},
			},
		}, nil
	case models.ServiceTypeDatabase, models.ServiceTypeQueue, models.ServiceTypeCache:
		return models.PanelSpec{
			Method: "USE",
			Panels: []models.Panel{
				{Title: "Utilization", Kind: models.PanelUtilization, Metric: "resource_utilization_ratio", Unit: "%"},
				{Title: "Saturation", Kind: models.PanelSaturation, Metric: "resource_saturation_ratio", Unit: "%"},
				{Title: "Errors", Kind: models.PanelErrors, Metric: "resource_errors_total", Unit: "count"},
			},
		}, nil
	default:
		return models.PanelSpec{}, utils.Ef(utils.KindConfiguration, op, "unsupported service type %q", desc.ServiceType)
	}
}
