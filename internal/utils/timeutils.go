package utils

import (
	"time"

	"github.com/prometheus/common/model"
)

// ParseWindow parses a Prometheus-style duration ("5m", "1h", "30d").
func ParseWindow(value string) (model.Duration, error) {
	if value == "" {
		return 0, E(KindConfiguration, "utils.ParseWindow", "empty window value")
	}
	d, err := model.ParseDuration(value)
	if err != nil {
		return 0, Wrap(KindConfiguration, "utils.ParseWindow", "parse window "+value, err)
	}
	if d <= 0 {
		return 0, Ef(KindConfiguration, "utils.ParseWindow", "window %s must be positive", value)
	}
	return d, nil
}

// ParseRFC3339 returns a time from the provided string or an error.
func ParseRFC3339(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, E(KindInput, "utils.ParseRFC3339", "empty time value")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, Wrap(KindInput, "utils.ParseRFC3339", "parse time", err)
	}
	return t, nil
}
