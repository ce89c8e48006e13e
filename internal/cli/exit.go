package cli

import "github.com/miradorstack/mirador-slo/internal/utils"

// Exit codes distinguish failure classes for scripting callers.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitInput            = 2
	ExitInsufficientData = 3
	ExitConfiguration    = 4
	ExitRendering        = 5
)

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch utils.KindOf(err) {
	case utils.KindInput:
		return ExitInput
	case utils.KindInsufficientData:
		return ExitInsufficientData
	case utils.KindConfiguration:
		return ExitConfiguration
	case utils.KindRendering:
		return ExitRendering
	}
	return ExitError
}
