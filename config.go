package ponder

import (
	"time"

	"github.com/zoobzio/zyn"
)

// Default configuration for the thinking engine. These can be overridden
// per-Thinker using builder methods.
var (
	// DefaultMinThoughtInterval is the minimum wall-clock gap the pacing
	// gate enforces between consecutive thoughts in one session. It keeps
	// callers from hammering a backend faster than a human-paced reasoning
	// loop and gives rate-limited backends room to breathe.
	DefaultMinThoughtInterval = 2000 * time.Millisecond

	// DefaultRecentThoughtWindow is how many prior thoughts the prompt
	// assembler folds into each generation call.
	DefaultRecentThoughtWindow = 2

	// DefaultReasoningMode applies when a request does not specify one.
	DefaultReasoningMode = ModeAnalytical
)

// temperatureFor maps a reasoning mode onto the zyn temperature presets.
// Critical reasoning is kept deterministic; creative reasoning gets
// headroom; everything else uses the analytical preset.
func temperatureFor(mode ReasoningMode) float32 {
	switch mode {
	case ModeCreative:
		return zyn.DefaultTemperatureCreative
	case ModeCritical:
		return zyn.DefaultTemperatureDeterministic
	default:
		return zyn.DefaultTemperatureAnalytical
	}
}
