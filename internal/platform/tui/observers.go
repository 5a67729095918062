package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/runner"
)

// LogObserver reports state changes and sound cues to logger at debug level.
// Score changes are too frequent to log.
func LogObserver(logger *log.Logger) runner.Observer {
	return runner.ObserverFuncs{
		StateChange: func(s runner.State) {
			logger.Debug("state changed", "state", s)
		},
		SoundEvent: func(s runner.Sound) {
			logger.Debug("sound", "cue", s)
		},
	}
}
