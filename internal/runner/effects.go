package runner

import (
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
)

// Effects maps each power kind to its expiry on the simulation clock.
// There is at most one entry per kind; absence means inactive.
type Effects struct {
	expiry    [powerKindCount]time.Duration
	live      [powerKindCount]bool
	durations [powerKindCount]time.Duration
}

// NewEffects creates an empty registry with durations from cfg.
func NewEffects(cfg config.EffectsConfig) *Effects {
	e := &Effects{}
	e.durations[PowerMagnet] = time.Duration(cfg.MagnetMS) * time.Millisecond
	e.durations[PowerSpeed] = time.Duration(cfg.SpeedMS) * time.Millisecond
	e.durations[PowerShield] = time.Duration(cfg.ShieldMS) * time.Millisecond
	return e
}

// Duration returns how long an activation of kind lasts.
func (e *Effects) Duration(k PowerKind) time.Duration {
	if !valid(k) {
		return 0
	}
	return e.durations[k]
}

// Activate sets the expiry of kind to now + duration, replacing any earlier
// expiry. Returns the new expiry.
func (e *Effects) Activate(k PowerKind, now time.Duration) time.Duration {
	if !valid(k) {
		return 0
	}
	e.expiry[k] = now + e.durations[k]
	e.live[k] = true
	return e.expiry[k]
}

// IsActive reports whether kind has an entry that has not yet expired.
func (e *Effects) IsActive(k PowerKind, now time.Duration) bool {
	return valid(k) && e.live[k] && now < e.expiry[k]
}

// entry returns the expiry of kind and whether an entry exists.
func (e *Effects) entry(k PowerKind) (time.Duration, bool) {
	if !valid(k) || !e.live[k] {
		return 0, false
	}
	return e.expiry[k], true
}

// Remaining returns the time left on kind, or 0 if inactive.
func (e *Effects) Remaining(k PowerKind, now time.Duration) time.Duration {
	if !e.IsActive(k, now) {
		return 0
	}
	return e.expiry[k] - now
}

// Tick purges expired entries and returns the kinds that just expired.
func (e *Effects) Tick(now time.Duration) []PowerKind {
	var expired []PowerKind
	for _, k := range PowerKinds {
		if e.live[k] && now >= e.expiry[k] {
			e.live[k] = false
			e.expiry[k] = 0
			expired = append(expired, k)
		}
	}
	return expired
}

// Reset clears every entry.
func (e *Effects) Reset() {
	e.expiry = [powerKindCount]time.Duration{}
	e.live = [powerKindCount]bool{}
}

func valid(k PowerKind) bool {
	return k >= 0 && k < powerKindCount
}
