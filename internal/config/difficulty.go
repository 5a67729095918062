package config

import "time"

// DifficultyManager derives scroll speed and the obstacle spawn interval
// from the current (floored) score. Both are step functions of the score.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// ScrollSpeed returns base + floor(score/step)*speedStep in units per second.
func (d *DifficultyManager) ScrollSpeed(score int) float64 {
	if !d.cfg.Enabled {
		return d.cfg.BaseSpeed
	}
	return d.cfg.BaseSpeed + float64(steps(score, d.cfg.SpeedStepScore))*d.cfg.SpeedStep
}

// ObstacleInterval returns max(min, base - floor(score/step)*stepMS).
func (d *DifficultyManager) ObstacleInterval(score int) time.Duration {
	ms := d.cfg.ObstacleIntervalMS
	if d.cfg.Enabled {
		ms -= steps(score, d.cfg.IntervalStepScore) * d.cfg.IntervalStepMS
	}
	if ms < d.cfg.MinIntervalMS {
		ms = d.cfg.MinIntervalMS
	}
	return millis(ms)
}

// steps returns floor(score/per), treating a non-positive step size as
// "never steps".
func steps(score, per int) int {
	if per <= 0 || score <= 0 {
		return 0
	}
	return score / per
}
