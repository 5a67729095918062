// Package config provides YAML-based configuration loading, validation and
// the difficulty curve for the lane runner.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure. Construction of a
// game fails fast with it before the first tick runs.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// LaneCount is the fixed number of lanes in the corridor.
const LaneCount = 3

// RunnerConfig contains all configuration for the lane runner simulation.
type RunnerConfig struct {
	World        WorldConfig       `yaml:"world"`
	Player       PlayerConfig      `yaml:"player"`
	Obstacles    ObstacleConfig    `yaml:"obstacles"`
	Collectibles CollectibleConfig `yaml:"collectibles"`
	Spawn        SpawnConfig       `yaml:"spawn"`
	Effects      EffectsConfig     `yaml:"effects"`
	Scoring      ScoringConfig     `yaml:"scoring"`
	Difficulty   DifficultyConfig  `yaml:"difficulty"`
	Particles    ParticleConfig    `yaml:"particles"`
	Session      SessionConfig     `yaml:"session"`
}

// WorldConfig is the geometry supplied by the rendering side: lane centers,
// the ground line and the visible band.
type WorldConfig struct {
	Width   float64   `yaml:"width"`
	Height  float64   `yaml:"height"`
	Lanes   []float64 `yaml:"lanes"` // X coordinate of each lane center
	GroundY float64   `yaml:"ground_y"`
}

// PlayerConfig defines player kinematics.
type PlayerConfig struct {
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	JumpVelocity     float64 `yaml:"jump_velocity"` // Negative = up
	Gravity          float64 `yaml:"gravity"`
	LaneRate         float64 `yaml:"lane_rate"` // Exponential steering rate per second
	LaneSnap         float64 `yaml:"lane_snap"` // Distance at which the lane index snaps
	SlideHeightRatio float64 `yaml:"slide_height_ratio"`
	SlideMS          int     `yaml:"slide_ms"`
	HitGraceMS       int     `yaml:"hit_grace_ms"`
}

// Size is a fixed width/height pair in world units.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// ObstacleConfig defines the dimension table for obstacle types.
type ObstacleConfig struct {
	Barrier    Size    `yaml:"barrier"`
	Train      Size    `yaml:"train"`
	LowBarrier Size    `yaml:"low_barrier"`
	CullMargin float64 `yaml:"cull_margin"`
}

// CollectibleConfig defines coins, power pickups and the magnet pull.
type CollectibleConfig struct {
	Coin         Size    `yaml:"coin"`
	Pickup       Size    `yaml:"pickup"`
	CoinValue    int     `yaml:"coin_value"`
	CullMargin   float64 `yaml:"cull_margin"`
	MagnetRadius float64 `yaml:"magnet_radius"` // Coins closer than this are pulled
	MagnetReach  float64 `yaml:"magnet_reach"`  // strength = min(1, reach/distance)
	MagnetGain   float64 `yaml:"magnet_gain"`
}

// SpawnConfig defines the fixed spawn gates and coin clusters.
// The obstacle gate lives in DifficultyConfig because it follows the score.
type SpawnConfig struct {
	CoinIntervalMS   int     `yaml:"coin_interval_ms"`
	PickupIntervalMS int     `yaml:"pickup_interval_ms"`
	ClusterWeights   []int   `yaml:"cluster_weights"` // Weights for 1, 2, 3 coins
	ClusterSpacing   float64 `yaml:"cluster_spacing"`
}

// EffectsConfig defines power effect durations.
type EffectsConfig struct {
	MagnetMS        int     `yaml:"magnet_ms"`
	SpeedMS         int     `yaml:"speed_ms"`
	ShieldMS        int     `yaml:"shield_ms"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

// ScoringConfig defines score accrual.
type ScoringConfig struct {
	SurvivalRate float64 `yaml:"survival_rate"` // Points per second alive
}

// DifficultyConfig defines the score-driven difficulty curve.
type DifficultyConfig struct {
	Enabled            bool    `yaml:"enabled"`
	BaseSpeed          float64 `yaml:"base_speed"`
	SpeedStep          float64 `yaml:"speed_step"`
	SpeedStepScore     int     `yaml:"speed_step_score"`
	ObstacleIntervalMS int     `yaml:"obstacle_interval_ms"`
	IntervalStepMS     int     `yaml:"interval_step_ms"`
	IntervalStepScore  int     `yaml:"interval_step_score"`
	MinIntervalMS      int     `yaml:"min_interval_ms"`
}

// ParticleConfig defines the cosmetic particle bursts.
type ParticleConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Lifetime float64 `yaml:"lifetime"` // Seconds
	Speed    float64 `yaml:"speed"`    // Max initial speed in units per second
	Damping  float64 `yaml:"damping"`  // Velocity factor applied per 1/60 s
}

// SessionConfig defines per-session rules and the tick clamp.
type SessionConfig struct {
	Lives         int     `yaml:"lives"`
	MaxDT         float64 `yaml:"max_dt"`         // Upper bound for one tick in seconds
	SpectateEvery int     `yaml:"spectate_every"` // Ticks between spectator frames
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Empty means "use config as is".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// SlideDuration returns how long a slide lasts.
func (p PlayerConfig) SlideDuration() time.Duration {
	return millis(p.SlideMS)
}

// HitGrace returns the invulnerability window granted after a hit.
func (p PlayerConfig) HitGrace() time.Duration {
	return millis(p.HitGraceMS)
}

// CoinInterval returns the coin gate interval.
func (s SpawnConfig) CoinInterval() time.Duration {
	return millis(s.CoinIntervalMS)
}

// PickupInterval returns the power pickup gate interval.
func (s SpawnConfig) PickupInterval() time.Duration {
	return millis(s.PickupIntervalMS)
}

// MaxStep returns the tick clamp as a duration.
func (s SessionConfig) MaxStep() time.Duration {
	return time.Duration(s.MaxDT * float64(time.Second))
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Validate checks the configuration for values every later computation
// divides or interpolates over.
func (c RunnerConfig) Validate() error {
	w := c.World
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: world must have positive area, got %vx%v", ErrInvalidConfig, w.Width, w.Height)
	}
	if len(w.Lanes) != LaneCount {
		return fmt.Errorf("%w: need exactly %d lanes, got %d", ErrInvalidConfig, LaneCount, len(w.Lanes))
	}
	for i := 1; i < len(w.Lanes); i++ {
		if w.Lanes[i] <= w.Lanes[i-1] {
			return fmt.Errorf("%w: lanes must be strictly ascending, got %v", ErrInvalidConfig, w.Lanes)
		}
	}
	if w.GroundY <= 0 || w.GroundY > w.Height {
		return fmt.Errorf("%w: ground_y %v outside world height %v", ErrInvalidConfig, w.GroundY, w.Height)
	}

	sizes := map[string]Size{
		"player":      {W: c.Player.Width, H: c.Player.Height},
		"barrier":     c.Obstacles.Barrier,
		"train":       c.Obstacles.Train,
		"low_barrier": c.Obstacles.LowBarrier,
		"coin":        c.Collectibles.Coin,
		"pickup":      c.Collectibles.Pickup,
	}
	for name, s := range sizes {
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%w: %s must have positive size, got %vx%v", ErrInvalidConfig, name, s.W, s.H)
		}
	}

	if r := c.Player.SlideHeightRatio; r <= 0 || r > 1 {
		return fmt.Errorf("%w: slide_height_ratio %v outside (0, 1]", ErrInvalidConfig, r)
	}
	if c.Session.Lives <= 0 {
		return fmt.Errorf("%w: lives must be positive, got %d", ErrInvalidConfig, c.Session.Lives)
	}
	if c.Session.MaxDT <= 0 {
		return fmt.Errorf("%w: max_dt must be positive, got %v", ErrInvalidConfig, c.Session.MaxDT)
	}
	if c.Spawn.CoinIntervalMS <= 0 || c.Spawn.PickupIntervalMS <= 0 {
		return fmt.Errorf("%w: spawn intervals must be positive", ErrInvalidConfig)
	}
	if len(c.Spawn.ClusterWeights) != LaneCount {
		return fmt.Errorf("%w: need %d cluster weights, got %d", ErrInvalidConfig, LaneCount, len(c.Spawn.ClusterWeights))
	}
	total := 0
	for _, wt := range c.Spawn.ClusterWeights {
		if wt < 0 {
			return fmt.Errorf("%w: cluster weights must not be negative, got %v", ErrInvalidConfig, c.Spawn.ClusterWeights)
		}
		total += wt
	}
	if total == 0 {
		return fmt.Errorf("%w: cluster weights must not all be zero", ErrInvalidConfig)
	}
	if c.Difficulty.ObstacleIntervalMS <= 0 || c.Difficulty.MinIntervalMS <= 0 {
		return fmt.Errorf("%w: obstacle intervals must be positive", ErrInvalidConfig)
	}
	return nil
}
