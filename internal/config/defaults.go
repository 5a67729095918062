package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the hardcoded default configuration.
// It mirrors defaults/runner.yaml and is the last fallback of LoadRunner.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: WorldConfig{
			Width:   480,
			Height:  800,
			Lanes:   []float64{100, 240, 380},
			GroundY: 680,
		},
		Player: PlayerConfig{
			Width:            50,
			Height:           70,
			JumpVelocity:     -600,
			Gravity:          800,
			LaneRate:         8,
			LaneSnap:         5,
			SlideHeightRatio: 0.6,
			SlideMS:          800,
			HitGraceMS:       2000,
		},
		Obstacles: ObstacleConfig{
			Barrier:    Size{W: 90, H: 40},
			Train:      Size{W: 90, H: 160},
			LowBarrier: Size{W: 90, H: 25},
			CullMargin: 100,
		},
		Collectibles: CollectibleConfig{
			Coin:         Size{W: 24, H: 24},
			Pickup:       Size{W: 36, H: 36},
			CoinValue:    10,
			CullMargin:   50,
			MagnetRadius: 150,
			MagnetReach:  300,
			MagnetGain:   5,
		},
		Spawn: SpawnConfig{
			CoinIntervalMS:   1500,
			PickupIntervalMS: 15000,
			ClusterWeights:   []int{40, 30, 30},
			ClusterSpacing:   60,
		},
		Effects: EffectsConfig{
			MagnetMS:        8000,
			SpeedMS:         6000,
			ShieldMS:        10000,
			SpeedMultiplier: 1.5,
		},
		Scoring: ScoringConfig{
			SurvivalRate: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:            true,
			BaseSpeed:          300,
			SpeedStep:          50,
			SpeedStepScore:     500,
			ObstacleIntervalMS: 2000,
			IntervalStepMS:     100,
			IntervalStepScore:  200,
			MinIntervalMS:      800,
		},
		Particles: ParticleConfig{
			Enabled:  true,
			Lifetime: 0.6,
			Speed:    180,
			Damping:  0.92,
		},
		Session: SessionConfig{
			Lives:         3,
			MaxDT:         1.0 / 60.0,
			SpectateEvery: 2,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
