package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
)

// Scoring accumulates score at full precision and derives difficulty from
// the floored value.
type Scoring struct {
	score      float64
	rate       float64
	difficulty *config.DifficultyManager
}

// NewScoring creates a scoring controller.
func NewScoring(cfg config.ScoringConfig, difficulty *config.DifficultyManager) *Scoring {
	return &Scoring{rate: cfg.SurvivalRate, difficulty: difficulty}
}

// AddSurvival accrues the time bonus for dt seconds alive.
func (s *Scoring) AddSurvival(dt float64) {
	s.score += dt * s.rate
}

// AddPoints adds a fixed bonus.
func (s *Scoring) AddPoints(n int) {
	s.score += float64(n)
}

// Score returns the floored score reported to observers.
func (s *Scoring) Score() int {
	return int(math.Floor(s.score))
}

// Raw returns the unrounded score.
func (s *Scoring) Raw() float64 {
	return s.score
}

// ScrollSpeed returns the difficulty scroll speed for the current score.
func (s *Scoring) ScrollSpeed() float64 {
	return s.difficulty.ScrollSpeed(s.Score())
}

// ObstacleInterval returns the obstacle gate interval for the current score.
func (s *Scoring) ObstacleInterval() time.Duration {
	return s.difficulty.ObstacleInterval(s.Score())
}

// Reset zeroes the score.
func (s *Scoring) Reset() {
	s.score = 0
}
