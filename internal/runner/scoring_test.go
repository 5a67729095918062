package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
)

func newTestScoring() *Scoring {
	cfg := config.DefaultRunnerConfig()
	return NewScoring(cfg.Scoring, config.NewDifficultyManager(cfg.Difficulty))
}

func TestScrollSpeedFromSurvival(t *testing.T) {
	s := newTestScoring()
	if s.ScrollSpeed() != 300 {
		t.Fatalf("ScrollSpeed() at 0 = %v, expected 300", s.ScrollSpeed())
	}

	s.AddSurvival(50)
	if s.Score() != 500 {
		t.Fatalf("Score() = %d, expected 500", s.Score())
	}
	if s.ScrollSpeed() != 350 {
		t.Errorf("ScrollSpeed() at 500 = %v, expected 350", s.ScrollSpeed())
	}
}

func TestObstacleIntervalFromScore(t *testing.T) {
	tests := []struct {
		points   int
		expected time.Duration
	}{
		{0, 2000 * time.Millisecond},
		{199, 2000 * time.Millisecond},
		{400, 1800 * time.Millisecond},
		{1000, 1500 * time.Millisecond},
		{100000, 800 * time.Millisecond},
	}

	for _, tc := range tests {
		s := newTestScoring()
		s.AddPoints(tc.points)
		if got := s.ObstacleInterval(); got != tc.expected {
			t.Errorf("ObstacleInterval() at %d = %v, expected %v", tc.points, got, tc.expected)
		}
	}
}

func TestScoreFloors(t *testing.T) {
	s := newTestScoring()
	s.AddSurvival(0.19)

	if s.Score() != 1 {
		t.Errorf("Score() = %d, expected 1", s.Score())
	}
	if s.Raw() <= 1 {
		t.Errorf("Raw() = %v, expected above 1", s.Raw())
	}

	s.Reset()
	if s.Score() != 0 || s.Raw() != 0 {
		t.Errorf("after Reset() score = %d raw = %v", s.Score(), s.Raw())
	}
}
