package runner

import (
	"time"

	"github.com/vovakirdan/lane-runner/internal/core"
)

// PlayerView is the read-only pose of the player.
type PlayerView struct {
	Pos          core.Vec2 `json:"pos"`
	Lane         int       `json:"lane"`
	TargetLane   int       `json:"target_lane"`
	Jumping      bool      `json:"jumping"`
	Sliding      bool      `json:"sliding"`
	Invulnerable bool      `json:"invulnerable"`
	Box          core.AABB `json:"box"`
}

// ActiveEffect is a live power effect with its remaining time.
type ActiveEffect struct {
	Kind      PowerKind     `json:"kind"`
	Remaining time.Duration `json:"remaining"`
}

// Snapshot is a deep copy of everything a renderer needs.
// Mutating it never affects the game.
type Snapshot struct {
	Tick        uint64         `json:"tick"`
	State       State          `json:"state"`
	Score       int            `json:"score"`
	Lives       int            `json:"lives"`
	Elapsed     time.Duration  `json:"elapsed"`
	ScrollSpeed float64        `json:"scroll_speed"`
	Player      PlayerView     `json:"player"`
	Obstacles   []Obstacle     `json:"obstacles"`
	Coins       []Coin         `json:"coins"`
	Pickups     []Pickup       `json:"pickups"`
	Particles   []Particle     `json:"particles"`
	Effects     []ActiveEffect `json:"effects"`
}

// HasEffect reports whether kind is in the snapshot's active effects.
func (s Snapshot) HasEffect(k PowerKind) bool {
	for _, e := range s.Effects {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Snapshot returns a read-only view of the current world.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        g.ticks,
		State:       g.state,
		Score:       g.scoring.Score(),
		Lives:       g.lives,
		Elapsed:     g.now,
		ScrollSpeed: g.scoring.ScrollSpeed(),
		Player: PlayerView{
			Pos:          g.player.Pos,
			Lane:         g.player.Lane,
			TargetLane:   g.player.TargetLane,
			Jumping:      g.player.Jumping,
			Sliding:      g.player.Sliding,
			Invulnerable: g.player.Invulnerable,
			Box:          g.player.HitBox(),
		},
		Obstacles: append([]Obstacle(nil), g.entities.Obstacles...),
		Coins:     append([]Coin(nil), g.entities.Coins...),
		Pickups:   append([]Pickup(nil), g.entities.Pickups...),
		Particles: g.particles.Items(),
	}

	for _, k := range PowerKinds {
		if g.effects.IsActive(k, g.now) {
			snap.Effects = append(snap.Effects, ActiveEffect{
				Kind:      k,
				Remaining: g.effects.Remaining(k, g.now),
			})
		}
	}
	return snap
}
