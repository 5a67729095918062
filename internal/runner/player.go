package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Tick is one clock sample shared by every subsystem during a step.
type Tick struct {
	DT      float64       // Clamped delta in seconds
	Elapsed time.Duration // DT as a duration
	Now     time.Duration // Simulation clock after this tick
}

// Player is the runner. Position is the center of the standing hit-box.
type Player struct {
	Pos          core.Vec2
	Lane         int
	TargetLane   int
	VelY         float64
	Jumping      bool
	Sliding      bool
	SlideLeft    time.Duration
	Invulnerable bool
	InvulnLeft   time.Duration

	cfg     config.PlayerConfig
	groundY float64
}

// NewPlayer creates a player standing on the ground in the center lane.
func NewPlayer(cfg config.PlayerConfig, lanes []float64, groundY float64) *Player {
	lane := len(lanes) / 2
	return &Player{
		Pos:        core.V(lanes[lane], groundY),
		Lane:       lane,
		TargetLane: lane,
		cfg:        cfg,
		groundY:    groundY,
	}
}

// Update advances steering, jump physics and the slide/invulnerability timers.
func (p *Player) Update(t Tick, lanes []float64) {
	p.steer(t.DT, lanes)

	if p.Jumping {
		p.VelY += p.cfg.Gravity * t.DT
		p.Pos.Y += p.VelY * t.DT
		if p.Pos.Y >= p.groundY {
			p.Pos.Y = p.groundY
			p.VelY = 0
			p.Jumping = false
		}
	}

	if p.Sliding {
		p.SlideLeft -= t.Elapsed
		if p.SlideLeft <= 0 {
			p.SlideLeft = 0
			p.Sliding = false
		}
	}

	if p.Invulnerable {
		p.InvulnLeft -= t.Elapsed
		if p.InvulnLeft <= 0 {
			p.InvulnLeft = 0
			p.Invulnerable = false
		}
	}
}

// steer moves x toward the target lane by exponential interpolation and
// snaps the lane index once close enough.
func (p *Player) steer(dt float64, lanes []float64) {
	target := lanes[p.TargetLane]
	p.Pos.X += (target - p.Pos.X) * min(1, p.cfg.LaneRate*dt)
	if math.Abs(target-p.Pos.X) < p.cfg.LaneSnap {
		p.Lane = p.TargetLane
	}
}

// MoveLane shifts the target lane by the sign of dir, clamped to the corridor.
func (p *Player) MoveLane(dir int) {
	switch {
	case dir < 0:
		dir = -1
	case dir > 0:
		dir = 1
	default:
		return
	}
	p.TargetLane = core.Clamp(p.TargetLane+dir, 0, config.LaneCount-1)
}

// Jump starts a jump. Returns false if already jumping or sliding.
func (p *Player) Jump() bool {
	if p.Jumping || p.Sliding {
		return false
	}
	p.Jumping = true
	p.VelY = p.cfg.JumpVelocity
	return true
}

// Slide starts a slide. Returns false if already jumping or sliding.
func (p *Player) Slide() bool {
	if p.Jumping || p.Sliding {
		return false
	}
	p.Sliding = true
	p.SlideLeft = p.cfg.SlideDuration()
	return true
}

// GrantInvulnerability makes the player invulnerable for at least d.
// A shorter grant never cuts an existing window.
func (p *Player) GrantInvulnerability(d time.Duration) {
	p.Invulnerable = true
	if d > p.InvulnLeft {
		p.InvulnLeft = d
	}
}

// HitBox returns the collision box. While sliding the box keeps its bottom
// edge and loses height from the top.
func (p *Player) HitBox() core.AABB {
	box := core.BoxAround(p.Pos, p.cfg.Width, p.cfg.Height)
	if p.Sliding {
		h := p.cfg.Height * p.cfg.SlideHeightRatio
		box.Y += box.H - h
		box.H = h
	}
	return box
}
