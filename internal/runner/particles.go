package runner

import (
	"math"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Particle is a cosmetic spark. Gameplay never reads particles.
type Particle struct {
	Pos   core.Vec2  `json:"pos"`
	Vel   core.Vec2  `json:"vel"`
	Color core.Color `json:"color"`
	Life  float64    `json:"life"` // Seconds left
}

// Particles is the visual-effects buffer. It owns a private RNG so bursts
// never shift the gameplay random sequence, and a disabled buffer is a
// no-op.
type Particles struct {
	items []Particle
	rng   *core.RNG
	cfg   config.ParticleConfig
}

// NewParticles creates an empty buffer.
func NewParticles(cfg config.ParticleConfig, seed int64) *Particles {
	return &Particles{
		items: make([]Particle, 0, 64),
		rng:   core.NewRNG(seed),
		cfg:   cfg,
	}
}

// Burst spawns n particles at pos flying in random directions.
func (p *Particles) Burst(pos core.Vec2, n int, c core.Color) {
	if !p.cfg.Enabled {
		return
	}
	for i := 0; i < n; i++ {
		angle := p.rng.Range(0, 2*math.Pi)
		speed := p.rng.Range(p.cfg.Speed/3, p.cfg.Speed)
		p.items = append(p.items, Particle{
			Pos:   pos,
			Vel:   core.V(math.Cos(angle)*speed, math.Sin(angle)*speed),
			Color: c,
			Life:  p.cfg.Lifetime,
		})
	}
}

// Update integrates, damps and expires particles.
func (p *Particles) Update(dt float64) {
	damping := math.Pow(p.cfg.Damping, dt*60)
	alive := p.items[:0]
	for _, it := range p.items {
		it.Life -= dt
		if it.Life <= 0 {
			continue
		}
		it.Pos = it.Pos.Add(it.Vel.Scale(dt))
		it.Vel = it.Vel.Scale(damping)
		alive = append(alive, it)
	}
	p.items = alive
}

// Items returns a copy of the live particles.
func (p *Particles) Items() []Particle {
	out := make([]Particle, len(p.items))
	copy(out, p.items)
	return out
}

// Len returns the number of live particles.
func (p *Particles) Len() int {
	return len(p.items)
}

// Reset drops every particle.
func (p *Particles) Reset() {
	p.items = p.items[:0]
}
