package runner

import (
	"fmt"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// ObstacleType is the closed set of hazards.
type ObstacleType int

const (
	ObstacleBarrier ObstacleType = iota
	ObstacleTrain
	ObstacleLowBarrier
	obstacleTypeCount
)

// String returns the name of the obstacle type.
func (t ObstacleType) String() string {
	switch t {
	case ObstacleBarrier:
		return "barrier"
	case ObstacleTrain:
		return "train"
	case ObstacleLowBarrier:
		return "low_barrier"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by name for snapshot consumers.
func (t ObstacleType) MarshalText() ([]byte, error) {
	if t < 0 || t >= obstacleTypeCount {
		return nil, fmt.Errorf("runner: invalid obstacle type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes an obstacle type name.
func (t *ObstacleType) UnmarshalText(text []byte) error {
	for v := ObstacleType(0); v < obstacleTypeCount; v++ {
		if v.String() == string(text) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("runner: unknown obstacle type %q", text)
}

// Size returns the fixed dimensions of the obstacle type.
func (t ObstacleType) Size(cfg config.ObstacleConfig) config.Size {
	switch t {
	case ObstacleBarrier:
		return cfg.Barrier
	case ObstacleTrain:
		return cfg.Train
	case ObstacleLowBarrier:
		return cfg.LowBarrier
	default:
		return config.Size{}
	}
}

// PowerKind is the closed set of power effects.
type PowerKind int

const (
	PowerMagnet PowerKind = iota
	PowerSpeed
	PowerShield
	powerKindCount
)

// PowerKinds lists every kind in display order.
var PowerKinds = [powerKindCount]PowerKind{PowerMagnet, PowerSpeed, PowerShield}

// String returns the name of the power kind.
func (k PowerKind) String() string {
	switch k {
	case PowerMagnet:
		return "magnet"
	case PowerSpeed:
		return "speed"
	case PowerShield:
		return "shield"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for snapshot consumers.
func (k PowerKind) MarshalText() ([]byte, error) {
	if k < 0 || k >= powerKindCount {
		return nil, fmt.Errorf("runner: invalid power kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a power kind name.
func (k *PowerKind) UnmarshalText(text []byte) error {
	for _, v := range PowerKinds {
		if v.String() == string(text) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("runner: unknown power kind %q", text)
}

// Color returns the particle color used when the kind is collected.
func (k PowerKind) Color() core.Color {
	switch k {
	case PowerMagnet:
		return core.ColorMagenta
	case PowerSpeed:
		return core.ColorBrightCyan
	case PowerShield:
		return core.ColorBlue
	default:
		return core.ColorWhite
	}
}

// Obstacle is a hazard scrolling toward the player.
type Obstacle struct {
	Pos  core.Vec2    `json:"pos"` // Center
	Lane int          `json:"lane"`
	Type ObstacleType `json:"type"`
	W    float64      `json:"w"`
	H    float64      `json:"h"`
}

// Box returns the obstacle's hit-box.
func (o Obstacle) Box() core.AABB {
	return core.BoxAround(o.Pos, o.W, o.H)
}

// Advance scrolls the obstacle down by dy.
func (o *Obstacle) Advance(dy float64) {
	o.Pos.Y += dy
}

// Coin is a collectible worth points.
type Coin struct {
	Pos        core.Vec2 `json:"pos"`
	Lane       int       `json:"lane"`
	W          float64   `json:"w"`
	H          float64   `json:"h"`
	Collected  bool      `json:"collected"`
	Magnetized bool      `json:"magnetized"` // Being pulled this tick
}

// Box returns the coin's hit-box.
func (c Coin) Box() core.AABB {
	return core.BoxAround(c.Pos, c.W, c.H)
}

// magnetPull describes the attraction toward the player for one tick.
// A nil pull means the Magnet effect is inactive.
type magnetPull struct {
	target core.Vec2
	radius float64
	reach  float64
	gain   float64
}

// Advance scrolls the coin down by dy, then applies the magnet pull if any.
func (c *Coin) Advance(dy, dt float64, pull *magnetPull) {
	c.Pos.Y += dy
	c.Magnetized = false
	if pull == nil {
		return
	}

	d := c.Pos.Dist(pull.target)
	if d >= pull.radius {
		return
	}
	strength := 1.0
	if d > 0 {
		strength = min(1, pull.reach/d)
	}
	c.Pos = c.Pos.Lerp(pull.target, core.ClampF(dt*strength*pull.gain, 0, 1))
	c.Magnetized = true
}

// Pickup is a collectible that activates a power effect.
type Pickup struct {
	Pos       core.Vec2 `json:"pos"`
	Lane      int       `json:"lane"`
	Kind      PowerKind `json:"kind"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
	Collected bool      `json:"collected"`
}

// Box returns the pickup's hit-box.
func (p Pickup) Box() core.AABB {
	return core.BoxAround(p.Pos, p.W, p.H)
}

// Advance scrolls the pickup down by dy.
func (p *Pickup) Advance(dy float64) {
	p.Pos.Y += dy
}

// Entities holds the in-flight entity lists. The Game owns the only
// instance; helpers borrow it for the duration of one call.
type Entities struct {
	Obstacles []Obstacle
	Coins     []Coin
	Pickups   []Pickup
}

// reset empties every list, keeping capacity.
func (e *Entities) reset() {
	e.Obstacles = e.Obstacles[:0]
	e.Coins = e.Coins[:0]
	e.Pickups = e.Pickups[:0]
}

// cull removes entities that left the visible band or were collected.
// obstacleLimit and collectibleLimit are the y values past which an
// entity is gone.
func (e *Entities) cull(obstacleLimit, collectibleLimit float64) {
	obstacles := e.Obstacles[:0]
	for _, o := range e.Obstacles {
		if o.Pos.Y <= obstacleLimit {
			obstacles = append(obstacles, o)
		}
	}
	e.Obstacles = obstacles

	coins := e.Coins[:0]
	for _, c := range e.Coins {
		if !c.Collected && c.Pos.Y <= collectibleLimit {
			coins = append(coins, c)
		}
	}
	e.Coins = coins

	pickups := e.Pickups[:0]
	for _, p := range e.Pickups {
		if !p.Collected && p.Pos.Y <= collectibleLimit {
			pickups = append(pickups, p)
		}
	}
	e.Pickups = pickups
}
