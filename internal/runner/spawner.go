package runner

import (
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// gate fires once its interval has elapsed since it last fired.
type gate struct {
	last time.Duration
}

func (g *gate) ready(now, interval time.Duration) bool {
	if now-g.last < interval {
		return false
	}
	g.last = now
	return true
}

// Spawner decides each tick whether to emit obstacles, coin clusters and
// power pickups. All randomness comes from the shared game RNG.
type Spawner struct {
	rng *core.RNG

	lanes        []float64
	obstacles    config.ObstacleConfig
	collectibles config.CollectibleConfig
	spawn        config.SpawnConfig

	obstacleGate gate
	coinGate     gate
	pickupGate   gate
}

// NewSpawner creates a spawner over the configured world.
func NewSpawner(cfg config.RunnerConfig, rng *core.RNG) *Spawner {
	return &Spawner{
		rng:          rng,
		lanes:        cfg.World.Lanes,
		obstacles:    cfg.Obstacles,
		collectibles: cfg.Collectibles,
		spawn:        cfg.Spawn,
	}
}

// Reset restarts every gate at now.
func (s *Spawner) Reset(now time.Duration) {
	s.obstacleGate = gate{last: now}
	s.coinGate = gate{last: now}
	s.pickupGate = gate{last: now}
}

// Update fires due gates and appends new entities to out.
func (s *Spawner) Update(now, obstacleInterval time.Duration, out *Entities) {
	if s.obstacleGate.ready(now, obstacleInterval) {
		out.Obstacles = append(out.Obstacles, s.obstacle())
	}
	if s.coinGate.ready(now, s.spawn.CoinInterval()) {
		out.Coins = s.cluster(out.Coins)
	}
	if s.pickupGate.ready(now, s.spawn.PickupInterval()) {
		out.Pickups = append(out.Pickups, s.pickup())
	}
}

func (s *Spawner) obstacle() Obstacle {
	lane := s.rng.Intn(config.LaneCount)
	kind := ObstacleType(s.rng.Intn(int(obstacleTypeCount)))
	size := kind.Size(s.obstacles)
	return Obstacle{
		Pos:  core.V(s.lanes[lane], -size.H),
		Lane: lane,
		Type: kind,
		W:    size.W,
		H:    size.H,
	}
}

// cluster appends 1-3 coins on ascending lanes starting at a random lane.
func (s *Spawner) cluster(coins []Coin) []Coin {
	count := s.rng.Weighted(s.spawn.ClusterWeights) + 1
	base := s.rng.Intn(config.LaneCount)
	size := s.collectibles.Coin

	for i := 0; i < count; i++ {
		lane := (base + i) % config.LaneCount
		coins = append(coins, Coin{
			Pos:  core.V(s.lanes[lane], -size.H-float64(i)*s.spawn.ClusterSpacing),
			Lane: lane,
			W:    size.W,
			H:    size.H,
		})
	}
	return coins
}

func (s *Spawner) pickup() Pickup {
	lane := s.rng.Intn(config.LaneCount)
	kind := PowerKind(s.rng.Intn(int(powerKindCount)))
	size := s.collectibles.Pickup
	return Pickup{
		Pos:  core.V(s.lanes[lane], -size.H),
		Lane: lane,
		Kind: kind,
		W:    size.W,
		H:    size.H,
	}
}
