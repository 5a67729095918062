package runner

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

func TestGateCadence(t *testing.T) {
	g := gate{}
	interval := 2 * time.Second

	if g.ready(time.Second, interval) {
		t.Error("gate fired before its interval")
	}
	if !g.ready(2*time.Second, interval) {
		t.Error("gate did not fire at its interval")
	}
	if g.ready(3*time.Second, interval) {
		t.Error("gate fired again too early")
	}
	if !g.ready(4*time.Second, interval) {
		t.Error("gate did not fire on the second interval")
	}
}

func TestSpawnerObstacle(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	s := NewSpawner(cfg, core.NewRNG(3))
	s.Reset(0)

	var out Entities
	s.Update(time.Second, 2*time.Second, &out)
	if len(out.Obstacles) != 0 {
		t.Fatalf("obstacles before interval = %d, expected 0", len(out.Obstacles))
	}

	s.Update(2*time.Second, 2*time.Second, &out)
	if len(out.Obstacles) != 1 {
		t.Fatalf("obstacles at interval = %d, expected 1", len(out.Obstacles))
	}

	o := out.Obstacles[0]
	size := o.Type.Size(cfg.Obstacles)
	if o.W != size.W || o.H != size.H {
		t.Errorf("obstacle size = %vx%v, expected %vx%v", o.W, o.H, size.W, size.H)
	}
	if o.Pos.X != cfg.World.Lanes[o.Lane] {
		t.Errorf("obstacle x = %v, expected lane center %v", o.Pos.X, cfg.World.Lanes[o.Lane])
	}
	if o.Pos.Y != -o.H {
		t.Errorf("obstacle y = %v, expected %v", o.Pos.Y, -o.H)
	}
}

func TestSpawnerCoinCluster(t *testing.T) {
	cfg := config.DefaultRunnerConfig()

	for seed := int64(1); seed <= 50; seed++ {
		s := NewSpawner(cfg, core.NewRNG(seed))
		s.Reset(0)

		var out Entities
		s.Update(cfg.Spawn.CoinInterval(), time.Hour, &out)

		n := len(out.Coins)
		if n < 1 || n > 3 {
			t.Fatalf("seed %d: cluster of %d coins, expected 1-3", seed, n)
		}
		for i := 1; i < n; i++ {
			prev, cur := out.Coins[i-1], out.Coins[i]
			if cur.Lane != (prev.Lane+1)%config.LaneCount {
				t.Errorf("seed %d: lanes %d then %d, expected ascending wrap", seed, prev.Lane, cur.Lane)
			}
			if prev.Pos.Y-cur.Pos.Y != cfg.Spawn.ClusterSpacing {
				t.Errorf("seed %d: spacing %v, expected %v", seed, prev.Pos.Y-cur.Pos.Y, cfg.Spawn.ClusterSpacing)
			}
		}
	}
}

func TestSpawnerPickup(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	s := NewSpawner(cfg, core.NewRNG(11))
	s.Reset(0)

	var out Entities
	s.Update(cfg.Spawn.PickupInterval(), time.Hour, &out)

	if len(out.Pickups) != 1 {
		t.Fatalf("pickups = %d, expected 1", len(out.Pickups))
	}
	p := out.Pickups[0]
	if p.Kind < PowerMagnet || p.Kind > PowerShield {
		t.Errorf("pickup kind = %d, outside the closed set", p.Kind)
	}
	if p.W != cfg.Collectibles.Pickup.W {
		t.Errorf("pickup width = %v, expected %v", p.W, cfg.Collectibles.Pickup.W)
	}
}

func TestSpawnerDeterministic(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	run := func() Entities {
		s := NewSpawner(cfg, core.NewRNG(77))
		s.Reset(0)
		var out Entities
		for ms := 0; ms <= 60_000; ms += 100 {
			s.Update(time.Duration(ms)*time.Millisecond, 2*time.Second, &out)
		}
		return out
	}

	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different spawns")
	}
}
