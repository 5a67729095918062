package runner

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

const frame = 1.0 / 60

// quietConfig returns defaults with every spawn gate pushed far into the
// future so tests control the world by hand.
func quietConfig() config.RunnerConfig {
	cfg := config.DefaultRunnerConfig()
	cfg.Spawn.CoinIntervalMS = 1_000_000_000
	cfg.Spawn.PickupIntervalMS = 1_000_000_000
	cfg.Difficulty.ObstacleIntervalMS = 1_000_000_000
	cfg.Difficulty.MinIntervalMS = 1_000_000_000
	return cfg
}

// recorder collects every notification in order.
type recorder struct {
	states []State
	scores []int
	sounds []Sound
}

func (r *recorder) OnStateChange(s State) { r.states = append(r.states, s) }

func (r *recorder) OnScoreChange(score int) { r.scores = append(r.scores, score) }

func (r *recorder) OnSoundEvent(s Sound) { r.sounds = append(r.sounds, s) }

func (r *recorder) count(s Sound) int {
	n := 0
	for _, got := range r.sounds {
		if got == s {
			n++
		}
	}
	return n
}

func newPlaying(t *testing.T, cfg config.RunnerConfig) (*Game, *recorder) {
	t.Helper()
	g, err := New(cfg, 42)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	rec := &recorder{}
	g.Observe(rec)
	g.Confirm()
	if g.State() != StatePlaying {
		t.Fatalf("State() = %v after Confirm, expected playing", g.State())
	}
	return g, rec
}

// obstacleOnPlayer drops a barrier centered on the player.
func obstacleOnPlayer(g *Game) {
	size := g.cfg.Obstacles.Barrier
	g.entities.Obstacles = []Obstacle{{
		Pos:  g.player.Pos,
		Lane: g.player.Lane,
		Type: ObstacleBarrier,
		W:    size.W,
		H:    size.H,
	}}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.World.Lanes = []float64{100}

	_, err := New(cfg, 1)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestStateMachine(t *testing.T) {
	g, err := New(quietConfig(), 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	rec := &recorder{}
	g.Observe(rec)

	if g.State() != StateMenu {
		t.Fatalf("initial State() = %v, expected menu", g.State())
	}

	// Pause is ignored in the menu
	g.TogglePause()
	if g.State() != StateMenu {
		t.Errorf("TogglePause() in menu moved to %v", g.State())
	}

	g.Confirm()
	g.TogglePause()
	g.Confirm() // No-op while paused
	g.TogglePause()

	expected := []State{StatePlaying, StatePaused, StatePlaying}
	if !reflect.DeepEqual(rec.states, expected) {
		t.Errorf("state changes = %v, expected %v", rec.states, expected)
	}
}

func TestIntentsIgnoredOutsidePlaying(t *testing.T) {
	g, err := New(quietConfig(), 1)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	rec := &recorder{}
	g.Observe(rec)

	g.MoveLane(-1)
	g.Jump()
	g.Slide()

	if g.player.TargetLane != 1 || g.player.Jumping || g.player.Sliding {
		t.Errorf("intents changed the player in menu: %+v", g.player)
	}
	if len(rec.sounds) != 0 {
		t.Errorf("sounds in menu = %v, expected none", rec.sounds)
	}
	if res := g.Advance(frame); res.Tick != 0 {
		t.Errorf("Advance() in menu ticked to %d", res.Tick)
	}
}

func TestApplyDispatchesInOrder(t *testing.T) {
	g, rec := newPlaying(t, quietConfig())

	in := core.NewInputFrame()
	in.Push(core.ActionLeft)
	in.Push(core.ActionLeft)
	in.Push(core.ActionLeft)
	in.Push(core.ActionJump)
	in.Push(core.ActionSlide) // Ignored, already jumping
	g.Apply(in)

	if g.player.TargetLane != 0 {
		t.Errorf("TargetLane = %d, expected 0", g.player.TargetLane)
	}
	if !g.player.Jumping || g.player.Sliding {
		t.Errorf("Jumping=%v Sliding=%v, expected jump only", g.player.Jumping, g.player.Sliding)
	}
	if rec.count(SoundJump) != 1 || rec.count(SoundSlide) != 0 {
		t.Errorf("sounds = %v, expected a single jump", rec.sounds)
	}
}

func TestAdvanceClampsDT(t *testing.T) {
	step := frame
	tests := []struct {
		name     string
		dt       float64
		expected time.Duration
	}{
		{"normal", step, time.Duration(step * float64(time.Second))},
		{"stall", 1.0, config.DefaultRunnerConfig().Session.MaxStep()},
		{"negative", -0.5, 0},
		{"nan", math.NaN(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newPlaying(t, quietConfig())
			g.Advance(tc.dt)
			if g.Elapsed() != tc.expected {
				t.Errorf("Elapsed() = %v, expected %v", g.Elapsed(), tc.expected)
			}
		})
	}
}

func TestScoreIncreasesWithSurvival(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())

	prev := g.scoring.Raw()
	for i := 0; i < 300; i++ {
		g.Advance(frame)
		raw := g.scoring.Raw()
		if math.Abs(raw-prev-10*frame) > 1e-9 {
			t.Fatalf("tick %d: score grew by %v, expected %v", i, raw-prev, 10*frame)
		}
		prev = raw
	}
	if math.Abs(g.scoring.Raw()-50) > 1e-6 {
		t.Errorf("score after 5s = %v, expected 50", g.scoring.Raw())
	}
}

func TestScoreObserverSeesEveryChange(t *testing.T) {
	g, rec := newPlaying(t, quietConfig())

	for i := 0; i < 60; i++ {
		g.Advance(frame)
	}

	if len(rec.scores) == 0 || rec.scores[0] != 0 {
		t.Fatalf("scores = %v, expected to start at 0", rec.scores)
	}
	for i := 1; i < len(rec.scores); i++ {
		if rec.scores[i] <= rec.scores[i-1] {
			t.Errorf("score notifications not increasing: %v", rec.scores)
			break
		}
	}
	if last := rec.scores[len(rec.scores)-1]; last != g.Score() {
		t.Errorf("last notified score = %d, expected %d", last, g.Score())
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())
	g.Advance(frame)
	g.TogglePause()

	before := g.Snapshot()
	for i := 0; i < 30; i++ {
		g.Advance(frame)
	}
	after := g.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Error("world changed while paused")
	}
}

func TestHitGracePeriod(t *testing.T) {
	g, rec := newPlaying(t, quietConfig())

	obstacleOnPlayer(g)
	g.Advance(frame)
	if g.Lives() != 2 {
		t.Fatalf("Lives() after first hit = %d, expected 2", g.Lives())
	}
	firstHit := g.Elapsed()

	// Keep overlapping an obstacle every tick until a life is lost
	ticks := 0
	for g.Lives() == 2 {
		if ticks > 300 {
			t.Fatal("grace window never ended")
		}
		obstacleOnPlayer(g)
		g.Advance(frame)
		ticks++
	}

	if ticks < 2 {
		t.Fatalf("second hit counted after %d ticks, expected it absorbed", ticks)
	}
	if g.Lives() != 1 {
		t.Fatalf("Lives() after grace = %d, expected 1", g.Lives())
	}
	if gap := g.Elapsed() - firstHit; gap < g.cfg.Player.HitGrace() {
		t.Errorf("second counted hit after %v, expected at least %v", gap, g.cfg.Player.HitGrace())
	}
	if n := rec.count(SoundHit); n != 2 {
		t.Errorf("hit sounds = %d, expected 2", n)
	}
}

func TestGameOverAndRestart(t *testing.T) {
	cfg := quietConfig()
	cfg.Session.Lives = 1
	g, rec := newPlaying(t, cfg)

	for i := 0; i < 30; i++ {
		g.Advance(frame)
	}
	obstacleOnPlayer(g)
	res := g.Advance(frame)

	if res.State != StateGameOver || res.Lives != 0 {
		t.Fatalf("Advance() = %+v, expected game over with 0 lives", res)
	}
	if rec.count(SoundGameOver) != 1 {
		t.Errorf("gameover sounds = %d, expected 1", rec.count(SoundGameOver))
	}

	frozen := g.Advance(frame)
	if frozen.Tick != res.Tick || frozen.Score != res.Score {
		t.Errorf("Advance() after game over = %+v, expected %+v", frozen, res)
	}

	g.Confirm()
	if g.State() != StatePlaying || g.Lives() != 1 || g.Score() != 0 || g.Elapsed() != 0 {
		t.Errorf("restart: state=%v lives=%d score=%d elapsed=%v", g.State(), g.Lives(), g.Score(), g.Elapsed())
	}
	if len(g.Snapshot().Obstacles) != 0 {
		t.Error("restart kept obstacles")
	}
	if last := rec.scores[len(rec.scores)-1]; last != 0 {
		t.Errorf("last score notification = %d, expected 0 on restart", last)
	}
}

func TestAdvanceReportsExpiredEffects(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())
	g.activate(PowerMagnet)
	d := g.effects.Duration(PowerMagnet)

	var reports [][]PowerKind
	var expiredAt time.Duration
	for g.Elapsed() < d+time.Second {
		res := g.Advance(frame)
		if len(res.Expired) > 0 {
			reports = append(reports, res.Expired)
			expiredAt = g.Elapsed()
		}
	}

	if len(reports) != 1 {
		t.Fatalf("expiry reported %d times, expected once: %v", len(reports), reports)
	}
	if len(reports[0]) != 1 || reports[0][0] != PowerMagnet {
		t.Errorf("Expired = %v, expected [magnet]", reports[0])
	}
	if expiredAt < d {
		t.Errorf("magnet reported expired at %v, expected at or after %v", expiredAt, d)
	}
	if g.Snapshot().HasEffect(PowerMagnet) {
		t.Error("magnet still listed after expiry")
	}
}

func TestShieldAbsorbsHits(t *testing.T) {
	g, rec := newPlaying(t, quietConfig())

	size := g.cfg.Collectibles.Pickup
	g.entities.Pickups = []Pickup{{Pos: g.player.Pos, Kind: PowerShield, W: size.W, H: size.H}}
	g.Advance(frame)

	if !g.Snapshot().HasEffect(PowerShield) {
		t.Fatal("shield not active after pickup")
	}
	if rec.count(SoundPowerUp) != 1 {
		t.Errorf("powerup sounds = %d, expected 1", rec.count(SoundPowerUp))
	}

	for i := 0; i < 120; i++ {
		obstacleOnPlayer(g)
		g.Advance(frame)
	}
	if g.Lives() != 3 {
		t.Errorf("Lives() under shield = %d, expected 3", g.Lives())
	}
	if rec.count(SoundHit) != 0 {
		t.Errorf("hit sounds under shield = %d, expected 0", rec.count(SoundHit))
	}
}

func TestShieldAbsorbsDirectHit(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())

	// Shield active but invulnerability cleared: hit() itself must absorb
	g.activate(PowerShield)
	g.player.Invulnerable = false
	g.player.InvulnLeft = 0
	g.hit()

	if g.Lives() != 3 {
		t.Errorf("Lives() = %d, expected shield to absorb the hit", g.Lives())
	}
}

func TestCoinCollection(t *testing.T) {
	g, rec := newPlaying(t, quietConfig())

	size := g.cfg.Collectibles.Coin
	g.entities.Coins = []Coin{
		{Pos: g.player.Pos, Lane: 1, W: size.W, H: size.H},
		{Pos: core.V(g.cfg.World.Lanes[0], 0), Lane: 0, W: size.W, H: size.H},
	}
	g.Advance(frame)

	snap := g.Snapshot()
	if len(snap.Coins) != 1 || snap.Coins[0].Lane != 0 {
		t.Fatalf("coins after pickup = %+v, expected only the lane 0 coin", snap.Coins)
	}
	if g.Score() != g.cfg.Collectibles.CoinValue {
		t.Errorf("Score() = %d, expected %d", g.Score(), g.cfg.Collectibles.CoinValue)
	}
	if rec.count(SoundCoin) != 1 {
		t.Errorf("coin sounds = %d, expected 1", rec.count(SoundCoin))
	}
	if g.particles.Len() != coinBurst {
		t.Errorf("particles = %d, expected %d", g.particles.Len(), coinBurst)
	}
}

func TestCullingRemovesLeavingEntities(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())

	limit := g.cfg.World.Height + g.cfg.Obstacles.CullMargin
	g.entities.Obstacles = []Obstacle{
		{Pos: core.V(g.cfg.World.Lanes[0], limit-1), W: 90, H: 40},
		{Pos: core.V(g.cfg.World.Lanes[2], 0), Lane: 2, W: 90, H: 40},
	}
	g.Advance(frame)

	snap := g.Snapshot()
	if len(snap.Obstacles) != 1 || snap.Obstacles[0].Lane != 2 {
		t.Errorf("obstacles = %+v, expected only the lane 2 obstacle", snap.Obstacles)
	}
}

func TestEntitiesStayInsideBand(t *testing.T) {
	g, _ := newPlaying(t, config.DefaultRunnerConfig())
	obstacleLimit := g.cfg.World.Height + g.cfg.Obstacles.CullMargin
	coinLimit := g.cfg.World.Height + g.cfg.Collectibles.CullMargin

	spawned := false
	for i := 0; i < 60*60 && g.State() == StatePlaying; i++ {
		g.Advance(frame)
		snap := g.Snapshot()
		if len(snap.Obstacles) > 0 {
			spawned = true
		}
		for _, o := range snap.Obstacles {
			if o.Pos.Y > obstacleLimit {
				t.Fatalf("obstacle at y=%v past cull limit %v", o.Pos.Y, obstacleLimit)
			}
		}
		for _, c := range snap.Coins {
			if c.Collected || c.Pos.Y > coinLimit {
				t.Fatalf("stale coin in snapshot: %+v", c)
			}
		}
	}
	if !spawned {
		t.Error("no obstacle spawned in a minute of play")
	}
}

func TestSpeedEffectScalesScroll(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())
	g.entities.Obstacles = []Obstacle{{Pos: core.V(g.cfg.World.Lanes[0], 0), W: 90, H: 40}}

	g.Advance(frame)
	normal := g.entities.Obstacles[0].Pos.Y

	g.activate(PowerSpeed)
	g.Advance(frame)
	boosted := g.entities.Obstacles[0].Pos.Y - normal

	expected := normal * g.cfg.Effects.SpeedMultiplier
	if math.Abs(boosted-expected) > 1e-6 {
		t.Errorf("boosted step = %v, expected %v", boosted, expected)
	}
	if g.ScrollSpeed() != g.cfg.Difficulty.BaseSpeed {
		t.Errorf("ScrollSpeed() = %v, speed effect must not change difficulty speed", g.ScrollSpeed())
	}
}

func TestMagnetPullsNearbyCoins(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())
	size := g.cfg.Collectibles.Coin
	start := core.V(g.player.Pos.X-100, g.player.Pos.Y)

	g.entities.Coins = []Coin{{Pos: start, W: size.W, H: size.H}}
	g.activate(PowerMagnet)
	g.Advance(frame)

	c := g.entities.Coins[0]
	if !c.Magnetized {
		t.Fatal("coin inside radius was not magnetized")
	}
	if c.Pos.X <= start.X {
		t.Errorf("coin x = %v, expected to move toward the player from %v", c.Pos.X, start.X)
	}

	far := core.V(g.cfg.World.Lanes[0], 0)
	g.entities.Coins = []Coin{{Pos: far, W: size.W, H: size.H}}
	g.Advance(frame)
	if g.entities.Coins[0].Magnetized || g.entities.Coins[0].Pos.X != far.X {
		t.Errorf("coin outside radius was pulled: %+v", g.entities.Coins[0])
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		g, err := New(config.DefaultRunnerConfig(), 2024)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		g.Confirm()
		for i := 0; i < 60*30; i++ {
			switch i % 97 {
			case 10:
				g.MoveLane(-1)
			case 40:
				g.Jump()
			case 70:
				g.MoveLane(1)
			case 90:
				g.Slide()
			}
			g.Advance(frame)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and inputs produced different worlds")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g, _ := newPlaying(t, quietConfig())
	obstacleOnPlayer(g)

	snap := g.Snapshot()
	snap.Obstacles[0].Pos.Y = -999

	if g.entities.Obstacles[0].Pos.Y == -999 {
		t.Error("mutating the snapshot changed the game")
	}
}
