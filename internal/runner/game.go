// Package runner implements the simulation core of a three-lane endless
// runner: player kinematics, spawning, collisions, power effects, scoring
// and the menu/playing/paused/game-over state machine.
//
// The package has no knowledge of terminals, audio or storage. The platform
// drives it with decoded intents and a frame delta, and observes it through
// Observer notifications and Snapshot.
package runner

import (
	"fmt"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Particle burst sizes.
const (
	coinBurst   = 5
	pickupBurst = 8
	hitBurst    = 10
)

// StepResult is returned by Advance.
type StepResult struct {
	State State
	Score int
	Lives int
	Tick  uint64

	// Expired lists the power-ups that ran out during this step.
	Expired []PowerKind
}

// Game is the simulation orchestrator. It exclusively owns the player, the
// entity lists, the effect registry and the scoring state.
// A Game is not safe for concurrent use.
type Game struct {
	cfg config.RunnerConfig

	state     State
	now       time.Duration // Simulation clock; only Playing ticks advance it
	ticks     uint64
	lives     int
	lastScore int // Last score reported to observers

	player    *Player
	entities  Entities
	effects   *Effects
	scoring   *Scoring
	spawner   *Spawner
	particles *Particles

	observers []Observer
}

// New validates cfg and creates a game in the Menu state.
func New(cfg config.RunnerConfig, seed int64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	rng := core.NewRNG(seed)
	difficulty := config.NewDifficultyManager(cfg.Difficulty)

	g := &Game{
		cfg:       cfg,
		state:     StateMenu,
		effects:   NewEffects(cfg.Effects),
		scoring:   NewScoring(cfg.Scoring, difficulty),
		spawner:   NewSpawner(cfg, rng),
		particles: NewParticles(cfg.Particles, seed^0x5eed),
	}
	g.resetSession()
	return g, nil
}

// Observe registers an observer. Observers are notified in registration order.
func (g *Game) Observe(o Observer) {
	if o != nil {
		g.observers = append(g.observers, o)
	}
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// State returns the current lifecycle state.
func (g *Game) State() State {
	return g.state
}

// Score returns the floored score.
func (g *Game) Score() int {
	return g.scoring.Score()
}

// Lives returns the remaining lives.
func (g *Game) Lives() int {
	return g.lives
}

// Elapsed returns the simulation clock of the current session.
func (g *Game) Elapsed() time.Duration {
	return g.now
}

// ScrollSpeed returns the difficulty scroll speed for the current score.
func (g *Game) ScrollSpeed() float64 {
	return g.scoring.ScrollSpeed()
}

// Advance runs one tick of dt seconds. Outside Playing nothing moves.
// dt is clamped to [0, max_dt] so a stalled frame cannot tunnel through
// obstacles.
func (g *Game) Advance(dt float64) StepResult {
	if g.state != StatePlaying {
		return g.result()
	}

	if !(dt > 0) { // Also catches NaN
		dt = 0
	}
	dt = min(dt, g.cfg.Session.MaxDT)
	elapsed := time.Duration(dt * float64(time.Second))

	g.now += elapsed
	g.ticks++
	t := Tick{DT: dt, Elapsed: elapsed, Now: g.now}

	g.player.Update(t, g.cfg.World.Lanes)
	g.spawner.Update(g.now, g.scoring.ObstacleInterval(), &g.entities)
	g.advanceEntities(t)
	g.resolveCollisions()
	g.entities.cull(
		g.cfg.World.Height+g.cfg.Obstacles.CullMargin,
		g.cfg.World.Height+g.cfg.Collectibles.CullMargin,
	)

	var expired []PowerKind
	if g.state == StatePlaying {
		expired = g.effects.Tick(g.now)
		g.scoring.AddSurvival(dt)
		g.particles.Update(dt)
	}

	g.emitScore()
	res := g.result()
	res.Expired = expired
	return res
}

// advanceEntities scrolls every entity and applies the magnet pull to coins.
func (g *Game) advanceEntities(t Tick) {
	speed := g.scoring.ScrollSpeed()
	if g.effects.IsActive(PowerSpeed, t.Now) {
		speed *= g.cfg.Effects.SpeedMultiplier
	}
	dy := speed * t.DT

	var pull *magnetPull
	if g.effects.IsActive(PowerMagnet, t.Now) {
		pull = &magnetPull{
			target: g.player.Pos,
			radius: g.cfg.Collectibles.MagnetRadius,
			reach:  g.cfg.Collectibles.MagnetReach,
			gain:   g.cfg.Collectibles.MagnetGain,
		}
	}

	for i := range g.entities.Obstacles {
		g.entities.Obstacles[i].Advance(dy)
	}
	for i := range g.entities.Coins {
		g.entities.Coins[i].Advance(dy, t.DT, pull)
	}
	for i := range g.entities.Pickups {
		g.entities.Pickups[i].Advance(dy)
	}
}

// resolveCollisions runs the collision phases: coins, pickups, then
// obstacles unless the player is invulnerable. At most one hit per tick.
func (g *Game) resolveCollisions() {
	box := g.player.HitBox()

	collectCoins(box, g.entities.Coins, g.collectCoin)
	collectPickups(box, g.entities.Pickups, g.collectPickup)

	if g.player.Invulnerable {
		return
	}
	if _, hit := firstObstacleHit(box, g.entities.Obstacles); hit {
		g.hit()
	}
}

func (g *Game) collectCoin(c *Coin) {
	g.scoring.AddPoints(g.cfg.Collectibles.CoinValue)
	g.emitSound(SoundCoin)
	g.particles.Burst(c.Pos, coinBurst, core.ColorGold)
}

func (g *Game) collectPickup(p *Pickup) {
	g.activate(p.Kind)
	g.emitSound(SoundPowerUp)
	g.particles.Burst(p.Pos, pickupBurst, p.Kind.Color())
}

// activate starts or refreshes an effect. Shield shares the player's
// invulnerability timer.
func (g *Game) activate(k PowerKind) {
	g.effects.Activate(k, g.now)
	if k == PowerShield {
		g.player.GrantInvulnerability(g.effects.Duration(PowerShield))
	}
}

// hit applies an obstacle collision.
func (g *Game) hit() {
	if g.effects.IsActive(PowerShield, g.now) {
		return
	}

	g.lives--
	g.emitSound(SoundHit)
	g.particles.Burst(g.player.Pos, hitBurst, core.ColorRed)
	g.player.GrantInvulnerability(g.cfg.Player.HitGrace())

	if g.lives <= 0 {
		g.lives = 0
		g.setState(StateGameOver)
		g.emitSound(SoundGameOver)
	}
}

// MoveLane steers one lane left (dir < 0) or right (dir > 0).
func (g *Game) MoveLane(dir int) {
	if g.state != StatePlaying {
		return
	}
	g.player.MoveLane(dir)
}

// Jump starts a jump if the player is neither jumping nor sliding.
func (g *Game) Jump() {
	if g.state != StatePlaying {
		return
	}
	if g.player.Jump() {
		g.emitSound(SoundJump)
	}
}

// Slide starts a slide if the player is neither jumping nor sliding.
func (g *Game) Slide() {
	if g.state != StatePlaying {
		return
	}
	if g.player.Slide() {
		g.emitSound(SoundSlide)
	}
}

// TogglePause switches between Playing and Paused.
func (g *Game) TogglePause() {
	switch g.state {
	case StatePlaying:
		g.setState(StatePaused)
	case StatePaused:
		g.setState(StatePlaying)
	}
}

// Confirm starts a new session from the menu or after game over.
func (g *Game) Confirm() {
	switch g.state {
	case StateMenu, StateGameOver:
		g.resetSession()
		g.setState(StatePlaying)
	}
}

// Apply dispatches a frame of queued actions in order.
func (g *Game) Apply(in core.InputFrame) {
	for _, a := range in.Actions {
		switch a {
		case core.ActionLeft:
			g.MoveLane(-1)
		case core.ActionRight:
			g.MoveLane(1)
		case core.ActionJump:
			g.Jump()
		case core.ActionSlide:
			g.Slide()
		case core.ActionPause:
			g.TogglePause()
		case core.ActionConfirm:
			g.Confirm()
		}
	}
}

// resetSession rebuilds the player and clears every per-session state.
func (g *Game) resetSession() {
	g.now = 0
	g.ticks = 0
	g.lives = g.cfg.Session.Lives
	g.player = NewPlayer(g.cfg.Player, g.cfg.World.Lanes, g.cfg.World.GroundY)
	g.entities.reset()
	g.effects.Reset()
	g.scoring.Reset()
	g.spawner.Reset(0)
	g.particles.Reset()

	g.lastScore = -1
	g.emitScore()
}

func (g *Game) setState(s State) {
	if s == g.state {
		return
	}
	g.state = s
	for _, o := range g.observers {
		o.OnStateChange(s)
	}
}

// emitScore notifies observers when the floored score changed.
func (g *Game) emitScore() {
	score := g.scoring.Score()
	if score == g.lastScore {
		return
	}
	g.lastScore = score
	for _, o := range g.observers {
		o.OnScoreChange(score)
	}
}

func (g *Game) emitSound(s Sound) {
	for _, o := range g.observers {
		o.OnSoundEvent(s)
	}
}

func (g *Game) result() StepResult {
	return StepResult{
		State: g.state,
		Score: g.scoring.Score(),
		Lives: g.lives,
		Tick:  g.ticks,
	}
}
