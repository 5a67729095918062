package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// screenContains reports whether any row of s contains text.
func screenContains(s *core.Screen, text string) bool {
	for y := 0; y < s.Height(); y++ {
		if strings.Contains(s.Row(y), text) {
			return true
		}
	}
	return false
}

// countRune counts cells holding r.
func countRune(s *core.Screen, r rune) int {
	n := 0
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) == r {
				n++
			}
		}
	}
	return n
}

func TestNewViewport(t *testing.T) {
	world := config.DefaultRunnerConfig().World

	tests := []struct {
		name         string
		w, h         int
		wantX, wantW int
	}{
		{"wide terminal", 80, 24, 27, 26},
		{"narrow terminal", 10, 24, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViewport(world, tt.w, tt.h)
			if v.x != tt.wantX || v.w != tt.wantW {
				t.Errorf("newViewport() x, w = %d, %d, expected %d, %d", v.x, v.w, tt.wantX, tt.wantW)
			}
			if v.y != hudRows || v.h != tt.h-hudRows-footerRows {
				t.Errorf("newViewport() y, h = %d, %d", v.y, v.h)
			}
			if got := v.cellX(0); got != v.x {
				t.Errorf("cellX(0) = %d, expected %d", got, v.x)
			}
			if got := v.cellY(0); got != v.y {
				t.Errorf("cellY(0) = %d, expected %d", got, v.y)
			}
		})
	}
}

func TestViewportRectClips(t *testing.T) {
	world := config.DefaultRunnerConfig().World
	v := newViewport(world, 80, 24)

	// Partly above the top edge
	r := v.rect(core.AABB{X: 100, Y: -200, W: 90, H: 300})
	if r.Y != v.y || r.H <= 0 {
		t.Errorf("rect() = %+v, expected clipped to row %d", r, v.y)
	}

	// Tiny boxes still cover one cell
	r = v.rect(core.AABB{X: 240, Y: 400, W: 1, H: 1})
	if r.W != 1 || r.H != 1 {
		t.Errorf("rect() of a tiny box = %+v, expected 1x1", r)
	}
}

func TestViewportPoint(t *testing.T) {
	world := config.DefaultRunnerConfig().World
	v := newViewport(world, 80, 24)

	tests := []struct {
		name     string
		p        core.Vec2
		expected bool
	}{
		{"inside", core.V(240, 400), true},
		{"top edge", core.V(240, 0), true},
		{"above", core.V(240, -10), false},
		{"bottom edge", core.V(240, world.Height), false},
		{"below", core.V(240, world.Height+20), false},
		{"left", core.V(-1, 400), false},
		{"right", core.V(world.Width, 400), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := v.point(world, tc.p)
			if ok != tc.expected {
				t.Errorf("point(%v) ok = %v, expected %v", tc.p, ok, tc.expected)
			}
			if ok && (x < v.x || x >= v.x+v.w || y < v.y || y >= v.y+v.h) {
				t.Errorf("point(%v) = (%d, %d), expected inside the playfield", tc.p, x, y)
			}
		})
	}
}

func TestDrawSkipsCollectiblesOutsideBand(t *testing.T) {
	world := config.DefaultRunnerConfig().World
	snap := runner.Snapshot{
		State: runner.StatePlaying,
		Lives: 1,
		Coins: []runner.Coin{
			{Pos: core.V(380, -10), W: 24, H: 24},
			{Pos: core.V(380, world.Height+20), W: 24, H: 24},
		},
		Pickups: []runner.Pickup{
			{Pos: core.V(100, -30), Kind: runner.PowerShield, W: 36, H: 36},
			{Pos: core.V(100, world.Height+30), Kind: runner.PowerShield, W: 36, H: 36},
		},
	}

	screen := core.NewScreen(80, 24)
	Draw(screen, world, snap, Frame{})

	if n := countRune(screen, 'o'); n != 0 {
		t.Errorf("drew %d coins outside the band, expected 0:\n%s", n, screen.String())
	}
	if n := countRune(screen, '◆'); n != 0 {
		t.Errorf("drew %d pickups outside the band, expected 0:\n%s", n, screen.String())
	}

	// The same entities inside the band are drawn
	snap.Coins[0].Pos.Y = 200
	snap.Pickups[0].Pos.Y = 500
	Draw(screen, world, snap, Frame{})
	if n := countRune(screen, 'o'); n != 1 {
		t.Errorf("drew %d coins, expected 1", n)
	}
	if n := countRune(screen, '◆'); n != 1 {
		t.Errorf("drew %d pickups, expected 1", n)
	}
}

func TestDrawOverlays(t *testing.T) {
	world := config.DefaultRunnerConfig().World

	tests := []struct {
		state runner.State
		score int
		best  int
		want  string
	}{
		{runner.StateMenu, 0, 0, "LANE RUNNER"},
		{runner.StatePaused, 10, 0, "PAUSED"},
		{runner.StateGameOver, 10, 50, "GAME OVER"},
		{runner.StateGameOver, 60, 60, "NEW BEST!"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			Draw(screen, world, runner.Snapshot{State: tt.state, Score: tt.score, Lives: 3}, Frame{Best: tt.best})
			if !screenContains(screen, tt.want) {
				t.Errorf("Draw() missing %q:\n%s", tt.want, screen.String())
			}
		})
	}
}

func TestDrawPlaying(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	snap := runner.Snapshot{
		State:       runner.StatePlaying,
		Score:       42,
		Lives:       2,
		Elapsed:     75 * time.Second,
		ScrollSpeed: 300,
		Player: runner.PlayerView{
			Box: core.BoxAround(core.V(240, 645), 50, 70),
		},
		Obstacles: []runner.Obstacle{
			{Pos: core.V(100, 300), Type: runner.ObstacleTrain, W: 90, H: 160},
		},
		Coins: []runner.Coin{
			{Pos: core.V(380, 200), W: 24, H: 24},
		},
		Pickups: []runner.Pickup{
			{Pos: core.V(380, 500), Kind: runner.PowerShield, W: 36, H: 36},
		},
		Effects: []runner.ActiveEffect{
			{Kind: runner.PowerMagnet, Remaining: 2500 * time.Millisecond},
		},
	}

	screen := core.NewScreen(80, 24)
	Draw(screen, cfg.World, snap, Frame{Best: 100, Muted: true})

	for _, want := range []string{"SCORE 42", "BEST 100", "♥♥", "MAGNET 2.5s", "MUTED", "300 u/s", "1:15"} {
		if !screenContains(screen, want) {
			t.Errorf("HUD missing %q:\n%s", want, screen.String())
		}
	}
	if countRune(screen, '▓') == 0 {
		t.Error("train not drawn")
	}
	if countRune(screen, 'o') == 0 {
		t.Error("coin not drawn")
	}
	if countRune(screen, '◆') != 1 {
		t.Error("shield pickup not drawn")
	}
	if countRune(screen, '█') == 0 {
		t.Error("player not drawn")
	}
}

func TestDrawPlayerBlinks(t *testing.T) {
	world := config.DefaultRunnerConfig().World
	snap := runner.Snapshot{
		State:  runner.StatePlaying,
		Lives:  1,
		Player: runner.PlayerView{Box: core.BoxAround(core.V(240, 645), 50, 70), Invulnerable: true},
	}

	screen := core.NewScreen(80, 24)
	visible := 0
	for tick := uint64(0); tick < 12; tick++ {
		snap.Tick = tick
		Draw(screen, world, snap, Frame{})
		if countRune(screen, '█') > 0 {
			visible++
		}
	}
	if visible != 6 {
		t.Errorf("player visible on %d of 12 ticks, expected 6", visible)
	}
}

func TestDrawEmptyScreen(t *testing.T) {
	screen := core.NewScreen(0, 0)
	// Must not panic
	Draw(screen, config.DefaultRunnerConfig().World, runner.Snapshot{}, Frame{})
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{61, "1:01"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
