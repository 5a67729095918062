package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/runner"
)

// Layout rows outside the playfield.
const (
	hudRows    = 1
	footerRows = 1
	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0
)

// viewport maps world coordinates onto screen cells.
type viewport struct {
	x, y  int // Top-left cell of the playfield
	w, h  int // Playfield size in cells
	scale core.Vec2
}

// newViewport fits the world into the screen, keeping its proportions.
func newViewport(world config.WorldConfig, screenW, screenH int) viewport {
	h := max(screenH-hudRows-footerRows, 1)
	w := int(math.Round(float64(h) * world.Width / world.Height * cellAspect))
	if w > screenW {
		w = max(screenW, 1)
	}
	return viewport{
		x:     (screenW - w) / 2,
		y:     hudRows,
		w:     w,
		h:     h,
		scale: core.V(float64(w)/world.Width, float64(h)/world.Height),
	}
}

// cellX returns the column for world x.
func (v viewport) cellX(x float64) int {
	return v.x + int(math.Floor(x*v.scale.X))
}

// cellY returns the row for world y.
func (v viewport) cellY(y float64) int {
	return v.y + int(math.Floor(y*v.scale.Y))
}

// point returns the cell for world point p. ok is false when p lies outside
// the world, where the cell would fall on the border or the HUD.
func (v viewport) point(world config.WorldConfig, p core.Vec2) (x, y int, ok bool) {
	if p.X < 0 || p.X >= world.Width || p.Y < 0 || p.Y >= world.Height {
		return 0, 0, false
	}
	return v.cellX(p.X), v.cellY(p.Y), true
}

// rect converts a world box into a cell rectangle of at least one cell,
// clipped to the playfield.
func (v viewport) rect(b core.AABB) core.Rect {
	x0, y0 := v.cellX(b.X), v.cellY(b.Y)
	x1, y1 := v.cellX(b.Right()), v.cellY(b.Bottom())
	x1, y1 = max(x1, x0+1), max(y1, y0+1)

	x0, x1 = core.Clamp(x0, v.x, v.x+v.w), core.Clamp(x1, v.x, v.x+v.w)
	y0, y1 = core.Clamp(y0, v.y, v.y+v.h), core.Clamp(y1, v.y, v.y+v.h)
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// obstacleGlyphs gives each obstacle type its fill and color.
var obstacleGlyphs = map[runner.ObstacleType]struct {
	fill  rune
	color core.Color
}{
	runner.ObstacleBarrier:    {'█', core.ColorRed},
	runner.ObstacleTrain:      {'▓', core.ColorOrange},
	runner.ObstacleLowBarrier: {'▄', core.ColorYellow},
}

// pickupGlyphs gives each power kind its icon.
var pickupGlyphs = map[runner.PowerKind]rune{
	runner.PowerMagnet: 'U',
	runner.PowerSpeed:  '»',
	runner.PowerShield: '◆',
}

// Frame holds the platform-side values drawn next to the snapshot.
type Frame struct {
	Best  int
	Muted bool
}

// Draw renders a snapshot into screen.
func Draw(screen *core.Screen, world config.WorldConfig, snap runner.Snapshot, f Frame) {
	screen.Clear()
	if screen.Width() == 0 || screen.Height() == 0 {
		return
	}

	v := newViewport(world, screen.Width(), screen.Height())

	drawTrack(screen, v, world)
	for _, o := range snap.Obstacles {
		g := obstacleGlyphs[o.Type]
		screen.DrawRect(v.rect(o.Box()), g.fill, g.color)
	}
	for _, c := range snap.Coins {
		if x, y, ok := v.point(world, c.Box().Center()); ok {
			screen.SetColored(x, y, 'o', core.ColorGold)
		}
	}
	for _, p := range snap.Pickups {
		if x, y, ok := v.point(world, p.Box().Center()); ok {
			screen.SetColored(x, y, pickupGlyphs[p.Kind], p.Kind.Color())
		}
	}
	for _, p := range snap.Particles {
		if x, y, ok := v.point(world, p.Pos); ok {
			screen.SetColored(x, y, '·', p.Color)
		}
	}
	drawPlayer(screen, v, snap)

	drawHUD(screen, snap, f)

	switch snap.State {
	case runner.StateMenu:
		drawOverlay(screen, v, core.ColorBrightCyan, "LANE RUNNER", "", "enter to start", "q to quit")
	case runner.StatePaused:
		drawOverlay(screen, v, core.ColorYellow, "PAUSED", "", "p to resume")
	case runner.StateGameOver:
		title := "GAME OVER"
		if snap.Score > 0 && snap.Score >= f.Best {
			title = "NEW BEST!"
		}
		drawOverlay(screen, v, core.ColorBrightRed, title, "",
			fmt.Sprintf("score %d", snap.Score), "", "enter to run again", "q to quit")
	}
}

// drawTrack draws the playfield edges and the dashed lane separators.
func drawTrack(screen *core.Screen, v viewport, world config.WorldConfig) {
	screen.DrawVLine(v.x-1, v.y, v.h, '│', core.ColorGray)
	screen.DrawVLine(v.x+v.w, v.y, v.h, '│', core.ColorGray)

	for i := 1; i < len(world.Lanes); i++ {
		x := v.cellX((world.Lanes[i-1] + world.Lanes[i]) / 2)
		for y := v.y; y < v.y+v.h; y += 2 {
			screen.SetColored(x, y, '┊', core.ColorGray)
		}
	}

	ground := v.cellY(world.GroundY) + 1
	if ground < v.y+v.h {
		for x := v.x; x < v.x+v.w; x++ {
			screen.SetColored(x, ground, '▔', core.ColorGray)
		}
	}
}

func drawPlayer(screen *core.Screen, v viewport, snap runner.Snapshot) {
	p := snap.Player
	color := core.ColorGreen
	switch {
	case snap.HasEffect(runner.PowerShield):
		color = core.ColorBlue
	case p.Invulnerable && snap.Tick/6%2 == 0:
		// Blink during the post-hit grace window
		return
	}

	fill := '█'
	if p.Sliding {
		fill = '▄'
	}
	screen.DrawRect(v.rect(p.Box), fill, color)
}

// drawHUD writes the status line and effect timers.
func drawHUD(screen *core.Screen, snap runner.Snapshot, f Frame) {
	lives := strings.Repeat("♥", max(snap.Lives, 0))
	left := fmt.Sprintf(" SCORE %d  BEST %d  %s", snap.Score, max(f.Best, snap.Score), lives)
	screen.DrawTextColored(0, 0, left, core.ColorWhite)

	var effects []string
	for _, e := range snap.Effects {
		effects = append(effects, fmt.Sprintf("%s %.1fs", strings.ToUpper(e.Kind.String()), e.Remaining.Seconds()))
	}
	right := strings.Join(effects, "  ")
	if f.Muted {
		right = strings.TrimSpace(right + "  MUTED")
	}
	if right != "" {
		screen.DrawTextColored(screen.Width()-len([]rune(right))-1, 0, right, core.ColorBrightCyan)
	}

	speed := fmt.Sprintf(" %.0f u/s  %s", snap.ScrollSpeed, formatClock(snap.Elapsed.Seconds()))
	screen.DrawTextColored(0, screen.Height()-1, speed, core.ColorGray)
}

// drawOverlay draws a centered box with lines of text over the playfield.
func drawOverlay(screen *core.Screen, v viewport, color core.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	boxW, boxH := width+6, len(lines)+2
	box := core.NewRect(v.x+(v.w-boxW)/2, v.y+(v.h-boxH)/2, boxW, boxH)

	screen.DrawRect(box, ' ', core.ColorDefault)
	screen.DrawBox(box, color)
	for i, l := range lines {
		x := box.X + (boxW-len([]rune(l)))/2
		screen.DrawTextColored(x, box.Y+1+i, l, color)
	}
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
