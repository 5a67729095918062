package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/audio"
	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/runner"
	"github.com/vovakirdan/lane-runner/internal/spectate"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// Options wires the optional collaborators of a Model. Every field may be
// left zero; the game then runs without persistence, sound or spectators.
type Options struct {
	Store  *storage.Store
	Audio  *audio.Player
	Hub    *spectate.Hub
	Logger *log.Logger

	Runtime       core.RuntimeConfig
	Difficulty    string // Recorded with each saved run
	ScreenshotDir string // Defaults to ~/.runner/screenshots
}

// session is the state shared between a Model and its game observer.
type session struct {
	best     int
	improved bool // best rose since it was last written
	finished bool // Set when the game enters GameOver, cleared once recorded
}

// Model is the Bubble Tea model that hosts one runner game.
type Model struct {
	game     *runner.Game
	opts     Options
	screen   *core.Screen
	input    core.InputFrame
	keys     KeyMap
	help     help.Model
	sess     *session
	last     time.Time // Timestamp of the previous tick
	quitting bool
}

// NewModel creates the game and attaches the collaborators from opts.
func NewModel(cfg config.RunnerConfig, opts Options) (Model, error) {
	opts.Runtime = opts.Runtime.Normalize(time.Now())
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	game, err := runner.New(cfg, opts.Runtime.Seed)
	if err != nil {
		return Model{}, err
	}

	sess := &session{}
	if opts.Store != nil {
		best, err := opts.Store.HighScore()
		if err != nil {
			opts.Logger.Warn("could not load high score", "err", err)
		}
		sess.best = best
	}

	game.Observe(LogObserver(opts.Logger))
	game.Observe(runner.ObserverFuncs{
		StateChange: func(s runner.State) {
			if s == runner.StateGameOver {
				sess.finished = true
			}
		},
		ScoreChange: func(score int) {
			if score > sess.best {
				sess.best = score
				sess.improved = true
			}
		},
	})
	if opts.Audio != nil {
		game.Observe(opts.Audio.Observer())
	}
	if opts.Hub != nil {
		game.Observe(opts.Hub.Observer())
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	m := Model{
		game:   game,
		opts:   opts,
		screen: core.NewScreen(1, 1),
		input:  core.NewInputFrame(),
		keys:   DefaultKeyMap(),
		help:   h,
		sess:   sess,
	}
	if rt := opts.Runtime; rt.ScreenW > 0 && rt.ScreenH > 0 {
		m.resize(rt.ScreenW, rt.ScreenH)
	}
	return m, nil
}

// Game returns the hosted game.
func (m Model) Game() *runner.Game {
	return m.game
}

// Best returns the best score known to this model.
func (m Model) Best() int {
	return m.sess.best
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey decodes a key press. Game actions are buffered until the next
// tick; platform keys take effect at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Mute):
		if a := m.opts.Audio; a != nil {
			a.SetMuted(!a.Muted())
			// A player started muted opens the device on first unmute
			if err := a.Init(); err != nil {
				m.opts.Logger.Warn("audio unavailable", "err", err)
				a.SetMuted(true)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.opts.Logger.Warn("screenshot failed", "err", err)
		} else {
			m.opts.Logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
		return m, nil
	}
	m.input.Push(action)
	return m, nil
}

// handleTick applies buffered input and advances the game by the wall time
// since the previous tick. The game clamps oversized steps itself.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := m.opts.Runtime.FrameDT()
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now

	m.game.Apply(m.input)
	m.input.Clear()
	res := m.game.Advance(dt)
	for _, k := range res.Expired {
		m.opts.Logger.Debug("power-up expired", "kind", k)
	}

	if m.sess.improved {
		m.saveBest()
	}
	if m.sess.finished {
		m.recordRun()
	}
	if m.opts.Hub != nil {
		m.opts.Hub.Publish(m.game.Snapshot())
	}

	return m, tickCmd(m.opts.Runtime.TickRate)
}

// saveBest writes the best score once per tick in which it rose. Failures
// are logged and the game continues regardless.
func (m Model) saveBest() {
	m.sess.improved = false
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SubmitHighScore(m.sess.best); err != nil {
		m.opts.Logger.Warn("could not submit high score", "err", err)
	}
}

// recordRun appends the finished session to the run history.
func (m Model) recordRun() {
	m.sess.finished = false
	if m.opts.Store == nil {
		return
	}

	score := m.game.Score()
	run := storage.Run{
		Score:      score,
		Elapsed:    m.game.Elapsed(),
		Seed:       m.opts.Runtime.Seed,
		Difficulty: m.opts.Difficulty,
	}
	if _, err := m.opts.Store.SaveRun(run); err != nil {
		m.opts.Logger.Warn("could not save run", "err", err)
		return
	}
	m.opts.Logger.Info("run saved", "score", score, "best", m.sess.best)
}

// resize keeps one row free for the help line.
func (m *Model) resize(width, height int) {
	m.screen.Resize(width, max(height-1, 1))
	m.help.Width = width
}

// saveScreenshot writes the current frame as plain text and returns the path.
func (m Model) saveScreenshot() (string, error) {
	m.draw()

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot find home directory: %w", err)
		}
		dir = filepath.Join(home, ".runner", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create %s: %w", dir, err)
	}

	name := fmt.Sprintf("runner_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

func (m Model) draw() {
	muted := m.opts.Audio != nil && m.opts.Audio.Muted()
	Draw(m.screen, m.game.Config().World, m.game.Snapshot(), Frame{Best: m.sess.best, Muted: muted})
}

// View renders the current frame and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts a Bubble Tea program hosting a new game.
func Run(cfg config.RunnerConfig, opts Options) error {
	model, err := NewModel(cfg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
