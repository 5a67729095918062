package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lane-runner/internal/audio"
	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
	"github.com/vovakirdan/lane-runner/internal/spectate"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
	flagVolume     float64
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a run in this terminal.

Controls:
  Left/A, Right/D   - Change lane
  Up/W/Space        - Jump
  Down/S            - Slide
  P/Esc             - Pause
  Enter/R           - Start, or run again after game over
  M                 - Mute
  Ctrl+S            - Screenshot to ~/.runner/screenshots
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - More lives, slower corridor
  normal - Defaults
  hard   - Fewer lives, faster corridor, denser obstacles
  fixed  - No progression, speed and spawn rate stay at their base values

Examples:
  runner play
  runner play --difficulty hard
  runner play --config ./my-runner.yaml
  runner play --spectate :8090`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume between 0 and 1")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream snapshots to websocket viewers on this address (e.g. :8090)")
}

// loadConfig reads the runner config and applies the difficulty preset.
func loadConfig() (config.RunnerConfig, config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.RunnerConfig{}, "", err
	}
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return config.RunnerConfig{}, "", err
	}
	config.ApplyRunnerPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return config.RunnerConfig{}, "", err
	}
	return cfg, preset, nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	// The alt-screen owns stdout, so logs go to --log-file or nowhere
	logger, closeLog, err := newLogger("runner", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("playing without score storage", "err", err)
	} else {
		defer store.Close()
	}

	player := audio.NewPlayer(flagVolume, flagMute, logger)
	if err := player.Init(); err != nil {
		logger.Warn("playing without sound", "err", err)
		player.SetMuted(true)
	}
	defer player.Close()

	opts := tui.Options{
		Store:      store,
		Audio:      player,
		Logger:     logger,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Difficulty: string(preset),
	}

	if flagSpectate != "" {
		hub := spectate.NewHub(cfg.Session.SpectateEvery, logger)
		srv, err := spectate.Listen(flagSpectate, hub, logger)
		if err != nil {
			return fmt.Errorf("cannot start spectator stream: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Serve(ctx); err != nil {
				logger.Error("spectator stream stopped", "err", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
		opts.Hub = hub
	}

	return tui.Run(cfg, opts)
}
