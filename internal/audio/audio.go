// Package audio turns runner sound events into short synthesized cues played
// through the system speaker. Audio is best effort: a missing device only
// leaves the game silent.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/lane-runner/internal/runner"
)

// SampleRate is the output rate of every cue.
const SampleRate = beep.SampleRate(44100)

// maxVoices caps simultaneous cues so a burst of coins cannot pile up.
const maxVoices = 8

// Player mixes cues into a single speaker stream.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
	logger      *log.Logger
}

// NewPlayer creates a player. Nothing is played until Init succeeds.
func NewPlayer(volume float64, muted bool, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		muted:  muted,
		logger: logger,
	}
}

// Init opens the speaker. Muted players never touch the device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || p.muted {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every voice.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// SetMuted toggles output.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Muted reports whether output is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Play queues the cue for s.
func (p *Player) Play(s runner.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}

	cue := Cue(s, SampleRate, p.volume)
	if cue == nil {
		p.logger.Warn("unknown sound", "sound", s)
		return
	}

	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(cue)
	}
	speaker.Unlock()
}

// Observer adapts the player to the game's observer interface.
func (p *Player) Observer() runner.Observer {
	return runner.ObserverFuncs{SoundEvent: p.Play}
}
