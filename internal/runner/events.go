package runner

import "fmt"

// State is the lifecycle state of a game.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name for snapshot consumers.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for _, v := range []State{StateMenu, StatePlaying, StatePaused, StateGameOver} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("runner: unknown state %q", text)
}

// Sound names a sound cue for the audio collaborator.
type Sound string

const (
	SoundJump     Sound = "jump"
	SoundSlide    Sound = "slide"
	SoundCoin     Sound = "coin"
	SoundPowerUp  Sound = "powerup"
	SoundHit      Sound = "hit"
	SoundGameOver Sound = "gameover"
)

// Sounds lists every cue.
var Sounds = []Sound{SoundJump, SoundSlide, SoundCoin, SoundPowerUp, SoundHit, SoundGameOver}

// Observer receives notifications synchronously from inside the game.
// Implementations must not call back into the game.
type Observer interface {
	OnStateChange(State)
	OnScoreChange(score int)
	OnSoundEvent(Sound)
}

// ObserverFuncs adapts optional functions to the Observer interface.
type ObserverFuncs struct {
	StateChange func(State)
	ScoreChange func(int)
	SoundEvent  func(Sound)
}

// OnStateChange implements Observer.
func (f ObserverFuncs) OnStateChange(s State) {
	if f.StateChange != nil {
		f.StateChange(s)
	}
}

// OnScoreChange implements Observer.
func (f ObserverFuncs) OnScoreChange(score int) {
	if f.ScoreChange != nil {
		f.ScoreChange(score)
	}
}

// OnSoundEvent implements Observer.
func (f ObserverFuncs) OnSoundEvent(s Sound) {
	if f.SoundEvent != nil {
		f.SoundEvent(s)
	}
}

var _ Observer = ObserverFuncs{}
