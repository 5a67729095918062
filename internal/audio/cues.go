package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/lane-runner/internal/runner"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// tone is a fixed-length oscillator with a linear frequency glide and an
// attack/release envelope.
type tone struct {
	rate     beep.SampleRate
	wave     Wave
	from, to float64 // Hz at start and end
	total    int
	attack   int
	release  int
	pos      int
	phase    float64
	noise    uint32
}

// newTone creates a tone gliding from one frequency to another over d.
func newTone(rate beep.SampleRate, wave Wave, from, to float64, d time.Duration) *tone {
	total := rate.N(d)
	return &tone{
		rate:    rate,
		wave:    wave,
		from:    from,
		to:      to,
		total:   total,
		attack:  min(rate.N(5*time.Millisecond), total/4),
		release: min(rate.N(40*time.Millisecond), total/2),
		noise:   0x9e3779b9,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress

		v := t.sample() * t.envelope()
		samples[i][0] = v
		samples[i][1] = v

		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) sample() float64 {
	switch t.wave {
	case WaveSquare:
		if t.phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 4*math.Abs(t.phase-0.5) - 1
	case WaveNoise:
		// xorshift keeps cue output reproducible
		t.noise ^= t.noise << 13
		t.noise ^= t.noise >> 17
		t.noise ^= t.noise << 5
		return float64(t.noise)/float64(math.MaxUint32)*2 - 1
	default:
		return math.Sin(2 * math.Pi * t.phase)
	}
}

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left < t.release {
		return float64(left) / float64(t.release)
	}
	return 1
}

// note describes one segment of a cue.
type note struct {
	wave     Wave
	from, to float64
	length   time.Duration
	gain     float64
}

// cues maps every sound event to its note sequence.
var cues = map[runner.Sound][]note{
	runner.SoundJump:    {{WaveSquare, 330, 660, 90 * time.Millisecond, 0.35}},
	runner.SoundSlide:   {{WaveNoise, 0, 0, 120 * time.Millisecond, 0.25}},
	runner.SoundCoin:    {{WaveSquare, 988, 988, 50 * time.Millisecond, 0.3}, {WaveSquare, 1319, 1319, 110 * time.Millisecond, 0.3}},
	runner.SoundPowerUp: {{WaveTriangle, 440, 880, 80 * time.Millisecond, 0.5}, {WaveTriangle, 660, 1320, 120 * time.Millisecond, 0.5}},
	runner.SoundHit:     {{WaveSquare, 160, 80, 180 * time.Millisecond, 0.45}},
	runner.SoundGameOver: {
		{WaveTriangle, 392, 392, 160 * time.Millisecond, 0.5},
		{WaveTriangle, 330, 330, 160 * time.Millisecond, 0.5},
		{WaveTriangle, 262, 196, 400 * time.Millisecond, 0.5},
	},
}

// Cue builds a fresh streamer for s at the given master volume (0..1).
// Returns nil for an unknown sound.
func Cue(s runner.Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	notes, ok := cues[s]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, withVolume(newTone(rate, n.wave, n.from, n.to, n.length), n.gain))
	}
	return withVolume(beep.Seq(parts...), volume)
}

// CueLength returns the total duration of the cue for s.
func CueLength(s runner.Sound) time.Duration {
	var d time.Duration
	for _, n := range cues[s] {
		d += n.length
	}
	return d
}

// withVolume scales a stream linearly. Zero or less is silence since
// log2(0) is -Inf.
func withVolume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
