package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	// ToneDuration is how long every click rings.
	ToneDuration = 50 * time.Millisecond

	// DecayFloor is the gain a click has decayed to when it is cut off.
	DecayFloor = 0.001
)

// Waveform selects the oscillator shape used for clicks.
type Waveform string

const (
	Square   Waveform = "square"
	Sine     Waveform = "sine"
	Triangle Waveform = "triangle"
	Sawtooth Waveform = "sawtooth"

	DefaultWaveform = Square
)

// ParseWaveform maps a name onto a Waveform, falling back to the default.
func ParseWaveform(name string) Waveform {
	switch w := Waveform(name); w {
	case Square, Sine, Triangle, Sawtooth:
		return w
	default:
		return DefaultWaveform
	}
}

// Tone is a single click to be played at Start seconds on the engine clock.
type Tone struct {
	Start     float64
	Frequency float64
	Volume    float64
	Waveform  Waveform
}

// Engine is an audio output with its own monotonic sample clock.
type Engine interface {
	// CurrentTime returns the engine clock in seconds.
	CurrentTime() float64

	// Schedule queues a tone. Tones whose start has passed play immediately.
	Schedule(t Tone)

	// Resume makes sure the output device is running.
	Resume() error
}

// newVoice builds the streamer for one tone: an oscillator shaped by an
// exponential decay from Volume to DecayFloor, cut off after ToneDuration.
func newVoice(sr beep.SampleRate, t Tone) (beep.Streamer, error) {
	if t.Volume <= 0 {
		return nil, fmt.Errorf("silent tone at %.3fs", t.Start)
	}

	osc, err := oscillator(sr, t.Waveform, t.Frequency)
	if err != nil {
		return nil, err
	}

	length := sr.N(ToneDuration)
	factor := 1.0
	if t.Volume > DecayFloor {
		factor = math.Pow(DecayFloor/t.Volume, 1/float64(length))
	}
	env := &decay{Streamer: osc, gain: 1, factor: factor}
	gained := &effects.Gain{Streamer: env, Gain: t.Volume - 1}
	return beep.Take(length, gained), nil
}

func oscillator(sr beep.SampleRate, w Waveform, freq float64) (beep.Streamer, error) {
	switch w {
	case Sine:
		return generators.SineTone(sr, freq)
	case Triangle:
		return generators.TriangleTone(sr, freq)
	case Sawtooth:
		return generators.SawtoothTone(sr, freq)
	default:
		return generators.SquareTone(sr, freq)
	}
}

// decay multiplies the wrapped stream by a gain that shrinks by factor every sample.
type decay struct {
	beep.Streamer
	gain   float64
	factor float64
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] *= d.gain
		samples[i][1] *= d.gain
		d.gain *= d.factor
	}
	return n, ok
}

// ErrEmptyRender is returned when an offline render would produce no samples.
var ErrEmptyRender = errors.New("render length is zero")
