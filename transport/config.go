package transport

import (
	"time"

	"github.com/robmorgan/tempo/audio"
	"github.com/robmorgan/tempo/rhythm"
)

// Config holds the scheduler timings.
type Config struct {
	// LookaheadInterval is how often the scheduler wakes up.
	LookaheadInterval time.Duration

	// ScheduleAhead is how far past the engine clock beats are committed. It must
	// exceed the worst-case jitter of the host timer.
	ScheduleAhead time.Duration

	// StartDelay separates a start request from the first beat.
	StartDelay time.Duration

	AccentBoostHz float64
	Waveform      audio.Waveform

	// TapFeedback plays a click in the matched voice when a tap is scored.
	TapFeedback bool
}

// DefaultConfig returns the timings used by the console.
func DefaultConfig() Config {
	return Config{
		LookaheadInterval: 25 * time.Millisecond,
		ScheduleAhead:     100 * time.Millisecond,
		StartDelay:        50 * time.Millisecond,
		AccentBoostHz:     rhythm.DefaultAccentBoostHz,
		Waveform:          audio.DefaultWaveform,
		TapFeedback:       true,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.LookaheadInterval <= 0 {
		c.LookaheadInterval = def.LookaheadInterval
	}
	if c.ScheduleAhead <= 0 {
		c.ScheduleAhead = def.ScheduleAhead
	}
	if c.StartDelay < 0 {
		c.StartDelay = def.StartDelay
	}
	if c.Waveform == "" {
		c.Waveform = def.Waveform
	}
	return c
}
