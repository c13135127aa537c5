package rhythm

import "github.com/robmorgan/tempo/utils"

// maxLagSeconds bounds how far a metronome may fall behind the audio clock (for
// example after the host process was suspended) before its grid is re-anchored
// instead of replaying every missed beat at once.
const maxLagSeconds = 1.0

// ScheduleOptions carries the window for one scheduler pass.
type ScheduleOptions struct {
	// Now is the current audio clock time in seconds.
	Now float64

	// Ahead is how far past Now beats are committed.
	Ahead float64

	AccentBoostHz float64
}

// Horizon is the end of the look-ahead window.
func (o ScheduleOptions) Horizon() float64 {
	return o.Now + o.Ahead
}

// Click is one audible sub-click.
type Click struct {
	Voice     Voice
	SubIndex  int
	Time      float64
	Frequency float64
	Volume    float64
	Accent    bool
}

// Beat is everything the scheduler needs to emit for one pulse of a metronome.
type Beat struct {
	MetronomeID int
	Epoch       uint64
	Index       int

	// Origin is the beat position on the grid before any offbeat offset.
	Origin       float64
	Duration     float64
	Sounding     bool
	MainStart    float64
	OffbeatStart float64

	Clicks []Click
}

// CollectBeats commits every beat whose origin falls inside the look-ahead window,
// records the expected hits for practice, and advances the cursor past them.
// Metronomes that are not playing yield nothing.
func (m *Metronome) CollectBeats(opts ScheduleOptions) []Beat {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		return nil
	}
	m.sanitizeLocked()

	horizon := opts.Horizon()
	if !m.hasNextEvent || m.nextEventTime < opts.Now-maxLagSeconds {
		m.nextEventTime = horizon
		m.hasNextEvent = true
	}

	var beats []Beat
	for m.nextEventTime < horizon {
		beats = append(beats, m.planBeatLocked(opts.AccentBoostHz))
		m.advanceLocked()
	}
	return beats
}

func (m *Metronome) planBeatLocked(accentBoost float64) Beat {
	origin := m.nextEventTime
	beatDuration := m.pattern.BeatDuration(m.tempo)
	mainInterval := beatDuration / float64(m.mainMultiplier)
	offInterval := beatDuration / float64(m.offbeatMultiplier)
	offset := mainInterval / 2

	mainStart, offStart := origin, origin+offset
	if m.offbeatPhase {
		mainStart, offStart = origin+offset, origin
	}

	beat := Beat{
		MetronomeID:  m.id,
		Epoch:        m.epoch,
		Index:        m.cursor,
		Origin:       origin,
		Duration:     beatDuration,
		Sounding:     m.pattern.Sounds(m.cursor),
		MainStart:    mainStart,
		OffbeatStart: offStart,
	}
	if !beat.Sounding {
		return beat
	}

	if _, muted := m.mutedBeats[m.cursor]; !muted {
		for i := 0; i < m.mainMultiplier; i++ {
			clickTime := mainStart + float64(i)*mainInterval
			m.addExpectedHitLocked(clickTime, VoiceMain)
			if m.mainVolume <= 0 {
				continue
			}
			accent := m.accent && m.cursor == 0 && i == 0
			freq := m.mainPitch
			if accent {
				freq += accentBoost
			}
			beat.Clicks = append(beat.Clicks, Click{
				Voice:     VoiceMain,
				SubIndex:  i,
				Time:      clickTime,
				Frequency: freq,
				Volume:    m.mainVolume,
				Accent:    accent,
			})
		}
	}

	if _, muted := m.mutedOffbeats[m.cursor]; !muted {
		for i := 0; i < m.offbeatMultiplier; i++ {
			clickTime := offStart + float64(i)*offInterval
			m.addExpectedHitLocked(clickTime, VoiceOffbeat)
			if m.offbeatVolume <= 0 {
				continue
			}
			beat.Clicks = append(beat.Clicks, Click{
				Voice:     VoiceOffbeat,
				SubIndex:  i,
				Time:      clickTime,
				Frequency: m.offbeatPitch,
				Volume:    m.offbeatVolume,
			})
		}
	}
	return beat
}

// advanceLocked moves to the next pulse. The step is the pulse duration before
// the multipliers split it into sub-clicks.
func (m *Metronome) advanceLocked() {
	m.nextEventTime += m.pattern.BeatDuration(m.tempo)
	m.cursor = (m.cursor + 1) % m.pattern.BeatCount
}

// sanitizeLocked pulls any out-of-range field back into its domain so a single
// bad value cannot stall the shared scheduler.
func (m *Metronome) sanitizeLocked() {
	if m.pattern.BeatCount <= 0 || len(m.pattern.SoundMask) != m.pattern.BeatCount {
		m.pattern = defaultPattern()
	}
	m.tempo = utils.Clamp(m.tempo, MinTempo, MaxTempo)
	m.mainMultiplier = utils.Clamp(m.mainMultiplier, MinMultiplier, MaxMultiplier)
	m.offbeatMultiplier = utils.Clamp(m.offbeatMultiplier, MinMultiplier, MaxMultiplier)
	if m.cursor < 0 || m.cursor >= m.pattern.BeatCount {
		m.cursor = 0
	}
}
