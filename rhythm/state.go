package rhythm

import (
	"math"

	"github.com/robmorgan/tempo/utils"
)

// State is the flat record a metronome is persisted as.
type State struct {
	TempoBPM            int         `json:"tempoBpm"`
	PatternID           PatternID   `json:"patternId"`
	MainMultiplier      int         `json:"mainMultiplier"`
	OffbeatMultiplier   int         `json:"offbeatMultiplier"`
	AccentEnabled       bool        `json:"accentEnabled"`
	MainVolume          float64     `json:"mainVolume"`
	OffbeatVolume       float64     `json:"offbeatVolume"`
	MainPitchHz         float64     `json:"mainPitchHz"`
	OffbeatPitchHz      float64     `json:"offbeatPitchHz"`
	OffbeatPhaseEnabled bool        `json:"offbeatPhaseEnabled"`
	VisualMode          VoiceFilter `json:"visualMode"`
}

// DefaultState is the state of a freshly created metronome.
func DefaultState() State {
	return NewMetronome(0).ExtractState()
}

// ExtractState copies the persistent configuration.
func (m *Metronome) ExtractState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extractStateLocked()
}

func (m *Metronome) extractStateLocked() State {
	return State{
		TempoBPM:            m.tempo,
		PatternID:           m.pattern.ID,
		MainMultiplier:      m.mainMultiplier,
		OffbeatMultiplier:   m.offbeatMultiplier,
		AccentEnabled:       m.accent,
		MainVolume:          m.mainVolume,
		OffbeatVolume:       m.offbeatVolume,
		MainPitchHz:         m.mainPitch,
		OffbeatPitchHz:      m.offbeatPitch,
		OffbeatPhaseEnabled: m.offbeatPhase,
		VisualMode:          m.visualMode,
	}
}

// ApplyState loads a persisted configuration. Out-of-range values are clamped and
// unknown patterns or visual modes fall back to their defaults, so a damaged preset
// still yields a playable metronome.
func (m *Metronome) ApplyState(s State) {
	p, ok := LookupPattern(s.PatternID)
	if !ok {
		p = defaultPattern()
	}
	mode := s.VisualMode
	if !mode.Valid() {
		mode = BothVoices
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID != m.pattern.ID {
		m.setPatternLocked(p)
	}
	m.tempo = utils.Clamp(s.TempoBPM, MinTempo, MaxTempo)
	m.mainMultiplier = utils.Clamp(s.MainMultiplier, MinMultiplier, MaxMultiplier)
	m.offbeatMultiplier = utils.Clamp(s.OffbeatMultiplier, MinMultiplier, MaxMultiplier)
	m.accent = s.AccentEnabled
	m.mainVolume = sanitizeVolume(s.MainVolume, m.mainVolume)
	m.offbeatVolume = sanitizeVolume(s.OffbeatVolume, m.offbeatVolume)
	m.mainPitch = sanitizePitch(s.MainPitchHz, m.mainPitch)
	m.offbeatPitch = sanitizePitch(s.OffbeatPitchHz, m.offbeatPitch)
	m.offbeatPhase = s.OffbeatPhaseEnabled
	m.visualMode = mode
}

func sanitizeVolume(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return utils.Clamp(v, 0, MaxVolume)
}

func sanitizePitch(hz, fallback float64) float64 {
	if math.IsNaN(hz) {
		return fallback
	}
	return roundPitch(utils.Clamp(hz, MinPitchHz, MaxPitchHz))
}
