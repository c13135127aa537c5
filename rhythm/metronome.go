package rhythm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/robmorgan/tempo/utils"
)

const (
	MinTempo     = 5
	MaxTempo     = 999
	DefaultTempo = 120

	MinPitchHz          = 20.0
	MaxPitchHz          = 5000.0
	DefaultMainPitchHz  = 800.0
	DefaultOffbeatPitch = 600.0

	// MaxVolume is a 500% boost.
	MaxVolume            = 5.0
	DefaultMainVolume    = 1.0
	DefaultOffbeatVolume = 0.1

	MinMultiplier = 1
	MaxMultiplier = 32

	// DefaultAccentBoostHz is added to the main pitch on the first click of beat 0.
	DefaultAccentBoostHz = 200.0
)

// ErrUnknownPattern is returned when a pattern id is not in the table.
var ErrUnknownPattern = errors.New("unknown rhythm pattern")

// Metronome is one independently configured click unit. It owns its configuration,
// its playback cursor and its practice ledger. All methods are safe for concurrent use.
type Metronome struct {
	mu sync.Mutex

	id      int
	tempo   int
	pattern Pattern
	cursor  int

	mainMultiplier    int
	offbeatMultiplier int
	offbeatPhase      bool
	accent            bool

	mainVolume    float64
	offbeatVolume float64
	mainPitch     float64
	offbeatPitch  float64

	mutedBeats    map[int]struct{}
	mutedOffbeats map[int]struct{}

	nextEventTime float64
	hasNextEvent  bool
	playing       bool

	// epoch changes on every start and stop so deferred callbacks armed in an
	// earlier cycle can be recognised and dropped.
	epoch     uint64
	highlight int

	visualMode VoiceFilter
	practice   practiceState
}

// NewMetronome creates a new Metronome with default values
func NewMetronome(id int) *Metronome {
	return &Metronome{
		id:                id,
		tempo:             DefaultTempo,
		pattern:           defaultPattern(),
		mainMultiplier:    1,
		offbeatMultiplier: 1,
		accent:            true,
		mainVolume:        DefaultMainVolume,
		offbeatVolume:     DefaultOffbeatVolume,
		mainPitch:         DefaultMainPitchHz,
		offbeatPitch:      DefaultOffbeatPitch,
		mutedBeats:        make(map[int]struct{}),
		mutedOffbeats:     make(map[int]struct{}),
		highlight:         -1,
		visualMode:        BothVoices,
		practice:          newPracticeState(),
	}
}

// ID returns the identifier assigned when the metronome was registered.
func (m *Metronome) ID() int {
	return m.id
}

func (m *Metronome) GetTempo() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// SetTempo clamps bpm into [MinTempo, MaxTempo] and returns the stored value.
func (m *Metronome) SetTempo(bpm int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tempo = utils.Clamp(bpm, MinTempo, MaxTempo)
	return m.tempo
}

// ParseTempo applies free-form user input. Anything that is not a finite number
// leaves the tempo unchanged; fractions are truncated.
func (m *Metronome) ParseTempo(input string) int {
	val, ok := parseFinite(input)
	if !ok {
		return m.GetTempo()
	}
	return m.SetTempo(int(utils.Clamp(val, MinTempo, MaxTempo)))
}

// NudgeTempo adds delta BPM, clamped.
func (m *Metronome) NudgeTempo(delta int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tempo = utils.Clamp(m.tempo+delta, MinTempo, MaxTempo)
	return m.tempo
}

func (m *Metronome) GetPattern() Pattern {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pattern
}

// SetPattern switches the pattern, rewinds the cursor and clears both mute sets,
// since mutes are indexed by beat and do not carry over between patterns.
func (m *Metronome) SetPattern(id PatternID) error {
	p, ok := LookupPattern(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPatternLocked(p)
	return nil
}

func (m *Metronome) setPatternLocked(p Pattern) {
	m.pattern = p
	m.cursor = 0
	m.mutedBeats = make(map[int]struct{})
	m.mutedOffbeats = make(map[int]struct{})
}

func (m *Metronome) GetMultiplier(v Voice) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v == VoiceOffbeat {
		return m.offbeatMultiplier
	}
	return m.mainMultiplier
}

// SetMultiplier sets the number of evenly spaced clicks per beat for a voice.
func (m *Metronome) SetMultiplier(v Voice, n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n = utils.Clamp(n, MinMultiplier, MaxMultiplier)
	if v == VoiceOffbeat {
		m.offbeatMultiplier = n
	} else {
		m.mainMultiplier = n
	}
	return n
}

// ToggleOffbeatPhase swaps which voice lands on the beat origin.
func (m *Metronome) ToggleOffbeatPhase() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.offbeatPhase = !m.offbeatPhase
	return m.offbeatPhase
}

func (m *Metronome) ToggleAccent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accent = !m.accent
	return m.accent
}

func (m *Metronome) GetVolume(v Voice) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v == VoiceOffbeat {
		return m.offbeatVolume
	}
	return m.mainVolume
}

// SetVolume takes a percentage (100 = unity gain) and stores the linear gain,
// clamped to [0, MaxVolume]. NaN is ignored.
func (m *Metronome) SetVolume(v Voice, percent float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := &m.mainVolume
	if v == VoiceOffbeat {
		cur = &m.offbeatVolume
	}
	if math.IsNaN(percent) {
		return *cur
	}
	*cur = utils.Clamp(percent/100, 0, MaxVolume)
	return *cur
}

func (m *Metronome) GetPitch(v Voice) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v == VoiceOffbeat {
		return m.offbeatPitch
	}
	return m.mainPitch
}

// SetPitch clamps hz into [MinPitchHz, MaxPitchHz] keeping three decimal places,
// enough to tune clicks to equal-tempered note frequencies. NaN is ignored.
func (m *Metronome) SetPitch(v Voice, hz float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := &m.mainPitch
	if v == VoiceOffbeat {
		cur = &m.offbeatPitch
	}
	if math.IsNaN(hz) {
		return *cur
	}
	*cur = roundPitch(utils.Clamp(hz, MinPitchHz, MaxPitchHz))
	return *cur
}

// ParsePitch applies free-form user input, keeping the current pitch on bad input.
func (m *Metronome) ParsePitch(v Voice, input string) float64 {
	val, ok := parseFinite(input)
	if !ok {
		return m.GetPitch(v)
	}
	return m.SetPitch(v, val)
}

// ToggleMute flips whether beat is silenced for the voice. Indices outside the
// current pattern are ignored and reported as unmuted.
func (m *Metronome) ToggleMute(v Voice, beat int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if beat < 0 || beat >= m.pattern.BeatCount {
		return false
	}
	set := m.muteSetLocked(v)
	if _, ok := set[beat]; ok {
		delete(set, beat)
		return false
	}
	set[beat] = struct{}{}
	return true
}

func (m *Metronome) IsMuted(v Voice, beat int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.muteSetLocked(v)[beat]
	return ok
}

func (m *Metronome) muteSetLocked(v Voice) map[int]struct{} {
	if v == VoiceOffbeat {
		return m.mutedOffbeats
	}
	return m.mutedBeats
}

func (m *Metronome) SetVisualMode(mode VoiceFilter) {
	if !mode.Valid() {
		mode = BothVoices
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.visualMode = mode
}

func (m *Metronome) GetVisualMode() VoiceFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visualMode
}

// Start rewinds the cursor and places the next beat origin at the absolute audio time at.
func (m *Metronome) Start(at float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cursor = 0
	m.nextEventTime = at
	m.hasNextEvent = true
	m.playing = true
	m.highlight = -1
	m.epoch++
}

// Stop halts playback and clears the highlight. Configuration is kept and calling
// Stop on a stopped metronome is a no-op.
func (m *Metronome) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		m.highlight = -1
		return
	}
	m.playing = false
	m.hasNextEvent = false
	m.highlight = -1
	m.epoch++
}

func (m *Metronome) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Epoch returns the current start/stop generation.
func (m *Metronome) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// NextEventTime returns the next unscheduled beat origin, if playback has begun.
func (m *Metronome) NextEventTime() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextEventTime, m.hasNextEvent
}

func (m *Metronome) BeatCursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// ShowBeat records beat as highlighted if the metronome is still playing in the
// given epoch. It reports whether the highlight was applied.
func (m *Metronome) ShowBeat(epoch uint64, beat int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing || m.epoch != epoch {
		return false
	}
	m.highlight = beat
	return true
}

func roundPitch(hz float64) float64 {
	return math.Round(hz*1000) / 1000
}

func parseFinite(input string) (float64, bool) {
	val, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
