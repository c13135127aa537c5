package rhythm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetronome(t *testing.T) {
	t.Parallel()

	// Create a new metronome with a default of 120 bpm
	m := NewMetronome(1)
	assert.Equal(t, 120, m.GetTempo())
	assert.Equal(t, 0.5, m.GetPattern().BeatDuration(m.GetTempo()))

	m.SetTempo(128)
	assert.Equal(t, 0.46875, m.GetPattern().BeatDuration(m.GetTempo()))
}

func TestSetTempoClamps(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    int
		expected int
	}{
		{0, MinTempo},
		{-40, MinTempo},
		{4, MinTempo},
		{5, 5},
		{999, 999},
		{1000, MaxTempo},
		{100000, MaxTempo},
	}

	for _, testCase := range testCases {
		m := NewMetronome(1)
		assert.Equal(t, testCase.expected, m.SetTempo(testCase.input))
		assert.Equal(t, testCase.expected, m.GetTempo())
	}
}

func TestParseTempoKeepsValueOnBadInput(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.SetTempo(87)

	for _, input := range []string{"", "abc", "NaN", "Inf", "-Inf", "12bpm"} {
		assert.Equal(t, 87, m.ParseTempo(input), "input %q", input)
	}

	assert.Equal(t, 140, m.ParseTempo(" 140 "))
	assert.Equal(t, 99, m.ParseTempo("99.7"))
	assert.Equal(t, MaxTempo, m.ParseTempo("1e30"))
	assert.Equal(t, MinTempo, m.ParseTempo("-3"))
}

func TestSetPitch(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	assert.Equal(t, MinPitchHz, m.SetPitch(VoiceMain, 3))
	assert.Equal(t, MaxPitchHz, m.SetPitch(VoiceOffbeat, 9000))
	assert.Equal(t, 440.123, m.SetPitch(VoiceMain, 440.12345))
	assert.Equal(t, 440.123, m.SetPitch(VoiceMain, math.NaN()))
	assert.Equal(t, 261.626, m.ParsePitch(VoiceOffbeat, "261.6256"))
	assert.Equal(t, 261.626, m.ParsePitch(VoiceOffbeat, "middle c"))
}

func TestSetVolume(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	assert.Equal(t, 0.5, m.SetVolume(VoiceMain, 50))
	assert.Equal(t, MaxVolume, m.SetVolume(VoiceMain, 900))
	assert.Equal(t, 0.0, m.SetVolume(VoiceOffbeat, -10))
	assert.Equal(t, 0.0, m.SetVolume(VoiceOffbeat, math.NaN()))
	assert.Equal(t, MaxVolume, m.GetVolume(VoiceMain))
}

func TestSetMultiplier(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	assert.Equal(t, 1, m.SetMultiplier(VoiceMain, 0))
	assert.Equal(t, 4, m.SetMultiplier(VoiceOffbeat, 4))
	assert.Equal(t, MaxMultiplier, m.SetMultiplier(VoiceMain, 1000))
	assert.Equal(t, 4, m.GetMultiplier(VoiceOffbeat))
}

func TestSetPatternClearsMutesAndCursor(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	require.True(t, m.ToggleMute(VoiceMain, 3))
	require.True(t, m.ToggleMute(VoiceOffbeat, 1))
	m.Start(0)
	m.CollectBeats(ScheduleOptions{Now: 0, Ahead: 0.1})
	require.Equal(t, 1, m.BeatCursor())

	require.NoError(t, m.SetPattern(PatternTriplet))
	assert.Equal(t, 0, m.BeatCursor())
	assert.False(t, m.IsMuted(VoiceMain, 3))
	assert.False(t, m.IsMuted(VoiceOffbeat, 1))

	err := m.SetPattern("polka")
	require.ErrorIs(t, err, ErrUnknownPattern)
	assert.Equal(t, PatternTriplet, m.GetPattern().ID)
}

func TestToggleMute(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	assert.True(t, m.ToggleMute(VoiceMain, 2))
	assert.True(t, m.IsMuted(VoiceMain, 2))
	assert.False(t, m.IsMuted(VoiceOffbeat, 2))
	assert.False(t, m.ToggleMute(VoiceMain, 2))
	assert.False(t, m.IsMuted(VoiceMain, 2))

	// beyond the 4 beat pattern
	assert.False(t, m.ToggleMute(VoiceMain, 4))
	assert.False(t, m.IsMuted(VoiceMain, 4))
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.SetTempo(77)
	m.ToggleOffbeatPhase()
	m.Start(1.5)
	before := m.ExtractState()

	m.Stop()
	epoch := m.Epoch()
	m.Stop()

	assert.False(t, m.IsPlaying())
	assert.Equal(t, epoch, m.Epoch())
	assert.Equal(t, before, m.ExtractState())
	assert.Equal(t, -1, m.GetSnapshot().Highlight)
}

func TestStartAdvancesEpoch(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.Start(2)
	first := m.Epoch()

	next, ok := m.NextEventTime()
	require.True(t, ok)
	assert.Equal(t, 2.0, next)
	assert.True(t, m.ShowBeat(first, 0))

	m.Stop()
	m.Start(3)
	assert.NotEqual(t, first, m.Epoch())
	assert.False(t, m.ShowBeat(first, 1))
	assert.Equal(t, -1, m.GetSnapshot().Highlight)
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.SetTempo(173)
	require.NoError(t, m.SetPattern(PatternSextuplet))
	m.SetMultiplier(VoiceMain, 3)
	m.SetMultiplier(VoiceOffbeat, 5)
	m.ToggleAccent()
	m.ToggleOffbeatPhase()
	m.SetVolume(VoiceMain, 250)
	m.SetVolume(VoiceOffbeat, 37)
	m.SetPitch(VoiceMain, 440.0)
	m.SetPitch(VoiceOffbeat, 329.628)
	m.SetVisualMode(OffbeatOnly)

	state := m.ExtractState()

	fresh := NewMetronome(2)
	fresh.ApplyState(state)
	assert.Equal(t, state, fresh.ExtractState())
}

func TestApplyStateSanitizes(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.ApplyState(State{
		TempoBPM:          4000,
		PatternID:         "unknown",
		MainMultiplier:    0,
		OffbeatMultiplier: -2,
		MainVolume:        12,
		OffbeatVolume:     math.NaN(),
		MainPitchHz:       1,
		OffbeatPitchHz:    6000,
		VisualMode:        "sideways",
	})

	s := m.ExtractState()
	assert.Equal(t, MaxTempo, s.TempoBPM)
	assert.Equal(t, DefaultPatternID, s.PatternID)
	assert.Equal(t, 1, s.MainMultiplier)
	assert.Equal(t, 1, s.OffbeatMultiplier)
	assert.Equal(t, MaxVolume, s.MainVolume)
	assert.Equal(t, DefaultOffbeatVolume, s.OffbeatVolume)
	assert.Equal(t, MinPitchHz, s.MainPitchHz)
	assert.Equal(t, MaxPitchHz, s.OffbeatPitchHz)
	assert.Equal(t, BothVoices, s.VisualMode)
}
