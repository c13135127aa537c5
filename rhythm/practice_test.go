package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		diff     float64
		expected Rating
	}{
		{0, RatingExcellent},
		{0.04, RatingExcellent},
		{-0.04, RatingExcellent},
		{0.041, RatingGreat},
		{0.08, RatingGreat},
		{-0.1, RatingNice},
		{0.12, RatingNice},
		{0.121, RatingMiss},
		{-3, RatingMiss},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, Classify(testCase.diff), "diff %v", testCase.diff)
	}
}

func TestComboPolicyExtends(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		policy   ComboPolicy
		rating   Rating
		expected bool
	}{
		{ComboAll, RatingExcellent, true},
		{ComboAll, RatingNice, true},
		{ComboAll, RatingMiss, false},
		{ComboGreatOrBetter, RatingGreat, true},
		{ComboGreatOrBetter, RatingNice, false},
		{ComboExcellentOnly, RatingExcellent, true},
		{ComboExcellentOnly, RatingGreat, false},
		{ComboDisabled, RatingExcellent, false},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, testCase.policy.Extends(testCase.rating), "%s %s", testCase.policy, testCase.rating)
	}
}

func TestEvaluateTapMatchesNearestHit(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.AddExpectedHit(1.0, VoiceMain)
	m.AddExpectedHit(1.25, VoiceOffbeat)
	m.AddExpectedHit(1.5, VoiceMain)

	eval, ok := m.EvaluateTap(1.27)
	require.True(t, ok)
	assert.Equal(t, RatingExcellent, eval.Rating)
	assert.Equal(t, VoiceOffbeat, eval.Voice)
	assert.InDelta(t, 0.02, eval.Offset, epsilon)
	assert.Equal(t, 1, eval.Combo)

	// the offbeat hit is consumed so the next tap pairs with the main click
	eval, ok = m.EvaluateTap(1.2)
	require.True(t, ok)
	assert.Equal(t, VoiceMain, eval.Voice)
	assert.Equal(t, RatingMiss, eval.Rating)
	assert.InDelta(t, 0.2, eval.Offset, epsilon)
	assert.Equal(t, 0, eval.Combo)

	stats := m.PracticeStats()
	assert.Equal(t, EvaluationCounts{Excellent: 1, Miss: 1}, stats.Counts)
	assert.Equal(t, 1, stats.MaxCombo)
	assert.Equal(t, 1, stats.Pending)
}

func TestEvaluateTapWithoutHits(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	_, ok := m.EvaluateTap(4)
	assert.False(t, ok)
	assert.Equal(t, 0, m.PracticeStats().Counts.Total())
}

func TestEvaluateTapRespectsFilter(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.SetPracticeFilter(MainOnly)
	m.AddExpectedHit(1.0, VoiceOffbeat)

	_, ok := m.EvaluateTap(1.0)
	assert.False(t, ok)

	m.AddExpectedHit(1.5, VoiceMain)
	eval, ok := m.EvaluateTap(1.0)
	require.True(t, ok)
	assert.Equal(t, VoiceMain, eval.Voice)
	assert.Equal(t, RatingMiss, eval.Rating)
}

func TestComboPolicies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		policy   ComboPolicy
		offsets  []float64
		combo    int
		maxCombo int
	}{
		{ComboAll, []float64{0.01, 0.06, 0.1}, 3, 3},
		{ComboGreatOrBetter, []float64{0.01, 0.06, 0.1}, 0, 2},
		{ComboExcellentOnly, []float64{0.01, 0.06, 0.01}, 1, 1},
		{ComboDisabled, []float64{0.01, 0.01, 0.01}, 0, 0},
	}

	for _, testCase := range testCases {
		m := NewMetronome(1)
		m.SetComboPolicy(testCase.policy)
		for i, off := range testCase.offsets {
			at := float64(i) * 0.5
			m.AddExpectedHit(at, VoiceMain)
			_, ok := m.EvaluateTap(at + off)
			require.True(t, ok)
		}

		stats := m.PracticeStats()
		assert.Equal(t, testCase.combo, stats.Combo, testCase.policy)
		assert.Equal(t, testCase.maxCombo, stats.MaxCombo, testCase.policy)
		assert.Equal(t, len(testCase.offsets), stats.Counts.Total())
	}
}

func TestCheckMissedHits(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.AddExpectedHit(0, VoiceMain)
	m.AddExpectedHit(0.5, VoiceMain)
	_, ok := m.EvaluateTap(0.51)
	require.True(t, ok)
	require.Equal(t, 1, m.PracticeStats().Combo)

	m.AddExpectedHit(1.0, VoiceMain)
	assert.Equal(t, 1, m.CheckMissedHits(1.0))

	stats := m.PracticeStats()
	assert.Equal(t, 0, stats.Combo)
	assert.Equal(t, 1, stats.MaxCombo)
	assert.Equal(t, EvaluationCounts{Excellent: 1}, stats.Counts)
	assert.Equal(t, 1, stats.Pending)

	// within the grace period nothing else is retired
	assert.Equal(t, 0, m.CheckMissedHits(1.2))
	assert.Equal(t, 1, m.CheckMissedHits(1.21))
}

func TestLedgerIsBounded(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	for i := 0; i < 200; i++ {
		m.AddExpectedHit(float64(i)*0.001, VoiceMain)
	}
	hits := m.ExpectedHits()
	assert.Len(t, hits, LedgerCapacity)
	assert.InDelta(t, 0.199, hits[len(hits)-1].Time, epsilon)

	m.AddExpectedHit(5, VoiceOffbeat)
	hits = m.ExpectedHits()
	require.Len(t, hits, 1)
	assert.Equal(t, VoiceOffbeat, hits[0].Voice)
}

func TestResetPracticeKeepsSettings(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	m.SetPracticeFilter(OffbeatOnly)
	m.SetComboPolicy(ComboExcellentOnly)
	m.AddExpectedHit(1, VoiceOffbeat)
	m.EvaluateTap(1)

	m.ResetPractice()
	stats := m.PracticeStats()
	assert.Equal(t, PracticeStats{Filter: OffbeatOnly, Policy: ComboExcellentOnly}, stats)
	assert.Empty(t, m.ExpectedHits())
}

func TestPracticeDefaults(t *testing.T) {
	t.Parallel()

	m := NewMetronome(1)
	stats := m.PracticeStats()
	assert.Equal(t, BothVoices, stats.Filter)
	assert.Equal(t, ComboAll, stats.Policy)

	m.SetPracticeFilter("bogus")
	assert.Equal(t, BothVoices, m.PracticeStats().Filter)
}

func TestEvaluationCountsAccuracy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, EvaluationCounts{}.Accuracy())
	assert.Equal(t, 0.75, EvaluationCounts{Excellent: 1, Great: 1, Nice: 1, Miss: 1}.Accuracy())
}
