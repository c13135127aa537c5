package rhythm

// Snapshot is a point-in-time copy of a metronome for display.
type Snapshot struct {
	ID    int
	State State

	Pattern Pattern

	// BeatCursor is the next beat to be scheduled, Highlight the beat currently lit (-1 for none).
	BeatCursor int
	Highlight  int

	Playing       bool
	NextEventTime float64
	HasNextEvent  bool

	MutedBeats    []int
	MutedOffbeats []int

	Practice PracticeStats
}

// IsDownBeat reports whether the lit beat is the first of the cycle.
func (s Snapshot) IsDownBeat() bool {
	return s.Highlight == 0
}

// GetSnapshot copies everything a view needs under a single lock.
func (m *Metronome) GetSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		ID:            m.id,
		State:         m.extractStateLocked(),
		Pattern:       m.pattern,
		BeatCursor:    m.cursor,
		Highlight:     m.highlight,
		Playing:       m.playing,
		NextEventTime: m.nextEventTime,
		HasNextEvent:  m.hasNextEvent,
		MutedBeats:    sortedKeys(m.mutedBeats),
		MutedOffbeats: sortedKeys(m.mutedOffbeats),
		Practice:      m.practiceStatsLocked(),
	}
}
