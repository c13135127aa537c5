package rhythm

// PatternID identifies an entry in the pattern table.
type PatternID string

const (
	PatternQuarter       PatternID = "quarter"
	PatternThreeFour     PatternID = "three-four"
	PatternTriplet       PatternID = "triplet"
	PatternTripletHollow PatternID = "triplet-hollow"
	PatternSextuplet     PatternID = "sextuplet"

	DefaultPatternID = PatternQuarter
)

// Pattern describes one cycle of pulses. SubdivisionFactor is how many pulses of the
// pattern fit in one quarter-note beat, so a pulse lasts 60/bpm/SubdivisionFactor seconds.
type Pattern struct {
	ID                PatternID
	Name              string
	BeatCount         int
	SubdivisionFactor int

	// SoundMask marks which pulses produce sound. Silent pulses still advance the
	// cursor and still light up.
	SoundMask []bool
}

// Sounds reports whether the pulse at beat makes a sound.
func (p Pattern) Sounds(beat int) bool {
	if beat < 0 || beat >= len(p.SoundMask) {
		return false
	}
	return p.SoundMask[beat]
}

// BeatDuration returns the length of one pulse in seconds at the given tempo.
func (p Pattern) BeatDuration(bpm int) float64 {
	factor := p.SubdivisionFactor
	if factor < 1 {
		factor = 1
	}
	return 60.0 / float64(bpm) / float64(factor)
}

var patternTable = []Pattern{
	{
		ID:                PatternQuarter,
		Name:              "4/4",
		BeatCount:         4,
		SubdivisionFactor: 1,
		SoundMask:         []bool{true, true, true, true},
	},
	{
		ID:                PatternThreeFour,
		Name:              "3/4",
		BeatCount:         3,
		SubdivisionFactor: 1,
		SoundMask:         []bool{true, true, true},
	},
	{
		ID:                PatternTriplet,
		Name:              "Triplet",
		BeatCount:         3,
		SubdivisionFactor: 3,
		SoundMask:         []bool{true, true, true},
	},
	{
		ID:                PatternTripletHollow,
		Name:              "Hollow triplet",
		BeatCount:         3,
		SubdivisionFactor: 3,
		SoundMask:         []bool{true, false, true},
	},
	{
		ID:                PatternSextuplet,
		Name:              "Sextuplet",
		BeatCount:         6,
		SubdivisionFactor: 6,
		SoundMask:         []bool{true, true, true, true, true, true},
	},
}

// Patterns returns the pattern table in display order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patternTable))
	copy(out, patternTable)
	return out
}

// LookupPattern finds a pattern by id.
func LookupPattern(id PatternID) (Pattern, bool) {
	for _, p := range patternTable {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}

// NextPatternID returns the id following id in the table, wrapping around.
func NextPatternID(id PatternID) PatternID {
	for i, p := range patternTable {
		if p.ID == id {
			return patternTable[(i+1)%len(patternTable)].ID
		}
	}
	return DefaultPatternID
}

func defaultPattern() Pattern {
	p, _ := LookupPattern(DefaultPatternID)
	return p
}
