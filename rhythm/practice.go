package rhythm

import "math"

const (
	ExcellentWindow = 0.04
	GreatWindow     = 0.08
	NiceWindow      = 0.12

	// MissAfter is how long an expected hit may go untapped before it counts as missed.
	MissAfter = 0.20

	LedgerWindow   = 1.0
	LedgerCapacity = 50
)

// Rating classifies the timing error of a tap.
type Rating int

const (
	RatingExcellent Rating = iota
	RatingGreat
	RatingNice
	RatingMiss
)

func (r Rating) String() string {
	switch r {
	case RatingExcellent:
		return "EXCELLENT"
	case RatingGreat:
		return "GREAT"
	case RatingNice:
		return "NICE"
	default:
		return "MISS"
	}
}

// Classify maps an absolute timing error in seconds onto a rating.
func Classify(diff float64) Rating {
	diff = math.Abs(diff)
	switch {
	case diff <= ExcellentWindow:
		return RatingExcellent
	case diff <= GreatWindow:
		return RatingGreat
	case diff <= NiceWindow:
		return RatingNice
	default:
		return RatingMiss
	}
}

// ComboPolicy decides which ratings extend the streak.
type ComboPolicy string

const (
	ComboAll           ComboPolicy = "all"
	ComboGreatOrBetter ComboPolicy = "great"
	ComboExcellentOnly ComboPolicy = "excellent"
	ComboDisabled      ComboPolicy = "off"
)

const DefaultComboPolicy = ComboAll

// Extends reports whether r continues the streak under the policy. A miss never does.
func (p ComboPolicy) Extends(r Rating) bool {
	switch p {
	case ComboAll:
		return r != RatingMiss
	case ComboGreatOrBetter:
		return r == RatingExcellent || r == RatingGreat
	case ComboExcellentOnly:
		return r == RatingExcellent
	default:
		return false
	}
}

// ExpectedHit is one scheduled click a tap can be matched against.
type ExpectedHit struct {
	Time   float64
	Voice  Voice
	Tapped bool
}

// EvaluationCounts is the running tally of tap ratings.
type EvaluationCounts struct {
	Excellent int
	Great     int
	Nice      int
	Miss      int
}

func (c *EvaluationCounts) add(r Rating) {
	switch r {
	case RatingExcellent:
		c.Excellent++
	case RatingGreat:
		c.Great++
	case RatingNice:
		c.Nice++
	default:
		c.Miss++
	}
}

// Total is the number of rated taps.
func (c EvaluationCounts) Total() int {
	return c.Excellent + c.Great + c.Nice + c.Miss
}

// Accuracy is the share of taps that were not misses, in [0,1].
func (c EvaluationCounts) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(total-c.Miss) / float64(total)
}

// Evaluation is the outcome of one tap.
type Evaluation struct {
	Rating Rating

	// Offset is tap time minus hit time; negative means early.
	Offset float64

	// Voice is the voice of the matched hit, used to pick the feedback sound.
	Voice Voice
	Combo int
}

// PracticeStats is a copy of the practice tallies.
type PracticeStats struct {
	Counts   EvaluationCounts
	Combo    int
	MaxCombo int
	Filter   VoiceFilter
	Policy   ComboPolicy
	Pending  int
}

type practiceState struct {
	hits     []ExpectedHit
	counts   EvaluationCounts
	combo    int
	maxCombo int
	filter   VoiceFilter
	policy   ComboPolicy
}

func newPracticeState() practiceState {
	return practiceState{
		hits:   make([]ExpectedHit, 0, LedgerCapacity),
		filter: BothVoices,
		policy: DefaultComboPolicy,
	}
}

// AddExpectedHit appends a hit to the ledger.
func (m *Metronome) AddExpectedHit(t float64, v Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addExpectedHitLocked(t, v)
}

// addExpectedHitLocked keeps the ledger to entries within LedgerWindow of the
// newest hit and at most LedgerCapacity entries.
func (m *Metronome) addExpectedHitLocked(t float64, v Voice) {
	p := &m.practice
	kept := p.hits[:0]
	for _, h := range p.hits {
		if t-h.Time <= LedgerWindow {
			kept = append(kept, h)
		}
	}
	if len(kept) >= LedgerCapacity {
		n := copy(kept, kept[len(kept)-LedgerCapacity+1:])
		kept = kept[:n]
	}
	p.hits = append(kept, ExpectedHit{Time: t, Voice: v})
}

// EvaluateTap matches a tap at now against the nearest untapped hit of the
// practised voices. It returns false when there is nothing to match.
func (m *Metronome) EvaluateTap(now float64) (Evaluation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := &m.practice
	best := -1
	bestDist := math.Inf(1)
	for i, h := range p.hits {
		if h.Tapped || !p.filter.Includes(h.Voice) {
			continue
		}
		if d := math.Abs(h.Time - now); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Evaluation{}, false
	}

	hit := &p.hits[best]
	hit.Tapped = true

	rating := Classify(bestDist)
	p.counts.add(rating)
	if p.policy.Extends(rating) {
		p.combo++
		if p.combo > p.maxCombo {
			p.maxCombo = p.combo
		}
	} else {
		p.combo = 0
	}

	return Evaluation{
		Rating: rating,
		Offset: now - hit.Time,
		Voice:  hit.Voice,
		Combo:  p.combo,
	}, true
}

// CheckMissedHits retires practised hits that went untapped for longer than
// MissAfter. The streak resets but the tallies are left alone. It returns the
// number of hits retired.
func (m *Metronome) CheckMissedHits(now float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := &m.practice
	missed := 0
	for i := range p.hits {
		h := &p.hits[i]
		if h.Tapped || !p.filter.Includes(h.Voice) {
			continue
		}
		if now-h.Time > MissAfter {
			h.Tapped = true
			missed++
		}
	}
	if missed > 0 {
		p.combo = 0
	}
	return missed
}

// ExpectedHits returns a copy of the ledger.
func (m *Metronome) ExpectedHits() []ExpectedHit {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ExpectedHit, len(m.practice.hits))
	copy(out, m.practice.hits)
	return out
}

func (m *Metronome) SetPracticeFilter(f VoiceFilter) {
	if !f.Valid() {
		f = BothVoices
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.practice.filter = f
}

func (m *Metronome) SetComboPolicy(p ComboPolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.practice.policy = p
	if p == ComboDisabled {
		m.practice.combo = 0
	}
}

// ResetPractice clears tallies, streaks and the ledger.
func (m *Metronome) ResetPractice() {
	m.mu.Lock()
	defer m.mu.Unlock()

	filter, policy := m.practice.filter, m.practice.policy
	m.practice = newPracticeState()
	m.practice.filter = filter
	m.practice.policy = policy
}

func (m *Metronome) PracticeStats() PracticeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.practiceStatsLocked()
}

func (m *Metronome) practiceStatsLocked() PracticeStats {
	p := m.practice
	pending := 0
	for _, h := range p.hits {
		if !h.Tapped && p.filter.Includes(h.Voice) {
			pending++
		}
	}
	return PracticeStats{
		Counts:   p.counts,
		Combo:    p.combo,
		MaxCombo: p.maxCombo,
		Filter:   p.filter,
		Policy:   p.policy,
		Pending:  pending,
	}
}
