package transport

import "github.com/robmorgan/tempo/rhythm"

// BeatHighlight is delivered when a scheduled beat reaches the speakers.
type BeatHighlight struct {
	MetronomeID int
	Beat        int
	BeatCount   int
	Voice       rhythm.Voice
	Sounding    bool
}

// IsDownBeat reports whether the highlight is for the first beat of the pattern.
func (h BeatHighlight) IsDownBeat() bool {
	return h.Beat == 0
}

// VisualSink receives beat highlights from timer goroutines. Highlights and
// clears are delivered one at a time in order, so implementations must return
// quickly and must not call back into the Transport.
type VisualSink interface {
	Highlight(h BeatHighlight)

	// Clear removes any highlight for the metronome, called when it stops.
	Clear(metronomeID int)
}

type multiSink []VisualSink

// MultiSink fans highlights out to every sink in order.
func MultiSink(sinks ...VisualSink) VisualSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Highlight(h BeatHighlight) {
	for _, s := range m {
		s.Highlight(h)
	}
}

func (m multiSink) Clear(id int) {
	for _, s := range m {
		s.Clear(id)
	}
}

type nopSink struct{}

func (nopSink) Highlight(BeatHighlight) {}
func (nopSink) Clear(int)               {}

// Notice is a non-fatal problem worth showing to the user.
type Notice struct {
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err == nil {
		return n.Message
	}
	return n.Message + ": " + n.Err.Error()
}

// Option configures a Transport.
type Option func(*Transport)

// WithVisualSink routes beat highlights to sink.
func WithVisualSink(sink VisualSink) Option {
	return func(t *Transport) {
		if sink != nil {
			t.sink = sink
		}
	}
}

// WithNoticeHandler routes non-fatal problems to fn.
func WithNoticeHandler(fn func(Notice)) Option {
	return func(t *Transport) {
		if fn != nil {
			t.notice = fn
		}
	}
}
