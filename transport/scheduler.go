package transport

import (
	"github.com/robmorgan/tempo/audio"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/sirupsen/logrus"
)

// tickHandle identifies one armed scheduler wake-up. A tick that finds a
// different handle active was superseded and does nothing.
type tickHandle struct {
	call *deferredCall
}

// runLocked schedules immediately and arms the next wake-up.
func (t *Transport) runLocked() {
	t.scheduleLocked(true)
	t.rearmLocked()
}

func (t *Transport) rearmLocked() {
	if !t.anyPlayingLocked() {
		t.active = nil
		return
	}
	h := &tickHandle{}
	h.call = after(t.clock, t.cfg.LookaheadInterval, func() { t.tick(h) })
	t.active = h
}

func (t *Transport) tick(h *tickHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != h {
		return
	}
	t.runLocked()
}

func (t *Transport) cancelTickLocked() {
	if t.active != nil {
		t.active.call.Cancel()
		t.active = nil
	}
	for v := range t.visuals {
		v.Cancel()
		delete(t.visuals, v)
	}
}

// Step runs one scheduler pass without arming a wake-up or any visual
// callbacks. Offline renderers call it in place of the timer.
func (t *Transport) Step() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduleLocked(false)
}

// scheduleLocked fills the look-ahead window of every playing metronome in
// insertion order. Highlights are only armed when visuals is set.
func (t *Transport) scheduleLocked(visuals bool) {
	now := t.engine.CurrentTime()
	opts := rhythm.ScheduleOptions{
		Now:           now,
		Ahead:         t.cfg.ScheduleAhead.Seconds(),
		AccentBoostHz: t.cfg.AccentBoostHz,
	}

	for _, m := range t.metronomes {
		if !m.IsPlaying() {
			continue
		}
		for _, beat := range t.collect(m, opts) {
			t.emitLocked(m, beat, now, visuals)
		}
		if missed := m.CheckMissedHits(now); missed > 0 {
			logger.GetProjectLogger().WithFields(logrus.Fields{"metronome": m.ID(), "missed": missed}).Debug("Expected hits missed")
		}
	}
}

// collect isolates one metronome so a failure cannot stop the others from being scheduled.
func (t *Transport) collect(m *rhythm.Metronome, opts rhythm.ScheduleOptions) (beats []rhythm.Beat) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetProjectLogger().WithField("metronome", m.ID()).Errorf("scheduling failed: %v", r)
			beats = nil
		}
	}()
	return m.CollectBeats(opts)
}

func (t *Transport) emitLocked(m *rhythm.Metronome, beat rhythm.Beat, now float64, visuals bool) {
	for _, c := range beat.Clicks {
		t.engine.Schedule(audio.Tone{
			Start:     c.Time,
			Frequency: c.Frequency,
			Volume:    c.Volume,
			Waveform:  t.cfg.Waveform,
		})
	}

	if !visuals {
		return
	}
	mode := m.GetVisualMode()
	count := m.GetPattern().BeatCount
	if mode.Includes(rhythm.VoiceMain) {
		t.armVisualLocked(m, beat, rhythm.VoiceMain, beat.MainStart, now, count)
	}
	if mode.Includes(rhythm.VoiceOffbeat) {
		t.armVisualLocked(m, beat, rhythm.VoiceOffbeat, beat.OffbeatStart, now, count)
	}
}

// armVisualLocked defers a highlight until the beat is heard. By the time it
// fires the transport or the metronome may have stopped or restarted, so the
// callback re-checks both before touching anything.
func (t *Transport) armVisualLocked(m *rhythm.Metronome, beat rhythm.Beat, v rhythm.Voice, at, now float64, count int) {
	h := BeatHighlight{
		MetronomeID: beat.MetronomeID,
		Beat:        beat.Index,
		BeatCount:   count,
		Voice:       v,
		Sounding:    beat.Sounding,
	}

	var call *deferredCall
	call = after(t.clock, secondsToDuration(at-now), func() {
		t.mu.Lock()
		delete(t.visuals, call)
		show := t.active != nil && m.ShowBeat(beat.Epoch, beat.Index)
		t.mu.Unlock()

		if show {
			t.highlight(m, beat.Epoch, h)
		}
	})
	t.visuals[call] = struct{}{}
}

// highlight delivers h unless the metronome has been stopped or restarted since
// the beat was scheduled. It shares sinkMu with clear, so a highlight can never
// land after the clear that follows a stop.
func (t *Transport) highlight(m *rhythm.Metronome, epoch uint64, h BeatHighlight) {
	t.sinkMu.Lock()
	defer t.sinkMu.Unlock()

	if !m.IsPlaying() || m.Epoch() != epoch {
		return
	}
	t.sink.Highlight(h)
}

func (t *Transport) clear(id int) {
	t.sinkMu.Lock()
	defer t.sinkMu.Unlock()
	t.sink.Clear(id)
}
