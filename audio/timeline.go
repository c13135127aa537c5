package audio

import (
	"container/heap"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/robmorgan/tempo/logger"
)

// Timeline is a beep.Streamer that plays scheduled tones sample-accurately. Its
// clock is the number of samples rendered so far, so whoever pulls samples from
// it (the speaker or an offline encoder) drives time forward.
type Timeline struct {
	mu sync.Mutex

	sr       beep.SampleRate
	position int
	pending  toneQueue
	mixer    *beep.Mixer
	seq      int
}

// NewTimeline creates an empty timeline at the given sample rate.
func NewTimeline(sr beep.SampleRate) *Timeline {
	return &Timeline{
		sr:    sr,
		mixer: &beep.Mixer{},
	}
}

// SampleRate returns the rate the timeline renders at.
func (t *Timeline) SampleRate() beep.SampleRate {
	return t.sr
}

// CurrentTime returns the number of seconds rendered so far.
func (t *Timeline) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.position) / float64(t.sr)
}

// Schedule queues a tone at its start sample.
func (t *Timeline) Schedule(tone Tone) {
	if math.IsNaN(tone.Start) || math.IsInf(tone.Start, 0) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := int(math.Round(tone.Start * float64(t.sr)))
	if start < t.position {
		start = t.position
	}
	t.seq++
	heap.Push(&t.pending, &scheduledTone{tone: tone, at: start, seq: t.seq})
}

// Resume is a no-op; a timeline is always running while it is being streamed.
func (t *Timeline) Resume() error {
	return nil
}

// Pending returns the number of tones not yet started.
func (t *Timeline) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending.Len()
}

// Active returns the number of tones currently ringing.
func (t *Timeline) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mixer.Len()
}

// Stream renders the next len(samples) frames. It never runs dry; gaps are silence.
func (t *Timeline) Stream(samples [][2]float64) (n int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for len(samples) > 0 {
		t.startDueLocked()

		chunk := len(samples)
		if next, ok := t.pending.peek(); ok && next.at-t.position < chunk {
			chunk = next.at - t.position
		}

		t.mixLocked(samples[:chunk])
		t.position += chunk
		n += chunk
		samples = samples[chunk:]
	}
	return n, true
}

func (t *Timeline) Err() error {
	return nil
}

func (t *Timeline) startDueLocked() {
	for {
		next, ok := t.pending.peek()
		if !ok || next.at > t.position {
			return
		}
		heap.Pop(&t.pending)

		voice, err := newVoice(t.sr, next.tone)
		if err != nil {
			logger.GetProjectLogger().Debugf("Dropping tone: %v", err)
			continue
		}
		t.mixer.Add(voice)
	}
}

func (t *Timeline) mixLocked(buf [][2]float64) {
	if len(buf) == 0 {
		return
	}
	n, _ := t.mixer.Stream(buf)
	for i := n; i < len(buf); i++ {
		buf[i] = [2]float64{}
	}
}

type scheduledTone struct {
	tone Tone
	at   int
	seq  int
}

// toneQueue orders tones by start sample, then by scheduling order.
type toneQueue []*scheduledTone

func (q toneQueue) Len() int { return len(q) }

func (q toneQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q toneQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *toneQueue) Push(x any) {
	*q = append(*q, x.(*scheduledTone))
}

func (q *toneQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return last
}

func (q toneQueue) peek() (*scheduledTone, bool) {
	if len(q) == 0 {
		return nil, false
	}
	return q[0], true
}
