package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robmorgan/tempo/audio"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ErrUnknownMetronome is returned for ids that are not registered.
var ErrUnknownMetronome = errors.New("unknown metronome")

// Controller is the set of playback intents a front end can issue.
type Controller interface {
	Add() *rhythm.Metronome
	Remove(id int) error
	Replace(states []rhythm.State) []*rhythm.Metronome
	Get(id int) (*rhythm.Metronome, error)

	Toggle(id int) (bool, error)
	Start(id int) error
	Stop(id int) error
	PlayAll()
	StopAll()
	IsPlaying() bool

	Tap(id int) (rhythm.Evaluation, bool, error)
	Snapshot() []rhythm.Snapshot
	States() []rhythm.State
}

// Transport owns the audio engine, the registered metronomes and the shared
// scheduler loop that drives them. Every entry point takes mu before touching a
// metronome.
type Transport struct {
	mu sync.Mutex

	cfg    Config
	clock  clock.Clock
	engine audio.Engine
	notice func(Notice)

	// sinkMu orders highlights against clears. It is never held with mu.
	sinkMu sync.Mutex
	sink   VisualSink

	metronomes []*rhythm.Metronome
	currentID  int

	// active is the pending scheduler tick, nil while idle.
	active  *tickHandle
	visuals map[*deferredCall]struct{}
}

var _ Controller = (*Transport)(nil)

// New creates a transport with no metronomes.
func New(cfg Config, clk clock.Clock, engine audio.Engine, opts ...Option) *Transport {
	t := &Transport{
		cfg:       cfg.withDefaults(),
		clock:     clk,
		engine:    engine,
		sink:      nopSink{},
		notice:    func(Notice) {},
		currentID: 1,
		visuals:   make(map[*deferredCall]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the timings the transport runs with.
func (t *Transport) Config() Config {
	return t.cfg
}

func (t *Transport) getNextIDForUse() int {
	id := t.currentID
	t.currentID++
	return id
}

// Add registers a metronome with default settings. It starts stopped.
func (t *Transport) Add() *rhythm.Metronome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addLocked(rhythm.DefaultState())
}

// AddState registers a metronome configured from s.
func (t *Transport) AddState(s rhythm.State) *rhythm.Metronome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addLocked(s)
}

func (t *Transport) addLocked(s rhythm.State) *rhythm.Metronome {
	m := rhythm.NewMetronome(t.getNextIDForUse())
	m.ApplyState(s)
	t.metronomes = append(t.metronomes, m)

	logger.GetProjectLogger().WithField("metronome", m.ID()).Debug("Metronome added")
	return m
}

// Remove stops and unregisters a metronome.
func (t *Transport) Remove(id int) error {
	t.mu.Lock()
	idx := t.indexLocked(id)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownMetronome, id)
	}
	m := t.metronomes[idx]
	m.Stop()
	t.metronomes = append(t.metronomes[:idx], t.metronomes[idx+1:]...)
	t.settleLocked()
	t.mu.Unlock()

	t.clear(id)
	return nil
}

// Replace stops everything and swaps in one metronome per state, in order.
func (t *Transport) Replace(states []rhythm.State) []*rhythm.Metronome {
	t.mu.Lock()
	old := t.metronomes
	for _, m := range old {
		m.Stop()
	}
	t.metronomes = nil
	for _, s := range states {
		t.addLocked(s)
	}
	added := append([]*rhythm.Metronome(nil), t.metronomes...)
	t.settleLocked()
	t.mu.Unlock()

	for _, m := range old {
		t.clear(m.ID())
	}
	return added
}

// Get returns a registered metronome so its settings can be changed.
func (t *Transport) Get(id int) (*rhythm.Metronome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked(id)
}

func (t *Transport) getLocked(id int) (*rhythm.Metronome, error) {
	if idx := t.indexLocked(id); idx >= 0 {
		return t.metronomes[idx], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMetronome, id)
}

func (t *Transport) indexLocked(id int) int {
	for i, m := range t.metronomes {
		if m.ID() == id {
			return i
		}
	}
	return -1
}

// Metronomes returns the registered metronomes in insertion order.
func (t *Transport) Metronomes() []*rhythm.Metronome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*rhythm.Metronome(nil), t.metronomes...)
}

// Toggle starts a stopped metronome or stops a playing one and returns whether
// it is now playing.
func (t *Transport) Toggle(id int) (bool, error) {
	m, err := t.Get(id)
	if err != nil {
		return false, err
	}
	if m.IsPlaying() {
		return false, t.Stop(id)
	}
	return true, t.Start(id)
}

// Start begins playback of one metronome. If the scheduler is idle it is started;
// otherwise only this metronome is synchronised and the others are left alone.
func (t *Transport) Start(id int) error {
	t.resumeEngine()

	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.getLocked(id)
	if err != nil {
		return err
	}
	if m.IsPlaying() {
		return nil
	}

	m.Start(t.engine.CurrentTime() + t.cfg.StartDelay.Seconds())
	logger.GetProjectLogger().WithFields(logrus.Fields{"metronome": id, "bpm": m.GetTempo()}).Info("Metronome started")

	if t.active == nil {
		t.runLocked()
	}
	return nil
}

// Stop halts one metronome. Stopping the last playing metronome cancels the
// pending scheduler tick.
func (t *Transport) Stop(id int) error {
	t.mu.Lock()
	m, err := t.getLocked(id)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	m.Stop()
	t.settleLocked()
	t.mu.Unlock()

	logger.GetProjectLogger().WithField("metronome", id).Info("Metronome stopped")
	t.clear(id)
	return nil
}

// PlayAll (re)starts every metronome on one shared start time so they begin in phase.
func (t *Transport) PlayAll() {
	t.resumeEngine()

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.metronomes) == 0 {
		return
	}
	at := t.engine.CurrentTime() + t.cfg.StartDelay.Seconds()
	for _, m := range t.metronomes {
		m.Start(at)
	}
	logger.GetProjectLogger().WithField("count", len(t.metronomes)).Info("Playing all metronomes")

	t.cancelTickLocked()
	t.runLocked()
}

// StopAll halts every metronome and the scheduler.
func (t *Transport) StopAll() {
	t.mu.Lock()
	ids := make([]int, 0, len(t.metronomes))
	for _, m := range t.metronomes {
		m.Stop()
		ids = append(ids, m.ID())
	}
	t.settleLocked()
	t.mu.Unlock()

	for _, id := range ids {
		t.clear(id)
	}
}

// IsPlaying reports whether any metronome is playing.
func (t *Transport) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.anyPlayingLocked()
}

// HasPendingTick reports whether a scheduler wake-up is armed.
func (t *Transport) HasPendingTick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// Tap scores a tap on the metronome against its expected hits, using the engine
// clock as the tap time.
func (t *Transport) Tap(id int) (rhythm.Evaluation, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.getLocked(id)
	if err != nil {
		return rhythm.Evaluation{}, false, err
	}

	now := t.engine.CurrentTime()
	eval, ok := m.EvaluateTap(now)
	if !ok {
		return eval, false, nil
	}

	if t.cfg.TapFeedback {
		s := m.ExtractState()
		tone := audio.Tone{Start: now, Frequency: s.MainPitchHz, Volume: s.MainVolume, Waveform: t.cfg.Waveform}
		if eval.Voice == rhythm.VoiceOffbeat {
			tone.Frequency, tone.Volume = s.OffbeatPitchHz, s.OffbeatVolume
		}
		t.engine.Schedule(tone)
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"metronome": id,
		"rating":    eval.Rating.String(),
		"offset":    eval.Offset,
	}).Debug("Tap evaluated")
	return eval, true, nil
}

// Snapshot copies the state of every metronome for display.
func (t *Transport) Snapshot() []rhythm.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]rhythm.Snapshot, 0, len(t.metronomes))
	for _, m := range t.metronomes {
		out = append(out, m.GetSnapshot())
	}
	return out
}

// States returns the persistent configuration of every metronome.
func (t *Transport) States() []rhythm.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]rhythm.State, 0, len(t.metronomes))
	for _, m := range t.metronomes {
		out = append(out, m.ExtractState())
	}
	return out
}

// resumeEngine wakes the audio output. A failure is reported but playback still
// proceeds so the beat grid keeps advancing.
func (t *Transport) resumeEngine() {
	if err := t.engine.Resume(); err != nil {
		logger.GetProjectLogger().Errorf("could not resume audio output: %v", err)
		t.notice(Notice{Message: "audio output unavailable", Err: err})
	}
}

func (t *Transport) anyPlayingLocked() bool {
	for _, m := range t.metronomes {
		if m.IsPlaying() {
			return true
		}
	}
	return false
}

// settleLocked cancels the scheduler once nothing is playing.
func (t *Transport) settleLocked() {
	if !t.anyPlayingLocked() {
		t.cancelTickLocked()
	}
}
