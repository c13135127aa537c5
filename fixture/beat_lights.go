package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/transport"
	"github.com/robmorgan/tempo/utils"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// offbeatLevel is the peak brightness of a flash triggered by the offbeat voice.
const offbeatLevel = 0.4

type beatLight struct {
	fixture   *Fixture
	metronome int
	beat      colorful.Color
	downbeat  colorful.Color

	flash effect.Flash
	peak  float64
	color colorful.Color
}

// BeatLights flashes patched fixtures in time with the metronome each one follows.
// It is a transport.VisualSink.
type BeatLights struct {
	mu sync.Mutex

	clock  clock.Clock
	state  *DMXState
	group  *Group
	lights []*beatLight

	flashDuration time.Duration
	curve         effect.Curve
}

var _ transport.VisualSink = (*BeatLights)(nil)

// NewBeatLights patches every configured fixture.
func NewBeatLights(cfg config.Config, clk clock.Clock, state *DMXState) (*BeatLights, error) {
	bl := &BeatLights{
		clock:         clk,
		state:         state,
		group:         NewGroup(),
		flashDuration: cfg.FlashDuration,
		curve:         cfg.FlashCurve,
	}

	for _, pf := range cfg.PatchedFixtures {
		p, ok := cfg.FixtureProfiles[pf.Profile]
		if !ok {
			return nil, fmt.Errorf("fixture %s uses unknown profile %q", pf.Name, pf.Profile)
		}
		f, err := NewFixture(pf.Name, pf.Universe, pf.Address, p)
		if err != nil {
			return nil, err
		}
		bl.group.AddFixture(pf.Name, f)
		bl.lights = append(bl.lights, &beatLight{
			fixture:   f,
			metronome: pf.Metronome,
			beat:      utils.GetRGBFromString(pf.BeatColor),
			downbeat:  utils.GetRGBFromString(pf.DownbeatColor),
		})
	}

	logger.GetProjectLogger().WithField("fixtures", bl.group.Count()).Info("Beat lights patched")
	return bl, nil
}

// Group returns the patched fixtures.
func (bl *BeatLights) Group() *Group {
	return bl.group
}

// Highlight starts a flash on every light following the metronome.
func (bl *BeatLights) Highlight(h transport.BeatHighlight) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	now := bl.clock.Now()
	for _, l := range bl.lights {
		if l.metronome != h.MetronomeID {
			continue
		}
		l.flash = effect.NewFlash(now, bl.flashDuration, bl.curve)
		l.peak = 1
		if h.Voice == rhythm.VoiceOffbeat {
			l.peak = offbeatLevel
		}
		l.color = l.beat
		if h.IsDownBeat() {
			l.color = l.downbeat
		}
	}
}

// Clear blacks out the lights following the metronome.
func (bl *BeatLights) Clear(metronomeID int) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	for _, l := range bl.lights {
		if l.metronome == metronomeID {
			l.flash = effect.Flash{}
		}
	}
}

// Render writes the current flash levels into the DMX state.
func (bl *BeatLights) Render() error {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	now := bl.clock.Now()
	for _, l := range bl.lights {
		l.fixture.SetColor(l.color)
		l.fixture.SetIntensity(l.peak * l.flash.Level(now))
		if !l.fixture.NeedsUpdate() {
			continue
		}
		if err := bl.state.set(l.fixture.dmxOperations()...); err != nil {
			return err
		}
	}
	return nil
}

// Run renders every tick until ctx is done.
func (bl *BeatLights) Run(ctx context.Context, tick time.Duration, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := logger.GetProjectLogger()
	t := bl.clock.NewTimer(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Beat lights shutdown")
			return
		case <-t.C():
			if err := bl.Render(); err != nil {
				logger.WithFields(logrus.Fields{"error": err}).Warn("Beat light render failed")
			}
			t.Reset(tick)
		}
	}
}
