package fixture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/profile"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/robmorgan/tempo/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func testLightsConfig() config.Config {
	return config.Config{
		FlashDuration: 100 * time.Millisecond,
		FlashCurve:    effect.CurveLinear,
		FixtureProfiles: map[string]profile.Profile{
			"par": testPar,
		},
		PatchedFixtures: []config.PatchedFixture{
			{Name: "a", Address: 1, Universe: 1, Profile: "par", Metronome: 1, BeatColor: "blue", DownbeatColor: "red"},
			{Name: "b", Address: 5, Universe: 1, Profile: "par", Metronome: 2, BeatColor: "green", DownbeatColor: "white"},
		},
	}
}

func TestBeatLightsFlashOnHighlight(t *testing.T) {
	t.Parallel()

	clk := clocktesting.NewFakeClock(time.Unix(0, 0))
	state := NewDMXState()
	bl, err := NewBeatLights(testLightsConfig(), clk, state)
	require.NoError(t, err)
	assert.Equal(t, 2, bl.Group().Count())

	bl.Highlight(transport.BeatHighlight{MetronomeID: 1, Beat: 0, BeatCount: 4, Voice: rhythm.VoiceMain, Sounding: true})
	require.NoError(t, bl.Render())

	// downbeat is red at full
	assert.Equal(t, 255, state.GetValue(1, 1))
	assert.Equal(t, 255, state.GetValue(1, 2))
	assert.Equal(t, 0, state.GetValue(1, 4))

	// the other metronome's light stays dark
	assert.Equal(t, 0, state.GetValue(1, 5))

	clk.Step(50 * time.Millisecond)
	require.NoError(t, bl.Render())
	assert.Equal(t, 127, state.GetValue(1, 1))

	clk.Step(50 * time.Millisecond)
	require.NoError(t, bl.Render())
	assert.Equal(t, 0, state.GetValue(1, 1))
}

func TestBeatLightsOffbeatAndClear(t *testing.T) {
	t.Parallel()

	clk := clocktesting.NewFakeClock(time.Unix(0, 0))
	state := NewDMXState()
	bl, err := NewBeatLights(testLightsConfig(), clk, state)
	require.NoError(t, err)

	bl.Highlight(transport.BeatHighlight{MetronomeID: 2, Beat: 1, Voice: rhythm.VoiceOffbeat})
	require.NoError(t, bl.Render())
	assert.Equal(t, 102, state.GetValue(1, 5))
	assert.Equal(t, 255, state.GetValue(1, 7))

	bl.Clear(2)
	require.NoError(t, bl.Render())
	assert.Equal(t, 0, state.GetValue(1, 5))
}

func TestBeatLightsUnknownProfile(t *testing.T) {
	t.Parallel()

	cfg := testLightsConfig()
	cfg.PatchedFixtures[0].Profile = "moving-head"
	_, err := NewBeatLights(cfg, clocktesting.NewFakeClock(time.Unix(0, 0)), NewDMXState())
	require.Error(t, err)
}

type fakeOLA struct {
	mu     sync.Mutex
	sent   map[int][]byte
	closed bool
}

func (f *fakeOLA) SendDmx(universe int, values []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[universe] = values
	return true, nil
}

func (f *fakeOLA) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestSendDMXWorker(t *testing.T) {
	t.Parallel()

	state := NewDMXState()
	require.NoError(t, state.set(dmxOperation{universe: 3, channel: 2, value: 200}))

	client := &fakeOLA{sent: make(map[int][]byte)}
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	wg.Add(1)
	go SendDMXWorker(ctx, client, time.Millisecond, state, &wg)

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.sent[3]) == 512
	}, time.Second, time.Millisecond)

	cancel()
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.closed)
	assert.Equal(t, byte(200), client.sent[3][1])
}
