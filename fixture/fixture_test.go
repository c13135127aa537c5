package fixture

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/tempo/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPar = profile.Profile{
	Name: "par",
	Channels: map[string]int{
		profile.ChannelTypeIntensity: 1,
		profile.ChannelTypeRed:       2,
		profile.ChannelTypeGreen:     3,
		profile.ChannelTypeBlue:      4,
	},
}

var testRGB = profile.Profile{
	Name: "rgb",
	Channels: map[string]int{
		profile.ChannelTypeRed:   1,
		profile.ChannelTypeGreen: 2,
		profile.ChannelTypeBlue:  3,
	},
}

func TestNewFixtureValidatesAddress(t *testing.T) {
	t.Parallel()

	_, err := NewFixture("bad", 1, 0, testPar)
	require.Error(t, err)
	_, err = NewFixture("overflow", 1, 510, testPar)
	require.Error(t, err)

	f, err := NewFixture("ok", 1, 509, testPar)
	require.NoError(t, err)
	assert.True(t, f.NeedsUpdate())
}

func TestFixtureDMXWithDimmer(t *testing.T) {
	t.Parallel()

	f, err := NewFixture("par", 1, 10, testPar)
	require.NoError(t, err)
	f.SetColor(colorful.Color{R: 1})
	f.SetIntensity(0.5)

	state := NewDMXState()
	require.NoError(t, state.set(f.dmxOperations()...))
	assert.False(t, f.NeedsUpdate())

	assert.Equal(t, 127, state.GetValue(1, 10))
	assert.Equal(t, 255, state.GetValue(1, 11))
	assert.Equal(t, 0, state.GetValue(1, 12))
	assert.Equal(t, 0, state.GetValue(1, 13))

	f.SetIntensity(0.5)
	assert.False(t, f.NeedsUpdate())
	f.SetIntensity(2)
	assert.True(t, f.NeedsUpdate())
	assert.Equal(t, 1.0, f.GetIntensity())
}

func TestFixtureDMXWithoutDimmer(t *testing.T) {
	t.Parallel()

	f, err := NewFixture("rgb", 2, 1, testRGB)
	require.NoError(t, err)
	f.SetColor(colorful.Color{R: 1, G: 1, B: 1})
	f.SetIntensity(0)

	state := NewDMXState()
	require.NoError(t, state.set(f.dmxOperations()...))
	for ch := 1; ch <= 3; ch++ {
		assert.Equal(t, 0, state.GetValue(2, ch))
	}

	f.SetIntensity(1)
	require.NoError(t, state.set(f.dmxOperations()...))
	for ch := 1; ch <= 3; ch++ {
		assert.Equal(t, 255, state.GetValue(2, ch))
	}
}

func TestDMXStateRejectsOutOfRangeChannel(t *testing.T) {
	t.Parallel()

	state := NewDMXState()
	require.Error(t, state.set(dmxOperation{universe: 1, channel: 0, value: 1}))
	require.Error(t, state.set(dmxOperation{universe: 1, channel: 513, value: 1}))
	require.NoError(t, state.set(dmxOperation{universe: 1, channel: 512, value: 9}))

	u := state.Universes()
	require.Len(t, u[1], 512)
	assert.Equal(t, byte(9), u[1][511])

	// the copy is detached
	u[1][511] = 0
	assert.Equal(t, 9, state.GetValue(1, 512))
}
