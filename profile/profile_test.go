package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile(t *testing.T) {
	t.Parallel()

	par := Profile{
		Name: "par",
		Channels: map[string]int{
			ChannelTypeIntensity: 1,
			ChannelTypeRed:       2,
			ChannelTypeGreen:     3,
			ChannelTypeBlue:      4,
		},
	}
	assert.Equal(t, 4, par.Footprint())
	assert.True(t, par.HasColor())

	off, ok := par.Offset(ChannelTypeGreen)
	assert.True(t, ok)
	assert.Equal(t, 3, off)

	_, ok = par.Offset(ChannelTypeStrobe)
	assert.False(t, ok)

	dimmer := Profile{Channels: map[string]int{ChannelTypeIntensity: 1}}
	assert.False(t, dimmer.HasColor())
	assert.Equal(t, 1, dimmer.Footprint())
}
