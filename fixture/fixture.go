package fixture

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/tempo/profile"
	"github.com/robmorgan/tempo/utils"
)

// Fixture is one patched beat light.
type Fixture struct {
	Name     string
	Address  int
	Universe int
	Profile  profile.Profile

	intensity   float64
	color       colorful.Color
	needsUpdate bool
}

// NewFixture creates a dark fixture.
func NewFixture(name string, universe, address int, p profile.Profile) (*Fixture, error) {
	if address < 1 || address+p.Footprint()-1 > universeSize {
		return nil, fmt.Errorf("fixture %s does not fit in a universe at address %d", name, address)
	}
	return &Fixture{
		Name:        name,
		Address:     address,
		Universe:    universe,
		Profile:     p,
		color:       colorful.Color{R: 1, G: 1, B: 1},
		needsUpdate: true,
	}, nil
}

// SetIntensity sets the unit brightness of the fixture.
func (f *Fixture) SetIntensity(level float64) {
	level = utils.Clamp(level, 0, 1)
	if level != f.intensity {
		f.intensity = level
		f.needsUpdate = true
	}
}

func (f *Fixture) GetIntensity() float64 {
	return f.intensity
}

func (f *Fixture) SetColor(c colorful.Color) {
	if c != f.color {
		f.color = c.Clamped()
		f.needsUpdate = true
	}
}

func (f *Fixture) GetColor() colorful.Color {
	return f.color
}

// NeedsUpdate reports whether the fixture changed since its DMX values were last taken.
func (f *Fixture) NeedsUpdate() bool {
	return f.needsUpdate
}

// dmxOperations renders the fixture onto its channels. Fixtures with a dimmer
// channel get full colour and a scaled dimmer; fixtures without one get the
// colour faded by the intensity.
func (f *Fixture) dmxOperations() []dmxOperation {
	f.needsUpdate = false

	var ops []dmxOperation
	add := func(channelType string, value int) {
		if off, ok := f.Profile.Offset(channelType); ok {
			ops = append(ops, dmxOperation{universe: f.Universe, channel: f.Address + off - 1, value: value})
		}
	}

	c := f.color
	if _, ok := f.Profile.Offset(profile.ChannelTypeIntensity); ok {
		add(profile.ChannelTypeIntensity, utils.GetDimmerValue(255, f.intensity))
	} else {
		c = utils.Fade(c, f.intensity)
	}

	if f.Profile.HasColor() {
		r, g, b := c.RGB255()
		add(profile.ChannelTypeRed, int(r))
		add(profile.ChannelTypeGreen, int(g))
		add(profile.ChannelTypeBlue, int(b))
	}
	return ops
}
