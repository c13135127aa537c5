package profile

const (
	ChannelTypeIntensity = "channel:type:intensity"
	ChannelTypeStrobe    = "channel:type:strobe"

	ChannelTypeRed   = "channel:type:red"
	ChannelTypeGreen = "channel:type:green"
	ChannelTypeBlue  = "channel:type:blue"
	ChannelTypeWhite = "channel:type:white"
	ChannelTypeAmber = "channel:type:amber"

	ChannelTypeMotorPosition  = "channel:type:motor:position"
	ChannelTypeMotorSpeed     = "channel:type:motor:speed"
	ChannelTypeFunctionSelect = "channel:type:function:select"
	ChannelTypeFunctionSpeed  = "channel:type:function:speed"
)

// Profile describes the DMX channel layout of a beat light.
type Profile struct {
	Name string

	// Channels maps a channel type onto its 1-based offset from the fixture address.
	Channels map[string]int
}

// Offset returns the 1-based channel offset of a channel type.
func (p Profile) Offset(channelType string) (int, bool) {
	off, ok := p.Channels[channelType]
	return off, ok && off > 0
}

// Footprint is the number of DMX channels the fixture occupies.
func (p Profile) Footprint() int {
	max := 0
	for _, off := range p.Channels {
		if off > max {
			max = off
		}
	}
	return max
}

// HasColor reports whether the fixture can mix RGB.
func (p Profile) HasColor() bool {
	_, r := p.Offset(ChannelTypeRed)
	_, g := p.Offset(ChannelTypeGreen)
	_, b := p.Offset(ChannelTypeBlue)
	return r && g && b
}
