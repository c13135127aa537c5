package config

import "github.com/robmorgan/tempo/profile"

func initializeFixtureProfiles() map[string]profile.Profile {
	out := map[string]profile.Profile{
		"shehds-par": {
			Name: "Shehds LED Flat PAR 12x3W RGBW",
			Channels: map[string]int{
				profile.ChannelTypeIntensity: 1,
				profile.ChannelTypeRed:       2,
				profile.ChannelTypeGreen:     3,
				profile.ChannelTypeBlue:      4,
			},
		},
		"shehds-led-bar-beam-8x12w": {
			Name: "Shehds LED Bar Beam 8x12W RGBW",
			// 9 channel mode
			Channels: map[string]int{
				profile.ChannelTypeMotorPosition:  1,
				profile.ChannelTypeMotorSpeed:     2,
				profile.ChannelTypeFunctionSelect: 3,
				profile.ChannelTypeFunctionSpeed:  4,
				profile.ChannelTypeIntensity:      5,
				profile.ChannelTypeRed:            6,
				profile.ChannelTypeGreen:          7,
				profile.ChannelTypeBlue:           8,
				profile.ChannelTypeWhite:          9,
			},
		},
		"generic-dimmer": {
			Name: "Generic dimmer",
			Channels: map[string]int{
				profile.ChannelTypeIntensity: 1,
			},
		},
	}

	return out
}
