package config

// PatchedFixture stores config info for a beat light
type PatchedFixture struct {
	Name     string
	Address  int
	Universe int
	Profile  string

	// Metronome is the id of the metronome the light follows.
	Metronome int

	BeatColor     string
	DownbeatColor string
}

// PatchFixtures returns the default rig: a pair of pars following the first
// metronome and a beam bar following the second.
func PatchFixtures() []PatchedFixture {
	s := make([]PatchedFixture, 0)

	s = append(s, patchFrontPars()...)
	s = append(s, patchBeamBars()...)

	return s
}

func patchFrontPars() []PatchedFixture {
	return []PatchedFixture{
		{
			Name:          "left_front_par",
			Address:       115,
			Universe:      1,
			Profile:       "shehds-par",
			Metronome:     1,
			BeatColor:     "blue",
			DownbeatColor: "red",
		},
		{
			Name:          "right_front_par",
			Address:       139,
			Universe:      1,
			Profile:       "shehds-par",
			Metronome:     1,
			BeatColor:     "blue",
			DownbeatColor: "red",
		},
	}
}

func patchBeamBars() []PatchedFixture {
	return []PatchedFixture{
		{
			Name:          "center_beam_bar",
			Address:       163,
			Universe:      1,
			Profile:       "shehds-led-bar-beam-8x12w",
			Metronome:     2,
			BeatColor:     "amber",
			DownbeatColor: "white",
		},
	}
}
