package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robmorgan/tempo/effect"
	"github.com/robmorgan/tempo/profile"
	"github.com/robmorgan/tempo/transport"
)

// GetConfig returns the default configuration
func GetConfig() Config {
	val, _ := NewConfig()
	return val
}

// Config represents options that configure the global behavior of the program
type Config struct {
	Transport transport.Config

	// Audio output
	SampleRate  int
	AudioBuffer time.Duration

	// PresetPath is the JSON file holding the preset library.
	PresetPath string

	LogLevel string

	// LogFile receives log output while the console owns the terminal.
	LogFile string

	// OSCAddress is where the OSC remote listens. Empty disables it.
	OSCAddress string

	// OLAAddress is the OLA daemon driving the beat lights. Empty disables DMX output.
	OLAAddress string
	DMXTick    time.Duration

	FlashDuration time.Duration
	FlashCurve    effect.Curve

	// The fixture profiles
	FixtureProfiles map[string]profile.Profile

	// PatchedFixtures stores all of the patched beat lights
	PatchedFixtures []PatchedFixture
}

// Create a new Config object with reasonable defaults for real usage
func NewConfig() (Config, error) {
	return Config{
		Transport:       transport.DefaultConfig(),
		SampleRate:      48000,
		AudioBuffer:     100 * time.Millisecond,
		PresetPath:      defaultPresetPath(),
		LogLevel:        "info",
		LogFile:         filepath.Join(os.TempDir(), "tempo.log"),
		OSCAddress:      "",
		OLAAddress:      "",
		DMXTick:         40 * time.Millisecond,
		FlashDuration:   120 * time.Millisecond,
		FlashCurve:      effect.CurveQuad,
		FixtureProfiles: initializeFixtureProfiles(),
		PatchedFixtures: PatchFixtures(),
	}, nil
}

func defaultPresetPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "presets.json"
	}
	return filepath.Join(dir, "tempo", "presets.json")
}
