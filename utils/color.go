package utils

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"white": "#FFFFFF",
	"red":   "#FF0000",
	"green": "#00FF00",
	"blue":  "#0000FF",
	"amber": "#FFBF00",
	"gold":  "#FFD700",
}

// GetRGBFromString parses a hex string or one of a few colour names. Unknown input yields white.
func GetRGBFromString(s string) colorful.Color {
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// Fade blends c towards black by the given unit level (1 keeps c unchanged).
func Fade(c colorful.Color, level float64) colorful.Color {
	return colorful.Color{}.BlendRgb(c, Clamp(level, 0, 1))
}
