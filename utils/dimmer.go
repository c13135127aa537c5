package utils

// GetDimmerValue scales a unit level onto a DMX channel value in [0, target].
func GetDimmerValue(target int, level float64) int {
	if level >= 1 {
		return Clamp(target, 0, 255)
	}

	out := Clamp(level*float64(target), 0, 255)
	return int(out)
}
