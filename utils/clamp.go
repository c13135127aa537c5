package utils

import "golang.org/x/exp/constraints"

// Clamp bounds v to [lo, hi]. The bounds may be given in either order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMax == rMin {
			return 0
		}
		return Clamp((m-rMin)/(rMax-rMin), 0, 1)
	}
}
