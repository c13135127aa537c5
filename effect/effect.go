package effect

import (
	"time"

	"github.com/fogleman/ease"
	"github.com/robmorgan/tempo/utils"
)

// Curve names an easing function used for the decay of a flash.
type Curve string

const (
	CurveLinear Curve = "linear"
	CurveQuad   Curve = "quad"
	CurveCubic  Curve = "cubic"
	CurveQuart  Curve = "quart"
)

// Flash is a light that jumps to full and then decays to nothing over Duration.
type Flash struct {
	Start    time.Time
	Duration time.Duration
	Curve    Curve
}

// NewFlash starts a flash at start.
func NewFlash(start time.Time, d time.Duration, curve Curve) Flash {
	return Flash{Start: start, Duration: d, Curve: curve}
}

// Level returns the flash brightness at now, in [0,1]. It is 0 before the flash
// starts and after it has finished.
func (f Flash) Level(now time.Time) float64 {
	if f.Duration <= 0 || now.Before(f.Start) {
		return 0
	}
	elapsed := now.Sub(f.Start)
	if elapsed >= f.Duration {
		return 0
	}
	progress := utils.ToUnitClamp(0, float64(f.Duration))(float64(elapsed))
	return 1 - f.easing()(progress)
}

// Done reports whether the flash has fully decayed at now.
func (f Flash) Done(now time.Time) bool {
	return now.Sub(f.Start) >= f.Duration
}

func (f Flash) easing() func(float64) float64 {
	switch f.Curve {
	case CurveLinear:
		return ease.Linear
	case CurveCubic:
		return ease.OutCubic
	case CurveQuart:
		return ease.OutQuart
	default:
		return ease.OutQuad
	}
}
