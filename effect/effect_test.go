package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashLevel(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	testCases := []struct {
		curve    Curve
		at       time.Duration
		expected float64
	}{
		{CurveLinear, 0, 1},
		{CurveLinear, 50 * time.Millisecond, 0.5},
		{CurveLinear, 100 * time.Millisecond, 0},
		{CurveQuad, 50 * time.Millisecond, 0.25},
		{CurveCubic, 50 * time.Millisecond, 0.125},
		{CurveQuart, 50 * time.Millisecond, 0.0625},
		{CurveQuad, -time.Millisecond, 0},
		{CurveQuad, time.Second, 0},
	}

	for _, testCase := range testCases {
		f := NewFlash(start, 100*time.Millisecond, testCase.curve)
		assert.InDelta(t, testCase.expected, f.Level(start.Add(testCase.at)), 1e-9, "%s at %v", testCase.curve, testCase.at)
	}
}

func TestFlashDone(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	f := NewFlash(start, 80*time.Millisecond, CurveQuad)
	assert.False(t, f.Done(start.Add(79*time.Millisecond)))
	assert.True(t, f.Done(start.Add(80*time.Millisecond)))
	assert.Equal(t, 0.0, Flash{}.Level(start))
}
