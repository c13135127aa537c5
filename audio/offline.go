package audio

import (
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/gruntwork-io/go-commons/errors"
)

// RenderOptions controls an offline render.
type RenderOptions struct {
	Length time.Duration

	// Interval is how often OnInterval is called, in timeline time.
	Interval time.Duration

	// OnInterval runs before each interval is rendered, typically one scheduler
	// pass, so tones land on the timeline ahead of the samples being encoded.
	OnInterval func()
}

// RenderWAV pulls opts.Length of audio from tl and writes it to w as 16-bit stereo WAV.
func RenderWAV(w io.WriteSeeker, tl *Timeline, opts RenderOptions) error {
	sr := tl.SampleRate()
	total := sr.N(opts.Length)
	if total <= 0 {
		return ErrEmptyRender
	}

	var src beep.Streamer = tl
	if opts.OnInterval != nil && opts.Interval > 0 {
		src = &intervalStreamer{
			Streamer: tl,
			every:    max(sr.N(opts.Interval), 1),
			fn:       opts.OnInterval,
		}
	}

	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, beep.Take(total, src), format); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// intervalStreamer calls fn every `every` samples, splitting reads at the boundary.
type intervalStreamer struct {
	beep.Streamer
	every int
	left  int
	fn    func()
}

func (s *intervalStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for len(samples) > 0 {
		if s.left == 0 {
			s.fn()
			s.left = s.every
		}
		chunk := min(len(samples), s.left)
		got, ok := s.Streamer.Stream(samples[:chunk])
		n += got
		s.left -= got
		if !ok || got < chunk {
			return n, n > 0
		}
		samples = samples[chunk:]
	}
	return n, true
}
