package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/tempo/logger"
)

// Device hooks, replaced in tests so no hardware is touched.
var (
	initSpeaker = speaker.Init
	playSpeaker = speaker.Play
)

// Speaker plays a Timeline on the system audio device. The device is opened on
// the first Resume, so creating a Speaker never touches the hardware. A failed
// open is retried on the next Resume.
type Speaker struct {
	*Timeline

	buffer time.Duration

	mu        sync.Mutex
	opened    bool
	suspended bool
}

// NewSpeaker creates a speaker-backed engine. buffer is the device buffer length.
func NewSpeaker(sr beep.SampleRate, buffer time.Duration) *Speaker {
	return &Speaker{
		Timeline: NewTimeline(sr),
		buffer:   buffer,
	}
}

// Resume opens the device if needed and resumes it after a Suspend.
func (s *Speaker) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		logger.GetProjectLogger().Infof("Opening audio output at %d Hz", s.sr)
		if err := initSpeaker(s.sr, s.sr.N(s.buffer)); err != nil {
			return errors.WithStackTrace(err)
		}
		playSpeaker(s.Timeline)
		s.opened = true
		s.suspended = false
		return nil
	}

	if !s.suspended {
		return nil
	}
	if err := speaker.Resume(); err != nil {
		return errors.WithStackTrace(err)
	}
	s.suspended = false
	return nil
}

// Suspend pauses the device. The timeline clock stops with it.
func (s *Speaker) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened || s.suspended {
		return nil
	}
	if err := speaker.Suspend(); err != nil {
		return errors.WithStackTrace(err)
	}
	s.suspended = true
	return nil
}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		speaker.Clear()
	}
}
