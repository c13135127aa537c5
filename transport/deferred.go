package transport

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// deferredCall runs fn once after a delay on clk unless cancelled first.
// Cancellation is best effort: a call whose timer has already fired may still
// run, so callbacks check their own preconditions.
type deferredCall struct {
	timer clock.Timer
	done  chan struct{}
	once  sync.Once
}

func after(clk clock.Clock, d time.Duration, fn func()) *deferredCall {
	if d < 0 {
		d = 0
	}
	c := &deferredCall{
		timer: clk.NewTimer(d),
		done:  make(chan struct{}),
	}
	go func() {
		select {
		case <-c.timer.C():
			fn()
		case <-c.done:
			c.timer.Stop()
		}
	}()
	return c
}

func (c *deferredCall) Cancel() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.done) })
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
