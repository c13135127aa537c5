package fixture

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robmorgan/tempo/logger"
)

const universeSize = 512

// DMXState holds the DMX512 values for each channel
type DMXState struct {
	universes map[int][]byte
	lock      sync.Mutex
}

type dmxOperation struct {
	universe, channel, value int
}

// NewDMXState returns an empty state.
func NewDMXState() *DMXState {
	return &DMXState{universes: make(map[int][]byte)}
}

// GetValue returns the value of a 1-based channel.
func (s *DMXState) GetValue(universe, channel int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	u := s.universes[universe]
	if channel < 1 || channel > len(u) {
		return 0
	}
	return int(u[channel-1])
}

func (s *DMXState) set(ops ...dmxOperation) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, op := range ops {
		if op.channel < 1 || op.channel > universeSize {
			return fmt.Errorf("dmx channel (%d) not in range, op=%v", op.channel, op)
		}

		s.initializeUniverse(op.universe)
		s.universes[op.universe][op.channel-1] = byte(op.value)
	}

	return nil
}

func (s *DMXState) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, universeSize)
	}
}

// Universes returns a copy of every universe, keyed by number.
func (s *DMXState) Universes() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// SendDMXWorker sends OLA the current DMX state across all universes until ctx is done.
func SendDMXWorker(ctx context.Context, client OLAClient, tick time.Duration, state *DMXState, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	logger := logger.GetProjectLogger()
	logger.Debugf("SendDMXWorker started at %v", time.Now())

	t := time.NewTimer(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("SendDMXWorker shutdown")
			return ctx.Err()
		case <-t.C:
			universes := state.Universes()
			keys := make([]int, 0, len(universes))
			for k := range universes {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			for _, k := range keys {
				if _, err := client.SendDmx(k, universes[k]); err != nil {
					logger.Warnf("could not send universe %d to OLA: %v", k, err)
				}
			}
			t.Reset(tick)
		}
	}
}
