package osctrigger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/rhythm"
	"github.com/sirupsen/logrus"
)

const addressPrefix = "/metronome"

// Remote is the part of the transport the OSC remote drives.
type Remote interface {
	Toggle(id int) (bool, error)
	PlayAll()
	StopAll()
	Tap(id int) (rhythm.Evaluation, bool, error)
	Get(id int) (*rhythm.Metronome, error)
}

// Dispatcher maps incoming OSC messages onto metronome intents:
//
//	/metronome/playall
//	/metronome/stopall
//	/metronome/{id}/toggle
//	/metronome/{id}/tap
//	/metronome/{id}/tempo   bpm (int, float or string)
//	/metronome/{id}/pattern name
type Dispatcher struct {
	remote Remote
}

// NewDispatcher returns a dispatcher driving remote.
func NewDispatcher(remote Remote) *Dispatcher {
	return &Dispatcher{remote: remote}
}

// Dispatch implements osc.Dispatcher.
func (d *Dispatcher) Dispatch(packet osc.Packet) {
	switch packet := packet.(type) {
	case *osc.Message:
		if err := d.handle(packet); err != nil {
			logger.GetProjectLogger().WithFields(logrus.Fields{"address": packet.Address}).Warnf("OSC message rejected: %v", err)
		}
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			d.Dispatch(msg)
		}
		for _, b := range packet.Bundles {
			d.Dispatch(b)
		}
	}
}

func (d *Dispatcher) handle(msg *osc.Message) error {
	parts := strings.Split(strings.Trim(msg.Address, "/"), "/")
	if len(parts) < 2 || "/"+parts[0] != addressPrefix {
		return fmt.Errorf("unknown address")
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "playall":
			d.remote.PlayAll()
			return nil
		case "stopall":
			d.remote.StopAll()
			return nil
		}
		return fmt.Errorf("unknown command %q", parts[1])
	}
	if len(parts) != 3 {
		return fmt.Errorf("unknown address")
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid metronome id %q", parts[1])
	}

	switch parts[2] {
	case "toggle":
		_, err := d.remote.Toggle(id)
		return err
	case "tap":
		_, _, err := d.remote.Tap(id)
		return err
	case "tempo":
		m, err := d.remote.Get(id)
		if err != nil {
			return err
		}
		arg, err := firstArgument(msg)
		if err != nil {
			return err
		}
		m.ParseTempo(arg)
		return nil
	case "pattern":
		m, err := d.remote.Get(id)
		if err != nil {
			return err
		}
		arg, err := firstArgument(msg)
		if err != nil {
			return err
		}
		return m.SetPattern(rhythm.PatternID(arg))
	}
	return fmt.Errorf("unknown command %q", parts[2])
}

// firstArgument renders the first argument as text so numeric input can go
// through the same parsing as typed input.
func firstArgument(msg *osc.Message) (string, error) {
	if len(msg.Arguments) == 0 {
		return "", fmt.Errorf("missing argument")
	}
	switch v := msg.Arguments[0].(type) {
	case string:
		return v, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported argument type %T", v)
	}
}
