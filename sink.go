package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/tempo/logger"
	"github.com/robmorgan/tempo/transport"
)

// sinkQueueSize bounds the events waiting for the console to catch up.
const sinkQueueSize = 256

type highlightMsg transport.BeatHighlight

type clearMsg int

type noticeMsg transport.Notice

// programSink forwards transport events into the bubbletea loop. Sink calls
// only enqueue, since Program.Send blocks while Update runs and Update itself
// calls into the transport. Events that arrive before the program is attached
// or while the queue is full are dropped.
type programSink struct {
	mu    sync.Mutex
	queue chan tea.Msg
}

// attach starts forwarding queued events to p, in order, until done is closed.
func (s *programSink) attach(p *tea.Program, done <-chan struct{}) {
	s.mu.Lock()
	s.queue = make(chan tea.Msg, sinkQueueSize)
	queue := s.queue
	s.mu.Unlock()

	go func() {
		for {
			select {
			case msg := <-queue:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()
}

func (s *programSink) send(msg tea.Msg) {
	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()

	if queue == nil {
		return
	}
	select {
	case queue <- msg:
	default:
		logger.GetProjectLogger().Debugf("console busy, dropping %T", msg)
	}
}

func (s *programSink) Highlight(h transport.BeatHighlight) {
	s.send(highlightMsg(h))
}

func (s *programSink) Clear(metronomeID int) {
	s.send(clearMsg(metronomeID))
}

func (s *programSink) Notice(n transport.Notice) {
	s.send(noticeMsg(n))
}
