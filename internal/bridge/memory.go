package bridge

import (
	"sync"

	"queuepanel/internal/protocol"
)

// Memory is an in-process bridge. The panel side uses it as a Bridge while
// tests and embedding hosts play the controller through Push and Sent.
type Memory struct {
	mu      sync.Mutex
	sent    []protocol.Envelope
	events  chan protocol.Event
	closed  bool
	sendErr error
}

// NewMemory returns a memory bridge whose inbound buffer holds size events.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 16
	}
	return &Memory{events: make(chan protocol.Event, size)}
}

func (m *Memory) Send(env protocol.Envelope) error {
	if _, err := protocol.Encode(env); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, env)
	return nil
}

func (m *Memory) Events() <-chan protocol.Event {
	return m.events
}

func (m *Memory) Err() error { return nil }

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
	return nil
}

// Push delivers an inbound event as if the controller had sent it.
func (m *Memory) Push(event protocol.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case m.events <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// Sent returns a copy of every envelope accepted so far.
func (m *Memory) Sent() []protocol.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.Envelope, len(m.sent))
	copy(out, m.sent)
	return out
}

// FailSends makes subsequent Send calls return err. Pass nil to recover.
func (m *Memory) FailSends(err error) {
	m.mu.Lock()
	m.sendErr = err
	m.mu.Unlock()
}
