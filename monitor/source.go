package monitor

import (
	"sync/atomic"

	"pipelined.dev/eq"
)

// Source supplies configuration snapshots to the cycle. It is called once
// per block and must not block. ok is false when no snapshot is
// available, the cycle then keeps its current configuration.
type Source interface {
	Settings() (s eq.Settings, ok bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (eq.Settings, bool)

// Settings calls f.
func (f SourceFunc) Settings() (eq.Settings, bool) {
	return f()
}

// Publisher hands settings from a control goroutine to the cycle. Publish
// validates and atomically swaps the snapshot, the cycle reads it without
// locking.
type Publisher struct {
	sampleRate float64
	current    atomic.Pointer[eq.Settings]
}

// NewPublisher returns a publisher without a snapshot.
func NewPublisher(sampleRate float64) *Publisher {
	return &Publisher{sampleRate: sampleRate}
}

// Publish validates s and makes it the current snapshot. Invalid settings
// are rejected and the previous snapshot is kept.
func (p *Publisher) Publish(s eq.Settings) error {
	if err := s.Validate(p.sampleRate); err != nil {
		return err
	}
	p.current.Store(&s)
	return nil
}

// Settings returns the current snapshot.
func (p *Publisher) Settings() (eq.Settings, bool) {
	s := p.current.Load()
	if s == nil {
		return eq.Settings{}, false
	}
	return *s, true
}
