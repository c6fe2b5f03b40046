// Package mock provides an in-process capture/render transport that
// allows to run the monitor without audio hardware.
package mock

import (
	"errors"
	"sync"
	"time"

	"pipelined.dev/eq/monitor"
	"pipelined.dev/eq/signal"
)

// ErrStarted is returned when a running transport is started again.
var ErrStarted = errors.New("mock transport is already started")

// Transport mocks a monitor.Transport. Cycles are invoked from a single
// goroutine. Input is captured block by block, silence follows its end.
// After Limit blocks the transport stalls until Resume or Stop is called.
type Transport struct {
	Interval time.Duration
	Limit    int
	Input    []float64
	// Status returns the status reported for a block.
	Status func(block int) monitor.Status
	Hooks

	mu      sync.Mutex
	counter counter
	output  []float64
	run     *run
}

// Hooks allows to mock transport hooks.
type Hooks struct {
	Started bool
	Stopped bool

	ErrorOnStart error
	ErrorOnStop  error
}

type run struct {
	stop    chan struct{}
	done    chan struct{}
	resume  chan struct{}
	resumed sync.Once
}

// Start implements monitor.Transport.
func (m *Transport) Start(sampleRate float64, blockSize int, cycle monitor.Cycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run != nil {
		return ErrStarted
	}
	m.Started = true
	if m.ErrorOnStart != nil {
		return m.ErrorOnStart
	}
	m.counter.reset()
	m.output = nil
	r := &run{
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		resume: make(chan struct{}),
	}
	m.run = r
	go m.loop(r, blockSize, cycle)
	return nil
}

func (m *Transport) loop(r *run, blockSize int, cycle monitor.Cycle) {
	defer close(r.done)
	in := make([]float32, blockSize)
	out := make([]float32, blockSize)
	for block := 0; ; block++ {
		if m.Limit > 0 && block == m.Limit {
			select {
			case <-r.stop:
				return
			case <-r.resume:
			}
		}
		select {
		case <-r.stop:
			return
		default:
		}

		clear(in)
		if start := block * blockSize; start < len(m.Input) {
			signal.Float32(in, m.Input[start:])
		}
		var status monitor.Status
		if m.Status != nil {
			status = m.Status(block)
		}
		cycle(in, out, status)

		m.mu.Lock()
		for _, v := range out {
			m.output = append(m.output, float64(v))
		}
		m.counter.advance(blockSize)
		m.mu.Unlock()

		if m.Interval > 0 {
			select {
			case <-r.stop:
				return
			case <-time.After(m.Interval):
			}
		}
	}
}

// Resume lifts the stall caused by Limit.
func (m *Transport) Resume() {
	m.mu.Lock()
	r := m.run
	m.mu.Unlock()
	if r != nil {
		r.resumed.Do(func() { close(r.resume) })
	}
}

// Stop implements monitor.Transport. It returns after the cycle goroutine
// has exited.
func (m *Transport) Stop() error {
	m.mu.Lock()
	r := m.run
	m.run = nil
	m.Stopped = true
	m.mu.Unlock()
	if r != nil {
		close(r.stop)
		<-r.done
	}
	return m.ErrorOnStop
}

// Output returns a copy of everything rendered so far.
func (m *Transport) Output() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.output...)
}

// Count returns number of cycles and samples.
func (m *Transport) Count() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter.messages, m.counter.samples
}

// counter counts messages and samples.
type counter struct {
	messages int
	samples  int
}

// advance counter's metrics.
func (c *counter) advance(size int) {
	c.messages++
	c.samples = c.samples + size
}

// reset resets counter's metrics.
func (c *counter) reset() {
	c.messages, c.samples = 0, 0
}
