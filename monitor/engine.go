// Package monitor runs the equalizer in real time.
//
// An Engine drives one session at a time. The transport invokes the
// session cycle for every captured block; the cycle picks up a settings
// snapshot, filters the block through the chain and the compressor,
// renders it and keeps a copy. Stop raises a flag the cycle checks once
// per block and waits until the cycle has finished before handing the
// recording over.
package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"pipelined.dev/eq"
	"pipelined.dev/eq/metric"
	"pipelined.dev/eq/signal"
)

// Result is the outcome of a finished session.
type Result struct {
	ID         xid.ID
	SampleRate float64
	Blocks     int
	Signal     []float64
}

// Engine owns the transport and the active session. Start, Stop and
// Running are safe for concurrent use.
type Engine struct {
	transport Transport
	cfg       config
	meter     metric.ResetFunc

	mu      sync.Mutex
	session *session
}

// New returns an idle engine.
func New(t Transport, opts ...Option) *Engine {
	cfg := newConfig(opts)
	return &Engine{
		transport: t,
		cfg:       cfg,
		meter:     metric.Meter(cfg.meter, cfg.sampleRate),
	}
}

// Start begins a session reading settings from src, which may be nil.
// The chain starts with the configured settings until src provides a
// valid snapshot. It returns ErrAlreadyRunning if a session is active.
func (e *Engine) Start(src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		return fmt.Errorf("%w: session %s", ErrAlreadyRunning, e.session.id)
	}
	if err := e.cfg.validate(); err != nil {
		return err
	}
	if err := e.cfg.compressor.Validate(); err != nil {
		return fmt.Errorf("compressor: %w", err)
	}

	// the source is first consulted by the cycle
	settings := e.cfg.settings
	chain, err := eq.NewChain(e.cfg.sampleRate, settings,
		eq.WithTaps(e.cfg.taps),
		eq.WithBlockSize(e.cfg.blockSize),
	)
	if err != nil {
		return err
	}

	id := xid.New()
	s := &session{
		id:         id,
		chain:      chain,
		compressor: e.cfg.compressor,
		source:     src,
		block:      make([]float64, e.cfg.blockSize),
		done:       make(chan struct{}),
		measure:    e.meter(),
		logger:     e.cfg.logger.WithField("session", id.String()),
	}
	if err := e.transport.Start(e.cfg.sampleRate, e.cfg.blockSize, s.cycle); err != nil {
		return fmt.Errorf("%w: start: %w", ErrTransportFault, err)
	}
	s.logger.WithFields(logrus.Fields{
		"sampleRate": e.cfg.sampleRate,
		"blockSize":  e.cfg.blockSize,
		"settings":   settings.String(),
	}).Info("monitor started")
	e.session = s
	return nil
}

// Stop asks the cycle to finish and waits for it at most the stop
// timeout. Stop on an idle engine returns an empty result. On
// ErrStopTimeout the session stays active and Stop can be retried.
func (e *Engine) Stop() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	if s == nil {
		return Result{}, nil
	}

	s.stop.Store(true)
	select {
	case <-s.done:
	case <-time.After(e.cfg.stopTimeout):
		s.logger.WithField("timeout", e.cfg.stopTimeout).Error("monitor did not stop")
		return Result{}, fmt.Errorf("%w: session %s after %v", ErrStopTimeout, s.id, e.cfg.stopTimeout)
	}
	e.session = nil

	var err error
	if terr := e.transport.Stop(); terr != nil {
		err = fmt.Errorf("%w: stop: %w", ErrTransportFault, terr)
	}
	result := Result{
		ID:         s.id,
		SampleRate: e.cfg.sampleRate,
		Blocks:     s.blocks,
		Signal:     signal.Concat(s.recording),
	}
	s.logger.WithFields(logrus.Fields{
		"blocks":   result.Blocks,
		"duration": signal.DurationOf(result.SampleRate, int64(len(result.Signal))),
	}).Info("monitor stopped")
	return result, err
}

// Running reports whether a session is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}
