package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/eq/signal"
)

// Record captures d of unprocessed input through t and renders silence
// meanwhile. If ctx is done first, the samples captured so far are
// returned with the context error.
func Record(ctx context.Context, t Transport, sampleRate float64, d time.Duration, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)
	cfg.sampleRate = sampleRate
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := signal.SamplesIn(sampleRate, d)
	if n <= 0 {
		return nil, signal.ErrEmpty
	}
	var (
		buf      = make([]float64, n)
		captured atomic.Int64
		done     = make(chan struct{})
		once     sync.Once
	)
	cycle := func(in, out []float32, status Status) {
		silence(out)
		pos := int(captured.Load())
		if pos >= n {
			return
		}
		if status != 0 {
			cfg.logger.WithField("status", status.String()).Warn("transport fault while recording")
		}
		pos += signal.Float64(buf[pos:], in)
		captured.Store(int64(pos))
		if pos >= n {
			once.Do(func() { close(done) })
		}
	}
	if err := t.Start(sampleRate, cfg.blockSize, cycle); err != nil {
		return nil, fmt.Errorf("%w: start: %w", ErrTransportFault, err)
	}

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if terr := t.Stop(); terr != nil {
		err = errors.Join(err, fmt.Errorf("%w: stop: %w", ErrTransportFault, terr))
	}
	return buf[:captured.Load()], err
}
