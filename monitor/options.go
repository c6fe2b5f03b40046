package monitor

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"pipelined.dev/eq"
	"pipelined.dev/eq/dynamics"
	"pipelined.dev/eq/filter"
	"pipelined.dev/eq/log"
)

// Defaults of the engine.
const (
	DefaultSampleRate  = 44100.0
	DefaultBlockSize   = 4096
	DefaultStopTimeout = 2 * time.Second
	defaultMeter       = "monitor"
)

type config struct {
	sampleRate  float64
	blockSize   int
	taps        int
	stopTimeout time.Duration
	compressor  dynamics.Compressor
	settings    eq.Settings
	logger      logrus.FieldLogger
	meter       string
}

// Option configures the engine.
type Option func(*config)

// WithSampleRate sets the stream sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) {
		c.sampleRate = sampleRate
	}
}

// WithBlockSize sets the number of samples per cycle.
func WithBlockSize(size int) Option {
	return func(c *config) {
		c.blockSize = size
	}
}

// WithTaps sets the FIR length of the chain.
func WithTaps(taps int) Option {
	return func(c *config) {
		c.taps = taps
	}
}

// WithStopTimeout bounds how long Stop waits for the cycle to exit.
func WithStopTimeout(d time.Duration) Option {
	return func(c *config) {
		c.stopTimeout = d
	}
}

// WithCompressor sets the dynamics stage applied after the chain.
func WithCompressor(comp dynamics.Compressor) Option {
	return func(c *config) {
		c.compressor = comp
	}
}

// WithSettings sets the configuration a session starts with when the
// source has no snapshot yet.
func WithSettings(s eq.Settings) Option {
	return func(c *config) {
		c.settings = s
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMeter sets the component name counters are published under.
func WithMeter(component string) Option {
	return func(c *config) {
		c.meter = component
	}
}

func newConfig(opts []Option) config {
	c := config{
		sampleRate:  DefaultSampleRate,
		blockSize:   DefaultBlockSize,
		taps:        eq.DefaultTaps,
		stopTimeout: DefaultStopTimeout,
		compressor:  dynamics.Default(),
		settings:    eq.DefaultSettings(),
		logger:      log.Discard(),
		meter:       defaultMeter,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// validate checks the stream parameters shared by sessions and recordings.
func (c config) validate() error {
	switch {
	case !(c.sampleRate > 0) || math.IsInf(c.sampleRate, 0):
		return fmt.Errorf("%w: sample rate %v", filter.ErrInvalidParameter, c.sampleRate)
	case c.blockSize <= 0:
		return fmt.Errorf("%w: block size %d", filter.ErrInvalidParameter, c.blockSize)
	case c.stopTimeout <= 0:
		return fmt.Errorf("%w: stop timeout %v", filter.ErrInvalidParameter, c.stopTimeout)
	}
	return nil
}
