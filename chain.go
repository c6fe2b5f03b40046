package eq

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-vecmath"
)

// Chain is a stateful equalizer. It is not safe for concurrent use: one
// goroutine configures and processes it.
type Chain struct {
	sampleRate float64
	taps       int
	settings   Settings
	design     Design

	lowPass  firStage
	highPass firStage
	bands    [3]*biquad.Section
}

// NewChain returns a chain configured with settings and zero state.
func NewChain(sampleRate float64, s Settings, opts ...Option) (*Chain, error) {
	cfg := newConfig(opts)
	d, err := NewDesign(sampleRate, s, cfg.taps)
	if err != nil {
		return nil, err
	}
	c := Chain{
		sampleRate: sampleRate,
		taps:       cfg.taps,
		settings:   s,
		design:     d,
	}
	c.lowPass.configure(d.LowPass, cfg.blockSize)
	c.highPass.configure(d.HighPass, cfg.blockSize)
	for i := range c.bands {
		c.bands[i] = biquad.NewSection(d.Bands[i])
	}
	return &c, nil
}

// Configure recomputes all stage coefficients. Delay lines are kept for
// every stage whose coefficient length is unchanged. Invalid settings are
// rejected and the current configuration is kept.
func (c *Chain) Configure(s Settings) error {
	d, err := NewDesign(c.sampleRate, s, c.taps)
	if err != nil {
		return err
	}
	c.lowPass.configure(d.LowPass, 0)
	c.highPass.configure(d.HighPass, 0)
	for i := range c.bands {
		c.bands[i].Coefficients = d.Bands[i]
	}
	c.settings = s
	c.design = d
	return nil
}

// Process filters block in place through all stages.
func (c *Chain) Process(block []float64) {
	if len(block) == 0 {
		return
	}
	c.lowPass.process(block)
	c.highPass.process(block)
	for _, b := range c.bands {
		b.ProcessBlock(block)
	}
}

// Settings returns the active configuration.
func (c *Chain) Settings() Settings {
	return c.settings
}

// Design returns coefficients of the active configuration.
func (c *Chain) Design() Design {
	return c.design
}

// SampleRate returns the rate the chain was designed for.
func (c *Chain) SampleRate() float64 {
	return c.sampleRate
}

// Reset clears all delay lines.
func (c *Chain) Reset() {
	c.lowPass.reset()
	c.highPass.reset()
	for _, b := range c.bands {
		b.Reset()
	}
}

// firStage is a direct-form FIR that keeps the last len(taps)-1 input
// samples between blocks.
type firStage struct {
	reversed []float64
	history  []float64
	ext      []float64
}

// configure installs taps. The history is reallocated only when the
// number of taps changes. capacity preallocates scratch for blocks of
// that size.
func (s *firStage) configure(taps []float64, capacity int) {
	if len(taps) != len(s.reversed) {
		s.reversed = make([]float64, len(taps))
		s.history = make([]float64, len(taps)-1)
	}
	for i, v := range taps {
		s.reversed[len(taps)-1-i] = v
	}
	if n := len(s.history) + capacity; cap(s.ext) < n {
		s.ext = make([]float64, n)
	}
}

func (s *firStage) process(block []float64) {
	k := len(s.history)
	n := k + len(block)
	if cap(s.ext) < n {
		s.ext = make([]float64, n)
	}
	ext := s.ext[:n]
	copy(ext, s.history)
	copy(ext[k:], block)
	taps := len(s.reversed)
	for i := range block {
		block[i] = vecmath.DotProduct(s.reversed, ext[i:i+taps])
	}
	copy(s.history, ext[len(block):])
}

func (s *firStage) reset() {
	for i := range s.history {
		s.history[i] = 0
	}
}
