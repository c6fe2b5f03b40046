package eq

import (
	"pipelined.dev/eq/signal"
)

// Apply filters a whole signal with a fresh chain and returns a new
// signal normalized to signal.Headroom. The result does not depend on the
// block size used internally.
func Apply(x []float64, sampleRate float64, s Settings, opts ...Option) ([]float64, error) {
	result, err := Filter(x, sampleRate, s, opts...)
	if err != nil {
		return nil, err
	}
	signal.Normalize(result, signal.Headroom)
	return result, nil
}

// Filter is Apply without normalization.
func Filter(x []float64, sampleRate float64, s Settings, opts ...Option) ([]float64, error) {
	if len(x) == 0 {
		return nil, signal.ErrEmpty
	}
	cfg := newConfig(opts)
	c, err := NewChain(sampleRate, s, opts...)
	if err != nil {
		return nil, err
	}
	result := append([]float64(nil), x...)
	for start := 0; start < len(result); start += cfg.blockSize {
		c.Process(result[start:min(start+cfg.blockSize, len(result))])
	}
	return result, nil
}
