package eq

// Response returns the complex chain response for every frequency in
// freqs.
func Response(sampleRate float64, s Settings, freqs []float64, opts ...Option) ([]complex128, error) {
	cfg := newConfig(opts)
	d, err := NewDesign(sampleRate, s, cfg.taps)
	if err != nil {
		return nil, err
	}
	h := make([]complex128, len(freqs))
	for i, f := range freqs {
		h[i] = d.Response(f)
	}
	return h, nil
}

// ResponseGrid returns n frequencies evenly spaced over [0, nyquist).
func ResponseGrid(sampleRate float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	freqs := make([]float64, n)
	step := sampleRate / 2 / float64(n)
	for i := range freqs {
		freqs[i] = float64(i) * step
	}
	return freqs
}
