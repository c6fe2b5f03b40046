package eq

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"pipelined.dev/eq/filter"
)

// Design holds the coefficients of every chain stage. It is a value
// derived from Settings and sample rate and is safe to share.
type Design struct {
	SampleRate float64
	LowPass    []float64
	HighPass   []float64
	Bands      [3]biquad.Coefficients
}

// NewDesign computes coefficients for settings.
func NewDesign(sampleRate float64, s Settings, taps int) (Design, error) {
	if err := s.Validate(sampleRate); err != nil {
		return Design{}, err
	}
	lp, err := filter.LowPass(sampleRate, s.LowPass, taps)
	if err != nil {
		return Design{}, fmt.Errorf("low-pass: %w", err)
	}
	hp, err := filter.HighPass(sampleRate, s.HighPass, taps)
	if err != nil {
		return Design{}, fmt.Errorf("high-pass: %w", err)
	}
	d := Design{
		SampleRate: sampleRate,
		LowPass:    lp,
		HighPass:   hp,
	}
	for i, b := range s.Bands {
		if d.Bands[i], err = filter.Peaking(sampleRate, b.Freq, b.Gain, b.Q); err != nil {
			return Design{}, fmt.Errorf("band %d: %w", i+1, err)
		}
	}
	return d, nil
}

// Response returns the complex response of the whole chain at freq.
func (d Design) Response(freq float64) complex128 {
	h := filter.FIRResponse(d.LowPass, freq, d.SampleRate) *
		filter.FIRResponse(d.HighPass, freq, d.SampleRate)
	for i := range d.Bands {
		h *= d.Bands[i].Response(freq, d.SampleRate)
	}
	return h
}

// MagnitudeDB returns the chain magnitude response at freq in dB.
func (d Design) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(d.Response(freq)))
}
