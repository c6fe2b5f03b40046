// Package filter designs the coefficients used by the equalizer chain.
//
// FIR designs are windowed-sinc filters with a symmetric Hamming window.
// Peaking designs follow the audio EQ cookbook and are returned as
// biquad coefficients normalized by a0.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-dsp/dsp/filter/fir"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// ErrInvalidParameter is returned when a design parameter is out of range.
var ErrInvalidParameter = errors.New("invalid filter parameter")

// LowPass designs a low-pass FIR with unity gain at DC.
func LowPass(sampleRate, cutoff float64, taps int) ([]float64, error) {
	if err := validateFIR(sampleRate, taps); err != nil {
		return nil, err
	}
	c, err := normalize(sampleRate, cutoff)
	if err != nil {
		return nil, err
	}
	return windowedSinc(taps, 0, func(m float64) float64 {
		return c * sinc(c*m)
	})
}

// HighPass designs a high-pass FIR with unity gain at Nyquist. The
// number of taps must be odd, otherwise the response is zero at Nyquist.
func HighPass(sampleRate, cutoff float64, taps int) ([]float64, error) {
	if err := validateFIR(sampleRate, taps); err != nil {
		return nil, err
	}
	if taps%2 == 0 {
		return nil, fmt.Errorf("%w: high-pass needs odd number of taps, got %d", ErrInvalidParameter, taps)
	}
	c, err := normalize(sampleRate, cutoff)
	if err != nil {
		return nil, err
	}
	return windowedSinc(taps, 1, func(m float64) float64 {
		return sinc(m) - c*sinc(c*m)
	})
}

// BandPass designs a band-pass FIR with unity gain at the band centre.
func BandPass(sampleRate, low, high float64, taps int) ([]float64, error) {
	if err := validateFIR(sampleRate, taps); err != nil {
		return nil, err
	}
	l, err := normalize(sampleRate, low)
	if err != nil {
		return nil, err
	}
	h, err := normalize(sampleRate, high)
	if err != nil {
		return nil, err
	}
	if l >= h {
		return nil, fmt.Errorf("%w: band edges %v >= %v", ErrInvalidParameter, low, high)
	}
	return windowedSinc(taps, 0.5*(l+h), func(m float64) float64 {
		return h*sinc(h*m) - l*sinc(l*m)
	})
}

// Peaking designs a peaking EQ biquad. Zero gain yields the identity
// filter.
func Peaking(sampleRate, f0, gainDB, q float64) (biquad.Coefficients, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return biquad.Coefficients{}, fmt.Errorf("%w: sample rate %v", ErrInvalidParameter, sampleRate)
	}
	if _, err := normalize(sampleRate, f0); err != nil {
		return biquad.Coefficients{}, err
	}
	if !(q > 0) || math.IsInf(q, 0) {
		return biquad.Coefficients{}, fmt.Errorf("%w: q %v", ErrInvalidParameter, q)
	}
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return biquad.Coefficients{}, fmt.Errorf("%w: gain %v dB", ErrInvalidParameter, gainDB)
	}

	return design.Peak(f0, gainDB, q, sampleRate), nil
}

// FIRResponse returns the complex response of taps at freq.
func FIRResponse(taps []float64, freq, sampleRate float64) complex128 {
	return fir.New(taps).Response(freq, sampleRate)
}

func validateFIR(sampleRate float64, taps int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidParameter, sampleRate)
	}
	if taps < 1 {
		return fmt.Errorf("%w: taps %d", ErrInvalidParameter, taps)
	}
	return nil
}

// normalize returns frequency relative to Nyquist.
func normalize(sampleRate, freq float64) (float64, error) {
	nyquist := sampleRate / 2
	if !(freq > 0 && freq < nyquist) {
		return 0, fmt.Errorf("%w: frequency %v outside (0, %v)", ErrInvalidParameter, freq, nyquist)
	}
	return freq / nyquist, nil
}

// windowedSinc evaluates ideal at every tap offset from the centre,
// applies the window and scales the result to unity gain at scaleAt,
// given relative to Nyquist.
func windowedSinc(taps int, scaleAt float64, ideal func(m float64) float64) ([]float64, error) {
	win, err := window.Hamming(taps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	h := make([]float64, taps)
	alpha := 0.5 * float64(taps-1)
	var s float64
	for n := range h {
		m := float64(n) - alpha
		h[n] = ideal(m) * win[n]
		s += h[n] * math.Cos(math.Pi*m*scaleAt)
	}
	if s == 0 {
		return nil, fmt.Errorf("%w: degenerate design", ErrInvalidParameter)
	}
	for n := range h {
		h[n] /= s
	}
	return h, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}
