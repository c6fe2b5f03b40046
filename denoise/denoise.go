// Package denoise implements offline spectral subtraction.
//
// The leading ProfileDuration of a signal is treated as noise. Every
// frequency bin of the whole signal is attenuated by
//
//	max(1 - level*noise/(power+Epsilon), 0)
//
// where noise is the mean power of the profile spectrum and power is the
// bin power of the signal.
package denoise

import (
	"fmt"
	"math"
	"time"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-vecmath"

	"pipelined.dev/eq/filter"
	"pipelined.dev/eq/signal"
)

const (
	// ProfileDuration is the length of the leading noise profile.
	ProfileDuration = 100 * time.Millisecond
	// Epsilon keeps the suppression factor finite for silent bins.
	Epsilon = 1e-10
)

// Denoise suppresses noise and normalizes the result to signal.Headroom.
func Denoise(x []float64, sampleRate, level float64) ([]float64, error) {
	result, err := Suppress(x, sampleRate, level)
	if err != nil {
		return nil, err
	}
	signal.Normalize(result, signal.Headroom)
	return result, nil
}

// Suppress returns a new signal with noise suppressed by level, without
// normalization. Level 0 returns the input unchanged. Signals shorter than
// ProfileDuration use the whole signal as the profile.
func Suppress(x []float64, sampleRate, level float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, signal.ErrEmpty
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %v", filter.ErrInvalidParameter, sampleRate)
	}
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return nil, fmt.Errorf("%w: level %v", filter.ErrInvalidParameter, level)
	}

	profile := min(signal.SamplesIn(sampleRate, ProfileDuration), len(x))
	if profile == 0 {
		profile = len(x)
	}
	noise, err := noisePower(x[:profile])
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(len(x))
	if err != nil {
		return nil, fmt.Errorf("denoise: failed to create FFT plan: %w", err)
	}
	spec, err := forward(plan, x)
	if err != nil {
		return nil, err
	}
	power := spectrum.Power(spec)
	for i := range spec {
		factor := math.Max(1-level*noise/(power[i]+Epsilon), 0)
		spec[i] *= complex(factor, 0)
	}

	out := make([]complex128, len(x))
	if err := plan.Inverse(out, spec); err != nil {
		return nil, err
	}
	result := make([]float64, len(x))
	for i := range result {
		result[i] = real(out[i])
	}
	return result, nil
}

// noisePower returns the mean bin power of the profile spectrum.
func noisePower(profile []float64) (float64, error) {
	plan, err := algofft.NewPlan64(len(profile))
	if err != nil {
		return 0, fmt.Errorf("denoise: failed to create profile FFT plan: %w", err)
	}
	spec, err := forward(plan, profile)
	if err != nil {
		return 0, err
	}
	return vecmath.Sum(spectrum.Power(spec)) / float64(len(profile)), nil
}

// forward returns the spectrum of x.
func forward(plan *algofft.Plan[complex128], x []float64) ([]complex128, error) {
	in := make([]complex128, len(x))
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, len(x))
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}
	return out, nil
}
