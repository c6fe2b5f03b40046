// Package testutil generates test signals and reference filters.
package testutil

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// Sine returns n samples of a sine wave.
func Sine(freq, sampleRate, amplitude float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return x
}

// Noise returns n samples of uniform noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func Noise(seed uint64, amplitude float64, n int) []float64 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	x := make([]float64, n)
	for i := range x {
		x[i] = amplitude * (2*r.Float64() - 1)
	}
	return x
}

// LFilter filters x with the rational transfer function b/a from zero
// initial state. a[0] must be 1.
func LFilter(b, a, x []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		var acc float64
		for k := 0; k < len(b) && k <= n; k++ {
			acc += b[k] * x[n-k]
		}
		for k := 1; k < len(a) && k <= n; k++ {
			acc -= a[k] * y[n-k]
		}
		y[n] = acc
	}
	return y
}

// Biquad filters x with c from zero state.
func Biquad(c biquad.Coefficients, x []float64) []float64 {
	return LFilter([]float64{c.B0, c.B1, c.B2}, []float64{1, c.A1, c.A2}, x)
}

// Partition splits n samples into consecutive random block lengths
// between 1 and maxSize.
func Partition(seed uint64, n, maxSize int) []int {
	r := rand.New(rand.NewPCG(seed, seed+1))
	var sizes []int
	for n > 0 {
		size := min(1+r.IntN(maxSize), n)
		sizes = append(sizes, size)
		n -= size
	}
	return sizes
}

// MaxAbsDiff returns the largest absolute sample difference.
func MaxAbsDiff(a, b []float64) float64 {
	var d float64
	for i := range min(len(a), len(b)) {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

// MaxStep returns the largest absolute difference between adjacent
// samples.
func MaxStep(x []float64) float64 {
	var d float64
	for i := 1; i < len(x); i++ {
		d = math.Max(d, math.Abs(x[i]-x[i-1]))
	}
	return d
}
