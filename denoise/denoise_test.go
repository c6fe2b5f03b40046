package denoise_test

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/eq/denoise"
	"pipelined.dev/eq/filter"
	"pipelined.dev/eq/internal/testutil"
	"pipelined.dev/eq/signal"
)

const sampleRate = 44100.0

func TestLevelZeroIsIdentity(t *testing.T) {
	x := testutil.Noise(1, 0.3, 10000)

	y, err := denoise.Suppress(x, sampleRate, 0)
	require.NoError(t, err)
	assert.Less(t, testutil.MaxAbsDiff(x, y), 1e-9)

	normalized := append([]float64(nil), x...)
	signal.Normalize(normalized, signal.Headroom)
	y, err = denoise.Denoise(x, sampleRate, 0)
	require.NoError(t, err)
	assert.Less(t, testutil.MaxAbsDiff(normalized, y), 1e-9)
}

func TestPowerDecreasesWithLevel(t *testing.T) {
	profile := testutil.Noise(2, 0.2, signal.SamplesIn(sampleRate, denoise.ProfileDuration))
	x := signal.Concat([][]float64{profile, profile})
	input := signal.RMS(x)

	prev := input
	for _, level := range []float64{0.25, 0.5, 0.75, 1} {
		y, err := denoise.Suppress(x, sampleRate, level)
		require.NoError(t, err)
		rms := signal.RMS(y)
		assert.Less(t, rms, prev, "level %v", level)
		prev = rms
	}
	assert.Less(t, prev, 0.8*input)
}

func TestToneIsKept(t *testing.T) {
	n := int(sampleRate / 2)
	lead := signal.SamplesIn(sampleRate, denoise.ProfileDuration)
	noise := testutil.Noise(3, 0.05, n)
	tone := testutil.Sine(1000, sampleRate, 0.5, n)
	for i := range lead {
		tone[i] = 0
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = noise[i] + tone[i]
	}

	y, err := denoise.Suppress(x, sampleRate, 1)
	require.NoError(t, err)
	residual := make([]float64, n)
	for i := range y {
		residual[i] = y[i] - tone[i]
	}
	assert.Less(t, signal.RMS(residual), signal.RMS(noise))
	assert.InEpsilon(t, signal.RMS(tone), signal.RMS(y), 0.1)
}

// dft is a direct discrete Fourier transform of x, inverse when sign is 1.
func dft(x []complex128, sign float64) []complex128 {
	n := len(x)
	y := make([]complex128, n)
	for k := range y {
		for i, v := range x {
			y[k] += v * cmplx.Rect(1, sign*2*math.Pi*float64(k*i%n)/float64(n))
		}
	}
	return y
}

func spectralSubtraction(x []float64, profile int, level float64) []float64 {
	complexOf := func(x []float64) []complex128 {
		c := make([]complex128, len(x))
		for i, v := range x {
			c[i] = complex(v, 0)
		}
		return c
	}
	var noise float64
	for _, v := range dft(complexOf(x[:profile]), -1) {
		noise += real(v)*real(v) + imag(v)*imag(v)
	}
	noise /= float64(profile)

	spec := dft(complexOf(x), -1)
	for i, v := range spec {
		power := real(v)*real(v) + imag(v)*imag(v)
		spec[i] = v * complex(math.Max(1-level*noise/(power+denoise.Epsilon), 0), 0)
	}
	y := make([]float64, len(x))
	for i, v := range dft(spec, 1) {
		y[i] = real(v) / float64(len(x))
	}
	return y
}

func TestMatchesDirectTransform(t *testing.T) {
	const rate = 8000.0
	tests := []struct {
		n     int
		level float64
	}{
		{n: 1500, level: 1},
		{n: 1500, level: 0.5},
		{n: 997, level: 1},
		{n: 300, level: 0.8},
	}
	for _, test := range tests {
		x := testutil.Noise(6, 0.2, test.n)
		tone := testutil.Sine(440, rate, 0.5, test.n)
		for i := 800; i < test.n; i++ {
			x[i] += tone[i]
		}
		profile := min(signal.SamplesIn(rate, denoise.ProfileDuration), test.n)

		y, err := denoise.Suppress(x, rate, test.level)
		require.NoError(t, err)
		expected := spectralSubtraction(x, profile, test.level)
		assert.Less(t, testutil.MaxAbsDiff(expected, y), 1e-6, "n %d level %v", test.n, test.level)
	}
}

func TestShortSignal(t *testing.T) {
	x := testutil.Noise(4, 0.4, 1000)
	y, err := denoise.Denoise(x, sampleRate, 1)
	require.NoError(t, err)
	assert.Equal(t, len(x), len(y))
	assert.LessOrEqual(t, signal.Peak(y), signal.Headroom+1e-12)
}

func TestLevelOutsideRange(t *testing.T) {
	x := testutil.Noise(5, 0.4, 8192)
	for _, level := range []float64{-1, 5} {
		y, err := denoise.Suppress(x, sampleRate, level)
		require.NoError(t, err)
		assert.Equal(t, len(x), len(y))
	}
}

func TestErrors(t *testing.T) {
	_, err := denoise.Denoise(nil, sampleRate, 0.5)
	assert.True(t, errors.Is(err, signal.ErrEmpty))

	_, err = denoise.Denoise([]float64{1, 2}, 0, 0.5)
	assert.True(t, errors.Is(err, filter.ErrInvalidParameter))
}
