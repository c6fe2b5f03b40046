package dynamics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/eq/dynamics"
	"pipelined.dev/eq/filter"
)

func TestGainRegions(t *testing.T) {
	c := dynamics.Default()
	slope := 1/c.Ratio - 1

	tests := []struct {
		m        float64
		expected float64
	}{
		{m: 0, expected: 1},
		{m: 0.5, expected: 1},
		{m: c.Threshold - c.Knee, expected: 1},
		{m: c.Threshold - c.Knee/2, expected: 1},
		{m: c.Threshold + c.Knee/2, expected: 1 + slope*c.Knee/2},
		{m: c.Threshold + c.Knee, expected: 1 + slope*c.Knee},
		{m: 100, expected: 1 / c.Ratio},
	}

	for _, test := range tests {
		assert.InDelta(t, test.expected, c.Gain(test.m), 1e-12, "magnitude %v", test.m)
	}
}

func TestGainContinuity(t *testing.T) {
	for _, c := range []dynamics.Compressor{
		dynamics.Default(),
		{Threshold: 0.5, Ratio: 10, Knee: 0.4},
		{Threshold: 0.3, Ratio: 2, Knee: 0.01},
	} {
		const eps = 1e-9
		for _, edge := range []float64{c.Threshold - c.Knee/2, c.Threshold + c.Knee/2} {
			assert.Less(t, math.Abs(c.Gain(edge-eps)-c.Gain(edge+eps)), 1e-6, "compressor %+v edge %v", c, edge)
		}

		// gain never increases with magnitude
		prev := c.Gain(0)
		for m := 0.0; m < 2; m += 1e-3 {
			g := c.Gain(m)
			assert.LessOrEqual(t, g, prev+1e-12)
			prev = g
		}
	}
}

func TestHardKnee(t *testing.T) {
	c, err := dynamics.NewCompressor(0.5, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Gain(0.5))
	assert.InDelta(t, 0.95, c.Gain(0.6), 1e-12)
}

func TestProcess(t *testing.T) {
	c := dynamics.Default()
	block := []float64{0.1, -0.1, 0.95, -0.95, 0}
	c.Process(block)

	assert.Equal(t, 0.1, block[0])
	assert.Equal(t, -0.1, block[1])
	assert.Less(t, block[2], 0.95)
	assert.Equal(t, -block[2], block[3])
	assert.Equal(t, 0.0, block[4])
}

func TestNeverExpands(t *testing.T) {
	c := dynamics.Default()
	for _, x := range []float64{-2, -1, -0.85, -0.5, 0, 0.5, 0.75, 0.8, 0.85, 1, 2} {
		y := c.ProcessSample(x)
		assert.Equal(t, x*c.Gain(math.Abs(x)), y, "x %v", x)
		assert.LessOrEqual(t, math.Abs(y), math.Abs(x), "x %v", x)
		assert.GreaterOrEqual(t, math.Abs(y), math.Abs(x)/c.Ratio, "x %v", x)
	}
}

func TestNewCompressorInvalid(t *testing.T) {
	tests := []struct {
		threshold, ratio, knee float64
	}{
		{threshold: 0, ratio: 4, knee: 0.2},
		{threshold: 0.8, ratio: 0.5, knee: 0.2},
		{threshold: 0.8, ratio: 4, knee: -1},
		{threshold: math.NaN(), ratio: 4, knee: 0.2},
		{threshold: 0.8, ratio: math.Inf(1), knee: 0.2},
	}
	for _, test := range tests {
		_, err := dynamics.NewCompressor(test.threshold, test.ratio, test.knee)
		assert.True(t, errors.Is(err, filter.ErrInvalidParameter), "%+v", test)
	}
}
