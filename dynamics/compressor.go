// Package dynamics provides the soft-knee compressor used after the
// equalizer when streaming.
package dynamics

import (
	"fmt"
	"math"

	"pipelined.dev/eq/filter"
)

// Compressor is an instantaneous soft-knee compressor. The zero value
// is not usable, see NewCompressor and Default.
type Compressor struct {
	Threshold float64 // linear amplitude
	Ratio     float64
	Knee      float64 // knee width, linear amplitude
}

// Default returns threshold 0.8, ratio 4 and knee 0.2.
func Default() Compressor {
	return Compressor{Threshold: 0.8, Ratio: 4, Knee: 0.2}
}

// NewCompressor validates parameters and returns a compressor.
func NewCompressor(threshold, ratio, knee float64) (Compressor, error) {
	c := Compressor{Threshold: threshold, Ratio: ratio, Knee: knee}
	if err := c.Validate(); err != nil {
		return Compressor{}, err
	}
	return c, nil
}

// Validate checks Threshold > 0, Ratio >= 1 and Knee >= 0.
func (c Compressor) Validate() error {
	switch {
	case !(c.Threshold > 0) || math.IsInf(c.Threshold, 0):
		return fmt.Errorf("%w: threshold %v", filter.ErrInvalidParameter, c.Threshold)
	case !(c.Ratio >= 1) || math.IsInf(c.Ratio, 0):
		return fmt.Errorf("%w: ratio %v", filter.ErrInvalidParameter, c.Ratio)
	case !(c.Knee >= 0) || math.IsInf(c.Knee, 0):
		return fmt.Errorf("%w: knee %v", filter.ErrInvalidParameter, c.Knee)
	}
	return nil
}

// Gain returns the gain applied to a sample of magnitude m.
//
// Below the knee the gain is 1. Above it the gain falls linearly with
// slope 1/Ratio-1 and never drops under 1/Ratio. Inside the knee a
// quadratic joins both regions with matching value and slope.
func (c Compressor) Gain(m float64) float64 {
	slope := 1/c.Ratio - 1
	low := c.Threshold - c.Knee/2
	high := c.Threshold + c.Knee/2
	var g float64
	switch {
	case m <= low:
		return 1
	case m < high:
		d := m - low
		g = 1 + slope*d*d/(2*c.Knee)
	default:
		g = 1 + slope*(m-c.Threshold)
	}
	return math.Max(g, 1/c.Ratio)
}

// ProcessSample compresses x keeping its sign. The gain multiplies the
// sample, y = x*Gain(|x|), so |y| never exceeds |x|.
func (c Compressor) ProcessSample(x float64) float64 {
	return x * c.Gain(math.Abs(x))
}

// Process compresses block in place.
func (c Compressor) Process(block []float64) {
	for i, x := range block {
		block[i] = c.ProcessSample(x)
	}
}
