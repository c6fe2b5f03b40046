package eq

import (
	"fmt"
	"math"

	"pipelined.dev/eq/filter"
)

// Band is a peaking band of the equalizer.
type Band struct {
	Freq float64 // centre frequency, Hz
	Gain float64 // dB
	Q    float64
}

// Settings is an immutable snapshot of the equalizer configuration. It is
// comparable, so two snapshots can be checked for equality with ==.
type Settings struct {
	LowPass  float64 // low-pass cutoff, Hz
	HighPass float64 // high-pass cutoff, Hz
	Bands    [3]Band
}

// DefaultSettings returns the flat configuration: 200 Hz to 4 kHz pass
// band and three bands at 1, 3 and 5 kHz with zero gain.
func DefaultSettings() Settings {
	return Settings{
		LowPass:  4000,
		HighPass: 200,
		Bands: [3]Band{
			{Freq: 1000, Gain: 0, Q: 1},
			{Freq: 3000, Gain: 0, Q: 1},
			{Freq: 5000, Gain: 0, Q: 1},
		},
	}
}

// Validate checks settings against the sample rate. Returned errors wrap
// filter.ErrInvalidParameter.
func (s Settings) Validate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", filter.ErrInvalidParameter, sampleRate)
	}
	nyquist := sampleRate / 2
	if !(0 < s.HighPass && s.HighPass < s.LowPass && s.LowPass < nyquist) {
		return fmt.Errorf("%w: need 0 < high-pass %v < low-pass %v < %v",
			filter.ErrInvalidParameter, s.HighPass, s.LowPass, nyquist)
	}
	for i, b := range s.Bands {
		if !(0 < b.Freq && b.Freq < nyquist) {
			return fmt.Errorf("%w: band %d frequency %v outside (0, %v)", filter.ErrInvalidParameter, i+1, b.Freq, nyquist)
		}
		if !(b.Q > 0) || math.IsInf(b.Q, 0) {
			return fmt.Errorf("%w: band %d q %v", filter.ErrInvalidParameter, i+1, b.Q)
		}
		if math.IsNaN(b.Gain) || math.IsInf(b.Gain, 0) {
			return fmt.Errorf("%w: band %d gain %v", filter.ErrInvalidParameter, i+1, b.Gain)
		}
	}
	return nil
}

func (s Settings) String() string {
	return fmt.Sprintf("lpf=%gHz hpf=%gHz bands=[%g:%+gdB:%g %g:%+gdB:%g %g:%+gdB:%g]",
		s.LowPass, s.HighPass,
		s.Bands[0].Freq, s.Bands[0].Gain, s.Bands[0].Q,
		s.Bands[1].Freq, s.Bands[1].Gain, s.Bands[1].Q,
		s.Bands[2].Freq, s.Bands[2].Gain, s.Bands[2].Q,
	)
}
