// Package signal provides helpers for mono float64 signals. It allows to:
//	- measure peak and RMS levels
//	- normalize a signal to a headroom target
//	- concatenate and slice blocks
//	- read and write flat float32 sample files
package signal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
)

// Headroom is the peak amplitude whole-signal operations normalize to.
const Headroom = 0.9

// ErrEmpty is returned when an operation is invoked without samples.
var ErrEmpty = errors.New("empty signal")

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate float64, samples int64) time.Duration {
	return time.Duration(math.Round(float64(samples) / sampleRate * float64(time.Second)))
}

// SamplesIn returns number of samples that fit into duration d.
func SamplesIn(sampleRate float64, d time.Duration) int {
	return int(sampleRate * d.Seconds())
}

// Peak returns the maximum absolute amplitude.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.MaxAbs(x)
}

// RMS returns root mean square amplitude.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x)))
}

// Normalize scales x in place so its peak equals target. Silent signals
// are left untouched.
func Normalize(x []float64, target float64) {
	peak := Peak(x)
	if peak == 0 {
		return
	}
	vecmath.ScaleBlockInPlace(x, target/peak)
}

// Concat joins blocks into a single newly allocated signal.
func Concat(blocks [][]float64) []float64 {
	var n int
	for _, b := range blocks {
		n += len(b)
	}
	result := make([]float64, 0, n)
	for _, b := range blocks {
		result = append(result, b...)
	}
	return result
}

// Slice creates a new copy of signal from start position with defined
// length. If signal doesn't have enough samples, shorten copy is
// returned.
//
// if start >= signal size, nil is returned
// if start < 0, nil is returned
func Slice(x []float64, start, length int) []float64 {
	if start < 0 || start >= len(x) {
		return nil
	}
	end := start + length
	if end > len(x) {
		end = len(x)
	}
	return append([]float64(nil), x[start:end]...)
}

// Float32 converts samples into dst and returns the number of converted
// samples.
func Float32(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i])
	}
	return n
}

// Float64 converts samples into dst and returns the number of converted
// samples.
func Float64(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}

// ReadRaw reads little-endian float32 mono samples until EOF. Reads from
// r are buffered.
func ReadRaw(r io.Reader) ([]float64, error) {
	if _, ok := r.(*bufio.Reader); !ok {
		r = bufio.NewReader(r)
	}
	var (
		result []float64
		buf    [4]byte
	)
	for {
		_, err := io.ReadFull(r, buf[:])
		switch {
		case err == io.EOF:
			return result, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return result, fmt.Errorf("truncated sample after %d samples: %w", len(result), err)
		case err != nil:
			return result, err
		}
		result = append(result, float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))))
	}
}

// WriteRaw writes samples as little-endian float32 values.
func WriteRaw(w io.Writer, x []float64) error {
	buf := make([]byte, 4*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
	}
	_, err := w.Write(buf)
	return err
}
