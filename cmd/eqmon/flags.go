package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pipelined.dev/eq"
	"pipelined.dev/eq/signal"
)

// bandSpec is a peaking band given as FREQ:GAIN:Q.
type bandSpec eq.Band

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *bandSpec) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ":")
	if len(parts) != 3 {
		return fmt.Errorf("band %q: want FREQ:GAIN:Q", text)
	}
	var values [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("band %q: %w", text, err)
		}
		values[i] = v
	}
	*b = bandSpec{Freq: values[0], Gain: values[1], Q: values[2]}
	return nil
}

// EQFlags are the equalizer settings shared by commands.
type EQFlags struct {
	LowPass  float64    `name:"lpf" default:"4000" help:"Low-pass cutoff in Hz."`
	HighPass float64    `name:"hpf" default:"200" help:"High-pass cutoff in Hz."`
	Bands    []bandSpec `name:"band" placeholder:"FREQ:GAIN:Q" help:"Peaking band, repeat up to three times. Defaults are 1000:0:1, 3000:0:1 and 5000:0:1."`
}

func (f EQFlags) settings(sampleRate float64) (eq.Settings, error) {
	s := eq.DefaultSettings()
	s.LowPass = f.LowPass
	s.HighPass = f.HighPass
	if len(f.Bands) > len(s.Bands) {
		return eq.Settings{}, fmt.Errorf("at most %d bands, got %d", len(s.Bands), len(f.Bands))
	}
	for i, b := range f.Bands {
		s.Bands[i] = eq.Band(b)
	}
	return s, s.Validate(sampleRate)
}

// StreamFlags configure sample rate and block size.
type StreamFlags struct {
	Rate  float64 `default:"44100" env:"EQ_RATE" help:"Sample rate in Hz."`
	Block int     `default:"4096" env:"EQ_BLOCK" help:"Samples per block."`
}

func readFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return signal.ReadRaw(f)
}

func writeFile(path string, x []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := signal.WriteRaw(f, x); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
