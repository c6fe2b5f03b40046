package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"pipelined.dev/eq"
	"pipelined.dev/eq/denoise"
	"pipelined.dev/eq/signal"
)

type equalizeCmd struct {
	In  string `required:"" type:"existingfile" help:"Input file of little-endian float32 samples."`
	Out string `required:"" type:"path" help:"Output file."`
	EQFlags
	StreamFlags
}

func (cmd *equalizeCmd) Run(l *logrus.Logger) error {
	s, err := cmd.settings(cmd.Rate)
	if err != nil {
		return err
	}
	x, err := readFile(cmd.In)
	if err != nil {
		return err
	}
	y, err := eq.Apply(x, cmd.Rate, s, eq.WithBlockSize(cmd.Block))
	if err != nil {
		return err
	}
	l.WithFields(logrus.Fields{
		"in":       cmd.In,
		"out":      cmd.Out,
		"samples":  len(y),
		"settings": s.String(),
	}).Info("equalized")
	return writeFile(cmd.Out, y)
}

type denoiseCmd struct {
	In    string  `required:"" type:"existingfile" help:"Input file of little-endian float32 samples."`
	Out   string  `required:"" type:"path" help:"Output file."`
	Level float64 `default:"0.5" help:"Suppression level, 0 keeps the signal unchanged."`
	Rate  float64 `default:"44100" env:"EQ_RATE" help:"Sample rate in Hz."`
}

func (cmd *denoiseCmd) Run(l *logrus.Logger) error {
	x, err := readFile(cmd.In)
	if err != nil {
		return err
	}
	y, err := denoise.Denoise(x, cmd.Rate, cmd.Level)
	if err != nil {
		return err
	}
	l.WithFields(logrus.Fields{
		"in":      cmd.In,
		"out":     cmd.Out,
		"level":   cmd.Level,
		"inRMS":   signal.RMS(x),
		"outRMS":  signal.RMS(y),
		"samples": len(y),
	}).Info("denoised")
	return writeFile(cmd.Out, y)
}

type responseCmd struct {
	Points int     `default:"2048" help:"Number of frequencies between 0 and Nyquist."`
	Rate   float64 `default:"44100" env:"EQ_RATE" help:"Sample rate in Hz."`
	EQFlags
}

func (cmd *responseCmd) Run(out io.Writer) error {
	s, err := cmd.settings(cmd.Rate)
	if err != nil {
		return err
	}
	d, err := eq.NewDesign(cmd.Rate, s, eq.DefaultTaps)
	if err != nil {
		return err
	}
	for _, f := range eq.ResponseGrid(cmd.Rate, cmd.Points) {
		if _, err := fmt.Fprintf(out, "%.2f\t%.3f\n", f, d.MagnitudeDB(f)); err != nil {
			return err
		}
	}
	return nil
}
