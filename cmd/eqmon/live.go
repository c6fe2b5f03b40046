package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"pipelined.dev/eq/dynamics"
	"pipelined.dev/eq/internal/ui"
	"pipelined.dev/eq/log"
	"pipelined.dev/eq/monitor"
	"pipelined.dev/eq/portaudio"
	"pipelined.dev/eq/signal"
)

const meterName = "eqmon"

type monitorCmd struct {
	Out       string  `type:"path" help:"Write the processed session to this file when stopped."`
	LogFile   string  `type:"path" help:"Write engine logs to this file while the panel is shown."`
	Threshold float64 `default:"0.8" help:"Compressor threshold in linear amplitude."`
	Ratio     float64 `default:"4" help:"Compressor ratio."`
	Knee      float64 `default:"0.2" help:"Compressor knee width in linear amplitude."`
	EQFlags
	StreamFlags
}

func (cmd *monitorCmd) Run(l *logrus.Logger, t monitor.Transport, out io.Writer) error {
	s, err := cmd.settings(cmd.Rate)
	if err != nil {
		return err
	}
	comp, err := dynamics.NewCompressor(cmd.Threshold, cmd.Ratio, cmd.Knee)
	if err != nil {
		return err
	}

	// the panel owns the terminal, engine logs go to a file or nowhere
	var engineLog logrus.FieldLogger = log.Discard()
	if cmd.LogFile != "" {
		f, err := os.Create(cmd.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		fl := logrus.New()
		fl.SetOutput(f)
		fl.SetLevel(l.GetLevel())
		engineLog = fl
	}

	publisher := monitor.NewPublisher(cmd.Rate)
	if err := publisher.Publish(s); err != nil {
		return err
	}
	engine := monitor.New(t,
		monitor.WithSampleRate(cmd.Rate),
		monitor.WithBlockSize(cmd.Block),
		monitor.WithCompressor(comp),
		monitor.WithSettings(s),
		monitor.WithLogger(engineLog),
		monitor.WithMeter(meterName),
	)
	if err := engine.Start(publisher); err != nil {
		return err
	}

	_, uiErr := tea.NewProgram(ui.NewModel(publisher, s, meterName), tea.WithAltScreen()).Run()
	return cmd.finish(l, out, engine, publisher, uiErr)
}

// finish stops the engine, reports the session and writes it to Out. A
// session returned along with a stop error is still written.
func (cmd *monitorCmd) finish(l *logrus.Logger, out io.Writer, engine *monitor.Engine, publisher *monitor.Publisher, uiErr error) error {
	result, stopErr := engine.Stop()
	if result.ID.IsNil() {
		return errors.Join(stopErr, uiErr)
	}

	final, _ := publisher.Settings()
	fmt.Fprintf(out, "session %s: %d blocks, %v\nfinal settings: %s\n",
		result.ID, result.Blocks,
		signal.DurationOf(result.SampleRate, int64(len(result.Signal))),
		final.String(),
	)
	var writeErr error
	if cmd.Out != "" {
		l.WithFields(logrus.Fields{
			"out":     cmd.Out,
			"samples": len(result.Signal),
		}).Info("writing session")
		writeErr = writeFile(cmd.Out, result.Signal)
	}
	return errors.Join(stopErr, uiErr, writeErr)
}

type recordCmd struct {
	Out      string        `required:"" type:"path" help:"Output file."`
	Duration time.Duration `default:"5s" help:"Recording length."`
	StreamFlags
}

func (cmd *recordCmd) Run(l *logrus.Logger, t monitor.Transport) error {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	x, err := monitor.Record(ctx, t, cmd.Rate, cmd.Duration,
		monitor.WithBlockSize(cmd.Block),
		monitor.WithLogger(l),
	)
	if err != nil && len(x) == 0 {
		return err
	}
	if err != nil {
		l.WithError(err).Warn("recording interrupted")
	}
	l.WithFields(logrus.Fields{
		"out":      cmd.Out,
		"duration": signal.DurationOf(cmd.Rate, int64(len(x))),
		"peak":     signal.Peak(x),
	}).Info("recorded")
	return writeFile(cmd.Out, x)
}

type devicesCmd struct{}

func (devicesCmd) Run(out io.Writer) error {
	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIN\tOUT\tRATE")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\n", d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return w.Flush()
}
