package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"pipelined.dev/eq/log"
	"pipelined.dev/eq/monitor"
	"pipelined.dev/eq/portaudio"
)

var version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Debug   bool             `help:"Enable debug logging." env:"EQ_DEBUG"`
	Version kong.VersionFlag `short:"v" help:"Show version information."`

	Equalize equalizeCmd `cmd:"" help:"Equalize a raw float32 mono file."`
	Denoise  denoiseCmd  `cmd:"" help:"Suppress noise estimated from the first 100 ms of a raw float32 mono file."`
	Response responseCmd `cmd:"" help:"Print the equalizer magnitude response as frequency and dB."`
	Monitor  monitorCmd  `cmd:"" help:"Equalize the default input device live and render it to the default output."`
	Record   recordCmd   `cmd:"" help:"Record unprocessed input from the default device."`
	Devices  devicesCmd  `cmd:"" help:"List audio devices."`
}

func newParser(cli *CLI, out io.Writer, opts ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("eqmon"),
		kong.Description("Mono equalizer, noise suppressor and live monitor"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Writers(out, os.Stderr),
		kong.BindTo(out, (*io.Writer)(nil)),
	}, opts...)...)
}

// run parses args and runs the selected command. Commands that capture
// audio need a monitor.Transport bound through opts.
func run(args []string, out io.Writer, opts ...kong.Option) error {
	var cli CLI
	parser, err := newParser(&cli, out, opts...)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	logger := log.GetLogger()
	if cli.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return ctx.Run(logger)
}

func main() {
	duplex := kong.BindTo(portaudio.NewDuplex(), (*monitor.Transport)(nil))
	if err := run(os.Args[1:], os.Stdout, duplex); err != nil {
		log.GetLogger().WithError(err).Error("command failed")
		os.Exit(1)
	}
}
