// Package portaudio provides a duplex capture/render transport for the
// monitor using the default PortAudio devices.
package portaudio

import (
	"errors"
	"sync"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/eq/monitor"
)

// ErrStarted is returned when a running stream is started again.
var ErrStarted = errors.New("portaudio stream is already started")

type (
	// Duplex captures mono input and renders mono output with default
	// devices. It implements monitor.Transport.
	Duplex struct {
		mu     sync.Mutex
		stream *portaudio.Stream
	}

	// Device describes an audio device.
	Device struct {
		Name              string
		MaxInputChannels  int
		MaxOutputChannels int
		DefaultSampleRate float64
	}
)

// NewDuplex returns new duplex transport.
func NewDuplex() *Duplex {
	return &Duplex{}
}

// Start initializes PortAudio and opens a default one-channel duplex
// stream that calls cycle for every block.
func (d *Duplex) Start(sampleRate float64, blockSize int, cycle monitor.Cycle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream != nil {
		return ErrStarted
	}
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	callback := func(in, out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		cycle(in, out, status(flags))
	}
	stream, err := portaudio.OpenDefaultStream(1, 1, sampleRate, blockSize, callback)
	if err != nil {
		return errors.Join(err, portaudio.Terminate())
	}
	if err := stream.Start(); err != nil {
		return errors.Join(err, stream.Close(), portaudio.Terminate())
	}
	d.stream = stream
	return nil
}

// Stop waits for the running callback, closes the stream and terminates
// PortAudio.
func (d *Duplex) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream == nil {
		return nil
	}
	err := d.stream.Stop()
	if cerr := d.stream.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	d.stream = nil
	if terr := portaudio.Terminate(); terr != nil {
		err = errors.Join(err, terr)
	}
	return err
}

// Devices lists available devices.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices, nil
}

func status(flags portaudio.StreamCallbackFlags) monitor.Status {
	var s monitor.Status
	if flags&portaudio.InputUnderflow != 0 {
		s |= monitor.InputUnderflow
	}
	if flags&portaudio.InputOverflow != 0 {
		s |= monitor.InputOverflow
	}
	if flags&portaudio.OutputUnderflow != 0 {
		s |= monitor.OutputUnderflow
	}
	if flags&portaudio.OutputOverflow != 0 {
		s |= monitor.OutputOverflow
	}
	return s
}
