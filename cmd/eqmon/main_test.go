package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/eq"
	"pipelined.dev/eq/internal/testutil"
	"pipelined.dev/eq/log"
	"pipelined.dev/eq/mock"
	"pipelined.dev/eq/monitor"
	"pipelined.dev/eq/signal"
)

const sampleRate = 44100.0

func TestBandSpec(t *testing.T) {
	tests := []struct {
		text     string
		expected bandSpec
		err      bool
	}{
		{text: "1000:6:1", expected: bandSpec{Freq: 1000, Gain: 6, Q: 1}},
		{text: "250.5:-3.5:0.7", expected: bandSpec{Freq: 250.5, Gain: -3.5, Q: 0.7}},
		{text: " 800 : 2 : 2 ", expected: bandSpec{Freq: 800, Gain: 2, Q: 2}},
		{text: "1000:6", err: true},
		{text: "1000:6:1:1", err: true},
		{text: "a:6:1", err: true},
	}
	for _, test := range tests {
		var b bandSpec
		err := b.UnmarshalText([]byte(test.text))
		if test.err {
			assert.Error(t, err, test.text)
			continue
		}
		require.NoError(t, err, test.text)
		assert.Equal(t, test.expected, b)
	}
}

func TestSettings(t *testing.T) {
	f := EQFlags{LowPass: 5000, HighPass: 100, Bands: []bandSpec{{Freq: 700, Gain: 3, Q: 2}}}
	s, err := f.settings(sampleRate)
	require.NoError(t, err)
	expected := eq.DefaultSettings()
	expected.LowPass = 5000
	expected.HighPass = 100
	expected.Bands[0] = eq.Band{Freq: 700, Gain: 3, Q: 2}
	assert.Equal(t, expected, s)

	f.Bands = append(f.Bands, f.Bands[0], f.Bands[0], f.Bands[0])
	_, err = f.settings(sampleRate)
	assert.Error(t, err)

	_, err = EQFlags{LowPass: 100, HighPass: 200}.settings(sampleRate)
	assert.Error(t, err)
}

func writeInput(t *testing.T, x []float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.raw")
	require.NoError(t, writeFile(path, x))
	return path
}

func TestEqualize(t *testing.T) {
	x := testutil.Sine(1000, sampleRate, 0.5, int(sampleRate/2))
	in := writeInput(t, x)
	out := filepath.Join(t.TempDir(), "out.raw")

	var buf bytes.Buffer
	err := run([]string{"equalize", "--in", in, "--out", out, "--band", "1000:6:1", "--block", "1000"}, &buf)
	require.NoError(t, err)

	y, err := readFile(out)
	require.NoError(t, err)
	assert.Len(t, y, len(x))
	assert.InDelta(t, signal.Headroom, signal.Peak(y), 1e-6)
}

func TestEqualizeErrors(t *testing.T) {
	in := writeInput(t, testutil.Sine(1000, sampleRate, 0.5, 1000))
	out := filepath.Join(t.TempDir(), "out.raw")
	tests := [][]string{
		{"equalize", "--in", filepath.Join(t.TempDir(), "missing.raw"), "--out", out},
		{"equalize", "--in", in, "--out", out, "--band", "1000:6"},
		{"equalize", "--in", in, "--out", out, "--lpf", "100"},
		{"equalize", "--in", in, "--out", out,
			"--band", "1000:0:1", "--band", "1000:0:1", "--band", "1000:0:1", "--band", "1000:0:1"},
	}
	for _, args := range tests {
		assert.Error(t, run(args, &bytes.Buffer{}), strings.Join(args, " "))
	}
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestDenoise(t *testing.T) {
	x := testutil.Noise(1, 0.1, int(sampleRate/2))
	in := writeInput(t, x)
	out := filepath.Join(t.TempDir(), "out.raw")

	err := run([]string{"denoise", "--in", in, "--out", out, "--level", "1"}, &bytes.Buffer{})
	require.NoError(t, err)

	y, err := readFile(out)
	require.NoError(t, err)
	assert.Len(t, y, len(x))

	err = run([]string{"denoise", "--in", in, "--out", out, "--level", "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestResponse(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"response", "--points", "16", "--band", "1000:6:1"}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 16)
	for i, line := range lines {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 2, line)
		freq, err := strconv.ParseFloat(fields[0], 64)
		require.NoError(t, err)
		assert.InDelta(t, float64(i)*sampleRate/2/16, freq, 0.01)
		_, err = strconv.ParseFloat(fields[1], 64)
		require.NoError(t, err)
	}
}

func TestRecord(t *testing.T) {
	input := testutil.Sine(440, sampleRate, 0.5, int(sampleRate/10))
	tr := &mock.Transport{Input: input}
	out := filepath.Join(t.TempDir(), "rec.raw")

	err := run([]string{"record", "--out", out, "--duration", "50ms", "--block", "512"},
		&bytes.Buffer{}, kong.BindTo(tr, (*monitor.Transport)(nil)))
	require.NoError(t, err)
	assert.True(t, tr.Stopped)

	y, err := readFile(out)
	require.NoError(t, err)
	require.Len(t, y, int(sampleRate/20))
	for i, v := range y {
		assert.Equal(t, float64(float32(input[i])), v)
	}
}

func TestMonitorSavesSessionOnStopFault(t *testing.T) {
	errStop := errors.New("device lost")
	tr := &mock.Transport{
		Interval: time.Millisecond,
		Input:    testutil.Sine(440, sampleRate, 0.5, 20*512),
		Hooks:    mock.Hooks{ErrorOnStop: errStop},
	}
	publisher := monitor.NewPublisher(sampleRate)
	engine := monitor.New(tr, monitor.WithBlockSize(512), monitor.WithMeter(t.Name()))
	require.NoError(t, engine.Start(publisher))
	require.Eventually(t, func() bool {
		blocks, _ := tr.Count()
		return blocks >= 4
	}, 5*time.Second, time.Millisecond)

	cmd := &monitorCmd{Out: filepath.Join(t.TempDir(), "session.raw")}
	var buf bytes.Buffer
	err := cmd.finish(log.Discard(), &buf, engine, publisher, nil)
	assert.True(t, errors.Is(err, monitor.ErrTransportFault))
	assert.True(t, errors.Is(err, errStop))
	assert.Contains(t, buf.String(), "session ")
	assert.False(t, engine.Running())

	y, err := readFile(cmd.Out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(y), 4*512)
	assert.Zero(t, len(y)%512)
}
