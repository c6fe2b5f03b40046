package ui_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/eq"
	"pipelined.dev/eq/internal/ui"
	"pipelined.dev/eq/monitor"
)

var (
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ui.Model, keys ...tea.Msg) ui.Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ui.Model)
	}
	return m
}

func times(n int, k tea.Msg) []tea.Msg {
	keys := make([]tea.Msg, n)
	for i := range keys {
		keys[i] = k
	}
	return keys
}

func TestAdjust(t *testing.T) {
	p := monitor.NewPublisher(44100)
	m := ui.NewModel(p, eq.DefaultSettings(), t.Name())

	m = press(t, m, right)
	assert.Equal(t, 4100.0, m.Settings.LowPass)
	published, ok := p.Settings()
	require.True(t, ok)
	assert.Equal(t, m.Settings, published)

	// high-pass is clamped to its range
	m = press(t, m, down)
	m = press(t, m, times(50, left)...)
	assert.Equal(t, 20.0, m.Settings.HighPass)
	assert.NoError(t, m.Err)

	// band 1 gain
	m = press(t, m, down, down, right, right)
	assert.Equal(t, 1.0, m.Settings.Bands[0].Gain)

	m = press(t, m, runes("r"))
	assert.Equal(t, eq.DefaultSettings(), m.Settings)
}

func TestRejected(t *testing.T) {
	p := monitor.NewPublisher(44100)
	m := ui.NewModel(p, eq.DefaultSettings(), t.Name())

	m = press(t, m, down)
	m = press(t, m, times(100, right)...)
	assert.Equal(t, 1000.0, m.Settings.HighPass)

	m = press(t, m, up)
	m = press(t, m, times(40, left)...)
	assert.Equal(t, 1100.0, m.Settings.LowPass)
	assert.Error(t, m.Err)

	published, ok := p.Settings()
	require.True(t, ok)
	assert.Equal(t, m.Settings, published)
}

func TestSelectionWraps(t *testing.T) {
	m := ui.NewModel(monitor.NewPublisher(44100), eq.DefaultSettings(), t.Name())
	m = press(t, m, up)
	assert.Equal(t, 10, m.Selected)
	m = press(t, m, down)
	assert.Equal(t, 0, m.Selected)
}

func TestQuit(t *testing.T) {
	m := ui.NewModel(monitor.NewPublisher(44100), eq.DefaultSettings(), t.Name())
	next, cmd := m.Update(runes("q"))
	assert.True(t, next.(ui.Model).Done)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTickAndView(t *testing.T) {
	m := ui.NewModel(monitor.NewPublisher(44100), eq.DefaultSettings(), t.Name())
	next, cmd := m.Update(ui.TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	m = next.(ui.Model)

	view := m.View()
	assert.Contains(t, view, "Low-pass")
	assert.Contains(t, view, "Band 3 Q")
	assert.NotContains(t, view, "Rejected")
}
