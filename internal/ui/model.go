// Package ui provides the Bubbletea control panel for live monitoring.
package ui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pipelined.dev/eq"
	"pipelined.dev/eq/metric"
)

// RefreshInterval is how often counters are refreshed.
const RefreshInterval = 250 * time.Millisecond

// Publisher receives settings changed in the panel.
type Publisher interface {
	Publish(eq.Settings) error
}

// control is a single adjustable value of the settings.
type control struct {
	name     string
	unit     string
	min, max float64
	step     float64
	field    func(*eq.Settings) *float64
}

var controls = func() []control {
	c := []control{
		{name: "Low-pass", unit: "Hz", min: 500, max: 8000, step: 100,
			field: func(s *eq.Settings) *float64 { return &s.LowPass }},
		{name: "High-pass", unit: "Hz", min: 20, max: 1000, step: 10,
			field: func(s *eq.Settings) *float64 { return &s.HighPass }},
	}
	for i := range 3 {
		band := fmt.Sprintf("Band %d", i+1)
		c = append(c,
			control{name: band + " freq", unit: "Hz", min: 100, max: 8000, step: 50,
				field: func(s *eq.Settings) *float64 { return &s.Bands[i].Freq }},
			control{name: band + " gain", unit: "dB", min: -12, max: 12, step: 0.5,
				field: func(s *eq.Settings) *float64 { return &s.Bands[i].Gain }},
			control{name: band + " Q", min: 0.1, max: 5, step: 0.1,
				field: func(s *eq.Settings) *float64 { return &s.Bands[i].Q }},
		)
	}
	return c
}()

// TickMsg triggers a refresh of counters.
type TickMsg time.Time

// Model is the Bubbletea model of the control panel.
type Model struct {
	Settings eq.Settings
	Selected int
	Err      error
	Counters map[string]string
	Done     bool

	publisher Publisher
	meter     string
	started   time.Time
	elapsed   time.Duration

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel returns a panel that starts from settings and publishes every
// change. meter is the component name counters are read from.
func NewModel(p Publisher, settings eq.Settings, meter string) Model {
	return Model{
		Settings:  settings,
		publisher: p,
		meter:     meter,
		started:   time.Now(),
	}
}

// Init starts periodic refresh.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Done = true
			return m, tea.Quit
		case "up", "k":
			m.Selected = (m.Selected + len(controls) - 1) % len(controls)
		case "down", "j", "tab":
			m.Selected = (m.Selected + 1) % len(controls)
		case "right", "l", "+":
			m = m.adjust(1)
		case "left", "h", "-":
			m = m.adjust(-1)
		case "r":
			m = m.publish(eq.DefaultSettings())
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		m.Counters = metric.Get(m.meter)
		m.elapsed = time.Time(msg).Sub(m.started)
		return m, tick()
	}
	return m, nil
}

// adjust moves the selected control by steps and publishes the result.
func (m Model) adjust(steps float64) Model {
	c := controls[m.Selected]
	s := m.Settings
	v := c.field(&s)
	*v = math.Round((*v+steps*c.step)/c.step) * c.step
	*v = math.Min(math.Max(*v, c.min), c.max)
	return m.publish(s)
}

// publish keeps s only if the publisher accepts it.
func (m Model) publish(s eq.Settings) Model {
	if err := m.publisher.Publish(s); err != nil {
		m.Err = err
		return m
	}
	m.Settings = s
	m.Err = nil
	return m
}

// View renders the panel.
func (m Model) View() string {
	return renderPanel(m)
}
