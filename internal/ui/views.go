package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pipelined.dev/eq/metric"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2E86AB")
	mutedColor   = lipgloss.Color("#888888")
	errorColor   = lipgloss.Color("#A40000")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1).
			Width(64)
)

const sliderWidth = 24

// renderPanel renders the whole control panel
func renderPanel(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("eqmon - live equalizer"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/↓ select  ←/→ adjust  r reset  q stop"))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(renderControls(m)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderCounters(m)))
	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString(errorStyle.Render("Rejected: "))
		b.WriteString(m.Err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// renderControls renders a slider per control
func renderControls(m Model) string {
	lines := make([]string, 0, len(controls))
	for i, c := range controls {
		s := m.Settings
		v := *c.field(&s)
		line := fmt.Sprintf("%-13s %s %8.1f %s", c.name, renderSlider(v, c.min, c.max), v, c.unit)
		if i == m.Selected {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderSlider renders position of v within [lo, hi]
func renderSlider(v, lo, hi float64) string {
	pos := int((v - lo) / (hi - lo) * float64(sliderWidth-1))
	pos = clamp(pos, 0, sliderWidth-1)
	return strings.Repeat("─", pos) + "●" + strings.Repeat("─", sliderWidth-1-pos)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// renderCounters renders the real-time cycle counters
func renderCounters(m Model) string {
	get := func(counter string) string {
		if v, ok := m.Counters[counter]; ok {
			return strings.Trim(v, `"`)
		}
		return "-"
	}
	return fmt.Sprintf("⏱  %s  blocks %s  latency %s\nfaults %s  reconfigs %s  rejects %s",
		m.elapsed.Truncate(100*time.Millisecond),
		get(metric.CycleCounter),
		get(metric.LatencyCounter),
		get(metric.FaultCounter),
		get(metric.ReconfigCounter),
		get(metric.RejectCounter),
	)
}
