package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	// force sign colours
	Pushing = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	Pulling = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	Idle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

// Metric renders one aligned "label value" line.
func Metric(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// ForceBar draws f on a centred bar of the given half-width, full scale at
// limit newtons.
func ForceBar(f, limit float64, half int) string {
	n := 0
	if limit > 0 {
		n = int(f / limit * float64(half))
	}
	n = max(-half, min(half, n))

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	switch {
	case n < 0:
		left = strings.Repeat("░", half+n) + Pulling.Render(strings.Repeat("█", -n))
	case n > 0:
		right = Pushing.Render(strings.Repeat("█", n)) + strings.Repeat("░", half-n)
	}
	return left + Idle.Render("│") + right
}

// ProgressBar renders a fraction in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = max(0, min(width, filled))
	return StatusRunning.Render(strings.Repeat("█", filled)) + Subtle.Render(strings.Repeat("░", width-filled))
}

// Separator is a decorative rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return Subtle.Render(left + " ◆ " + right)
}
