package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/physics"
)

const (
	canvasWidth  = 40
	canvasHeight = 16
	traceWindow  = 200
	frameRate    = 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays back a recorded history. Every tick advances the play head
// by speed entries.
type Replay struct {
	history *experiment.History
	title   string
	canvas  *Canvas
	head    int
	speed   int
	running bool
}

func NewReplay(h *experiment.History, title string) Replay {
	return Replay{
		history: h,
		title:   title,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		speed:   1,
		running: true,
	}
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

// position is the index of the entry on screen.
func (m Replay) position() int { return m.head }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := m.history.Len() - 1

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
		case "[":
			m.running = false
			m.head = max(0, m.head-1)
		case "]":
			m.running = false
			m.head = min(last, m.head+1)
		case "+", "=":
			m.speed = min(m.speed*2, 64)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		}
	case TickMsg:
		if m.running {
			m.head += m.speed
			if m.head >= last {
				m.head = max(last, 0)
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

// drawPendulum renders the cart at the centre and the pole at angle
// (degrees, 0 pointing up).
func (m Replay) drawPendulum(angle float64) string {
	m.canvas.Clear()
	w, h := m.canvas.Pixels()
	cx, ground := w/2, h*2/3

	m.canvas.DrawLine(0, ground+4, w-1, ground+4)
	m.canvas.FillRect(cx-6, ground, cx+6, ground+3)

	pole := float64(h) * 0.55
	sin, cos := math.Sincos(physics.Radians(angle))
	px, py := cx+int(pole*sin), ground-int(pole*cos)
	m.canvas.DrawLine(cx, ground, px, py)
	m.canvas.FillRect(px-1, py-1, px+1, py+1)
	return m.canvas.String()
}

func (m Replay) View() string {
	if m.history.Len() == 0 {
		return Subtle.Render("empty history") + "\n"
	}
	i := m.head
	h := m.history

	status := StatusRunning.Render(fmt.Sprintf("PLAYING x%d", m.speed))
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(Metric("time", fmt.Sprintf("%.2f s", h.Times[i])) + "\n")
	s.WriteString(Metric("angle", fmt.Sprintf("%+8.2f°", h.Angles[i])) + "\n")
	s.WriteString(Metric("velocity", fmt.Sprintf("%+8.2f°/s", h.Velocities[i])) + "\n")
	s.WriteString(Metric("force", fmt.Sprintf("%+8.2f N", h.Forces[i])) + "\n")
	s.WriteString(ForceBar(h.Forces[i], 50, 12) + "\n\n")
	s.WriteString(ProgressBar(float64(i+1)/float64(h.Len()), 25) + "\n")

	if lo := max(0, i-traceWindow); i-lo > 1 {
		chart := asciigraph.Plot(h.Angles[lo:i+1], asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("angle (deg)"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Restart [ ]:Step +/-:Speed Q:Quit"))

	canvasView := Panel.Render(m.drawPendulum(h.Angles[i]))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String())) + "\n"
}

// RunReplay blocks until the user quits the player.
func RunReplay(h *experiment.History, title string) error {
	_, err := tea.NewProgram(NewReplay(h, title), tea.WithAltScreen()).Run()
	return err
}
