package viz

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/fuzzy"
)

func testHistory(n int) *experiment.History {
	h := &experiment.History{
		Times:      make([]float64, n),
		Angles:     make([]float64, n),
		Velocities: make([]float64, n),
		Forces:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := float64(i) * 0.01
		h.Times[i] = t
		h.Angles[i] = 170 * math.Cos(t)
		h.Velocities[i] = -170 * math.Sin(t)
		h.Forces[i] = 40 * math.Sin(3*t)
	}
	return h
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Pixels(); w != 8 || h != 8 {
		t.Fatalf("Pixels() = %d, %d", w, h)
	}

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	c.Set(-1, 3)
	c.Set(100, 100)

	c.FillRect(2, 0, 3, 3)
	if c.Grid[0][1] != 0x28ff {
		t.Errorf("full cell expected, got %U", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("unset failed, got %U", c.Grid[0][0])
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("canvas not cleared")
	}
}

func TestASCII(t *testing.T) {
	h := testHistory(500)
	for _, name := range SeriesNames {
		out, err := ASCII(h, name, 60, 8)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		_, caption, _ := SeriesOf(h, name)
		if !strings.Contains(out, caption) {
			t.Errorf("%s chart missing caption %q", name, caption)
		}
	}

	if _, err := ASCII(h, "energy", 60, 8); err == nil {
		t.Error("expected error for unknown series")
	}
	if _, err := ASCII(&experiment.History{}, "angle", 60, 8); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestDownsample(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := downsample(data, 4)
	want := []float64{0, 3, 6, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
	if len(downsample(data, 20)) != 10 {
		t.Error("short series should be kept whole")
	}
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChart(&buf, testHistory(300), 4, 5); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}

	if err := WriteChart(&buf, testHistory(1), 4, 5); err == nil {
		t.Error("expected error for a single entry")
	}
}

func TestSaveChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.png")
	if err := SaveChart(path, testHistory(100)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty png")
	}
}

func TestRuleTable(t *testing.T) {
	out := RuleTable(fuzzy.PendulumRules())
	if n := strings.Count(out, "·"); n != 10 {
		t.Errorf("expected 10 absent cells, got %d", n)
	}
	for _, l := range fuzzy.Labels {
		if !strings.Contains(out, l.String()) {
			t.Errorf("table missing label %s", l)
		}
	}
}

func TestDescribeInference(t *testing.T) {
	eng := fuzzy.NewPendulumEngine()
	inf := eng.Evaluate(math.Pi/2, 0)
	out := DescribeInference(inf)
	if !strings.Contains(out, "-10.0000 N") {
		t.Errorf("missing crisp output:\n%s", out)
	}
	if !strings.Contains(FiredTable(eng.Rules(), inf), "NP") {
		t.Error("fired table missing the PP,Z -> NP cell")
	}
	if strings.Contains(out, "no rule fired") {
		t.Error("PP,Z fired but the description says nothing did")
	}

	// Z angle with PG velocity has no rule.
	if out := DescribeInference(eng.Evaluate(0, 6)); !strings.Contains(out, "no rule fired") {
		t.Errorf("expected a no-rule note:\n%s", out)
	}
}

func TestForceBar(t *testing.T) {
	for _, f := range []float64{-80, -25, 0, 25, 80} {
		bar := ForceBar(f, 50, 10)
		if !strings.Contains(bar, "│") {
			t.Errorf("ForceBar(%v) missing centre mark", f)
		}
	}
}

func TestReplayUpdate(t *testing.T) {
	var m tea.Model = NewReplay(testHistory(10), "test")

	m, _ = m.Update(TickMsg(time.Now()))
	if got := m.(Replay).position(); got != 1 {
		t.Errorf("head after one tick = %d, want 1", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m, _ = m.Update(TickMsg(time.Now()))
	if got := m.(Replay).position(); got != 3 {
		t.Errorf("head at double speed = %d, want 3", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if got := m.(Replay).position(); got != 2 {
		t.Errorf("head after step back = %d, want 2", got)
	}
	m, _ = m.Update(TickMsg(time.Now()))
	if got := m.(Replay).position(); got != 2 {
		t.Errorf("stepping should pause playback, head = %d", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	for i := 0; i < 20; i++ {
		m, _ = m.Update(TickMsg(time.Now()))
	}
	if got := m.(Replay).position(); got != 9 {
		t.Errorf("head should stop at the last entry, got %d", got)
	}

	if !strings.Contains(m.View(), "TEST") {
		t.Error("view missing title")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestReplayEmpty(t *testing.T) {
	m := NewReplay(&experiment.History{}, "empty")
	if !strings.Contains(m.View(), "empty history") {
		t.Error("empty history should render a notice")
	}
	if _, cmd := m.Update(TickMsg(time.Now())); cmd == nil {
		t.Error("tick should schedule the next frame")
	}
}
