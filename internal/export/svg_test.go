package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fuzzypend/internal/analysis"
)

func TestPhaseSVG(t *testing.T) {
	portrait := &analysis.PhasePortrait2D{
		XLabel: "angle (deg)",
		YLabel: "velocity (deg/s)",
		Points: []analysis.Point{{X: -10, Y: 5}, {X: 0, Y: 0}, {X: 10, Y: -5}},
	}

	var buf bytes.Buffer
	if err := PhaseSVG(&buf, portrait, 200, 100, "#ff0000"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("output is not a complete svg document")
	}
	// x spans [-12, 12] after padding, so the first point sits at 200/12.
	if !strings.Contains(out, `d="M16.7,`) {
		t.Errorf("unexpected path start in:\n%s", out)
	}
	if strings.Count(out, " L") != 2 {
		t.Errorf("want 2 line segments, got %d", strings.Count(out, " L"))
	}
	if strings.Count(out, "<line") != 2 {
		t.Error("both axes cross the plot and should be drawn")
	}
	if !strings.Contains(out, "angle (deg)") {
		t.Error("missing axis label")
	}
}

func TestPhaseSVGTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	err := PhaseSVG(&buf, &analysis.PhasePortrait2D{Points: []analysis.Point{{}}}, 10, 10, "#fff")
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}
	if err := PhaseSVG(&buf, nil, 10, 10, "#fff"); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("nil portrait: err = %v", err)
	}
}

func TestSavePhaseSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phase.svg")
	portrait := &analysis.PhasePortrait2D{Points: []analysis.Point{{X: 1, Y: 1}, {X: 2, Y: 3}}}
	if err := SavePhaseSVG(path, portrait, 50, 50); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("#00ff88")) {
		t.Error("saved svg should use the default stroke")
	}
}
