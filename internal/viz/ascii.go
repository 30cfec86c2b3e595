package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fuzzypend/internal/experiment"
)

// Series names accepted by ASCII and SeriesOf.
var SeriesNames = []string{"angle", "velocity", "force"}

// SeriesOf returns the column of h called name, with its axis caption.
func SeriesOf(h *experiment.History, name string) ([]float64, string, error) {
	switch name {
	case "angle":
		return h.Angles, "angle (deg)", nil
	case "velocity":
		return h.Velocities, "angular velocity (deg/s)", nil
	case "force":
		return h.Forces, "force (N)", nil
	}
	return nil, "", fmt.Errorf("unknown series %q (want angle, velocity or force)", name)
}

// downsample keeps at most n evenly spaced samples.
func downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(n-1)]
	}
	return out
}

// ASCII renders one series of h as a terminal line chart.
func ASCII(h *experiment.History, name string, width, height int) (string, error) {
	data, caption, err := SeriesOf(h, name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if len(h.Times) > 0 {
		caption = fmt.Sprintf("%s, t = %.2f..%.2f s", caption, h.Times[0], h.Times[len(h.Times)-1])
	}

	return asciigraph.Plot(downsample(data, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
