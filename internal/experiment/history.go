package experiment

import (
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// History is the recorded trace of a run. Entry i holds the time at the
// start of step i, the angle (degrees, wrapped to (-180, 180]) and
// angular velocity (deg/s) after the step, and the force applied during it.
type History struct {
	Times      []float64          `json:"times"`
	Angles     []float64          `json:"angles"`
	Velocities []float64          `json:"velocities"`
	Forces     []float64          `json:"forces"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func NewHistory(res *dynamo.Result) *History {
	n := len(res.Controls)
	h := &History{
		Times:      make([]float64, n),
		Angles:     make([]float64, n),
		Velocities: make([]float64, n),
		Forces:     make([]float64, n),
		Metrics:    make(map[string]float64, len(res.Metrics)),
	}
	for i := 0; i < n; i++ {
		x := res.States[i+1]
		h.Times[i] = res.Times[i]
		h.Angles[i] = physics.Degrees(physics.Normalize(x[0]))
		h.Velocities[i] = physics.Degrees(x[1])
		h.Forces[i] = res.Controls[i][0]
	}
	for k, v := range res.Metrics {
		h.Metrics[k] = v
	}
	return h
}

func (h *History) Len() int { return len(h.Times) }

// Final returns the last recorded angle and velocity in degrees.
func (h *History) Final() (angle, velocity float64) {
	if h.Len() == 0 {
		return 0, 0
	}
	return h.Angles[h.Len()-1], h.Velocities[h.Len()-1]
}

func (h *History) MaxAbsForce() float64 {
	m := 0.0
	for _, f := range h.Forces {
		if f < 0 {
			f = -f
		}
		m = max(m, f)
	}
	return m
}
