package experiment

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// Sweep runs base once per (angle, velocity) pair, angles in degrees.
type Sweep struct {
	Base       Config
	Angles     []float64
	Velocities []float64
	Workers    int
}

type SweepResult struct {
	Angle      float64 // initial, degrees
	Velocity   float64 // initial, rad/s
	FinalAngle float64 // degrees
	MaxForce   float64
	Stability  float64
	Effort     float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Run simulates the whole grid in parallel. Every run gets its own
// simulator, integrator and controller. Results are in row-major order
// (angle outer, velocity inner).
func (s *Sweep) Run(ctx context.Context, reg *Registry) ([]SweepResult, error) {
	log := s.Base.Logger
	if log == nil {
		log = zap.NewNop()
	}

	n := len(s.Angles) * len(s.Velocities)
	x0s := make([]dynamo.State, 0, n)
	out := make([]SweepResult, 0, n)
	for _, a := range s.Angles {
		for _, v := range s.Velocities {
			x0s = append(x0s, dynamo.State{physics.Radians(a), v})
			out = append(out, SweepResult{Angle: a, Velocity: v})
		}
	}

	// probe once so configuration errors surface before any goroutine runs
	if _, err := New(s.Base, reg); err != nil {
		return nil, err
	}

	newSim := func() *dynamo.Simulator {
		cfg := s.Base
		cfg.Logger = nil
		exp, _ := New(cfg, reg)
		return exp.Simulator()
	}

	log.Info("sweep started", zap.Int("runs", len(x0s)), zap.Int("workers", s.Workers))
	results, err := dynamo.RunBatch(ctx, newSim, x0s, s.Base.Physics.RunConfig(), s.Workers)
	if err != nil {
		return nil, err
	}

	for i, res := range results {
		final := res.States[len(res.States)-1]
		maxF := 0.0
		for _, u := range res.Controls {
			maxF = math.Max(maxF, math.Abs(u[0]))
		}
		out[i].FinalAngle = physics.Degrees(physics.Normalize(final[0]))
		out[i].MaxForce = maxF
		out[i].Stability = res.Metrics["stability"]
		out[i].Effort = res.Metrics["control_effort"]
	}
	log.Info("sweep finished", zap.Int("runs", len(out)))
	return out, nil
}
