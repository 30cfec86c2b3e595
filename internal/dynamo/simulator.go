package dynamo

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        *zap.Logger
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// Run advances x0 for cfg.Steps() fixed steps. Step i starts at t = i*dt.
// A non-finite state stops the run; the partial result is returned with a
// *SimulationError wrapping ErrInvalidState.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("initial state has %d entries, system needs %d: %w", len(x0), s.dyn.StateDim(), ErrDimensionMismatch)
	}

	steps := cfg.Steps()
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)

	s.log.Debug("simulation started", zap.Int("steps", steps), zap.Float64("dt", dt), zap.Float64s("x0", x0))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * dt
		u := s.controller.Compute(x, t)
		if len(u) != s.dyn.ControlDim() {
			return result, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrDimensionMismatch}
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		newX := s.integrator.Step(s.dyn, x, u, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			s.log.Warn("state diverged", zap.Int("step", i), zap.Float64("t", t), zap.Float64s("state", newX))
			s.collectMetrics(result)
			return result, &SimulationError{Step: i, Time: t, State: newX, Wrapped: ErrInvalidState}
		}

		x = newX
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, float64(i+1)*dt)
	}

	s.collectMetrics(result)
	s.log.Debug("simulation finished", zap.Int("steps", result.StepsTaken), zap.Any("metrics", result.Metrics))

	return result, nil
}

func (s *Simulator) collectMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
