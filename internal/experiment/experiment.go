package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/metrics"
	"github.com/san-kum/fuzzypend/internal/physics"
)

type Config struct {
	Integrator string
	Controller string
	Physics    config.Physics
	InitState  dynamo.State // {θ rad, ω rad/s}
	Params     map[string]float64
	ClipInputs bool

	// SettleTarget and SettleBand (rad) define the stability metric.
	SettleTarget float64
	SettleBand   float64

	Logger *zap.Logger
}

func DefaultConfig() Config {
	return FromConfig(config.DefaultConfig())
}

// FromConfig maps a loaded configuration file onto a run.
func FromConfig(c *config.Config) Config {
	return Config{
		Integrator:   c.Integrator,
		Controller:   c.Controller,
		Physics:      c.Physics,
		InitState:    c.InitState(),
		Params:       c.GetControllerParams(),
		ClipInputs:   c.Engine.ClipInputs,
		SettleTarget: math.Pi,
		SettleBand:   physics.Radians(10),
	}
}

type Experiment struct {
	cfg       Config
	simulator *dynamo.Simulator
	effort    *metrics.ControlEffort
	log       *zap.Logger
}

// New validates cfg and wires model, integrator, controller and metrics
// from reg.
func New(cfg Config, reg *Registry) (*Experiment, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	model := cfg.Physics.CartPole()
	if err := cfg.Physics.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.InitState) != model.StateDim() {
		return nil, fmt.Errorf("initial state has %d entries, want %d: %w", len(cfg.InitState), model.StateDim(), dynamo.ErrDimensionMismatch)
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	ctrl, err := reg.GetController(cfg.Controller, cfg.Params, cfg.ClipInputs)
	if err != nil {
		return nil, err
	}

	sim := dynamo.New(model, integ, ctrl)
	sim.SetLogger(log)

	effort := metrics.NewControlEffort()
	sim.AddMetric(effort)
	sim.AddMetric(metrics.NewStability(cfg.SettleTarget, cfg.SettleBand))
	sim.AddMetric(metrics.NewEnergy(model))
	sim.AddMetric(metrics.NewEnergyDrift(model))

	return &Experiment{
		cfg:       cfg,
		simulator: sim,
		effort:    effort,
		log:       log,
	}, nil
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator {
	return e.simulator
}

// Run simulates the configured duration. If the state diverges the
// partial history is returned together with the error.
func (e *Experiment) Run(ctx context.Context) (*History, error) {
	e.log.Info("run started",
		zap.String("controller", e.cfg.Controller),
		zap.String("integrator", e.cfg.Integrator),
		zap.Float64("angle_deg", physics.Degrees(e.cfg.InitState[0])),
		zap.Float64("velocity", e.cfg.InitState[1]),
		zap.Int("steps", e.cfg.Physics.RunConfig().Steps()),
	)

	res, err := e.simulator.Run(ctx, e.cfg.InitState, e.cfg.Physics.RunConfig())
	if res == nil {
		return nil, err
	}

	h := NewHistory(res)
	for k, v := range e.effort.Summary() {
		h.Metrics[k] = v
	}

	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		e.log.Warn("run aborted", zap.Int("step", simErr.Step), zap.Error(err))
	} else if err == nil {
		e.log.Info("run finished", zap.Int("entries", h.Len()), zap.Any("metrics", h.Metrics))
	}
	return h, err
}

// Run builds and runs a single experiment with the default registry.
func Run(ctx context.Context, cfg Config) (*History, error) {
	exp, err := New(cfg, NewRegistry())
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// RunSimulation runs the fuzzy controller with the default physics from
// an initial angle in degrees and angular velocity in rad/s.
func RunSimulation(ctx context.Context, angleDeg, velocity float64) (*History, error) {
	cfg := DefaultConfig()
	cfg.InitState = dynamo.State{physics.Radians(angleDeg), velocity}
	return Run(ctx, cfg)
}
