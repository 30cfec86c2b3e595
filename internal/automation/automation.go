package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/physics"
	"github.com/san-kum/fuzzypend/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Unset fields fall back to the preset, or
// to the defaults when no preset is named. Params may hold physical
// parameters (gravity, cart_mass, pole_mass, pole_length) and controller
// gains (kp, ki, kd, target in degrees).
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Controller string             `yaml:"controller"`
	Angle      *float64           `yaml:"angle"`
	Velocity   *float64           `yaml:"velocity"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

type StepResult struct {
	Config  *config.Config
	History *experiment.History
	RunID   string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve turns a step into a validated configuration.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Controller != "" {
		cfg.Controller = s.Controller
	}
	if s.Angle != nil {
		cfg.Initial.Angle = *s.Angle
	}
	if s.Velocity != nil {
		cfg.Initial.Velocity = *s.Velocity
	}
	if s.Duration > 0 {
		cfg.Physics.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Physics.Dt = s.Dt
	}

	for k, v := range s.Params {
		if err := applyParam(cfg, k, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "kp":
		cfg.ControllerParams.Kp = value
	case "ki":
		cfg.ControllerParams.Ki = value
	case "kd":
		cfg.ControllerParams.Kd = value
	case "target":
		cfg.ControllerParams.Target = value
	default:
		return SetPhysicsParam(&cfg.Physics, name, value)
	}
	return nil
}

// SetPhysicsParam sets a model parameter by the name the cart-pole model
// exposes through dynamo.Configurable.
func SetPhysicsParam(p *config.Physics, name string, value float64) error {
	var model dynamo.Configurable = p.CartPole()
	if err := model.SetParam(name, value); err != nil {
		return err
	}
	params := model.GetParams()
	p.Gravity = params["gravity"]
	p.CartMass = params["cart_mass"]
	p.PoleMass = params["pole_mass"]
	p.PoleLength = params["pole_length"]
	return nil
}

// RunScenario executes all steps in order. Steps marked save are written
// to st when it is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("controller", cfg.Controller),
			zap.Float64("angle_deg", cfg.Initial.Angle),
		)

		runCfg := experiment.FromConfig(cfg)
		runCfg.Logger = log
		exp, err := experiment.New(runCfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		h, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Config: cfg, History: h}
		if step.Save && st != nil {
			res.RunID, err = st.Save(Metadata(cfg), h)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// Metadata describes cfg for the run store.
func Metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Integrator:      cfg.Integrator,
		Controller:      cfg.Controller,
		Physics:         cfg.Physics,
		InitialAngle:    cfg.Initial.Angle,
		InitialVelocity: cfg.Initial.Velocity,
		Params:          cfg.GetControllerParams(),
		ClipInputs:      cfg.Engine.ClipInputs,
	}
}

// ParameterSweep runs the base configuration across a range of one
// physical parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalAngle float64
	MaxEnergy  float64
	MinEnergy  float64
	MaxForce   float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	for _, paramVal := range experiment.Linspace(sweep.ParamMin, sweep.ParamMax, sweep.NumSteps) {
		cfg := *sweep.Base
		if err := SetPhysicsParam(&cfg.Physics, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		h, err := experiment.Run(ctx, experiment.FromConfig(&cfg))
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		minE, maxE := energyRange(cfg.Physics.CartPole(), h)
		final, _ := h.Final()
		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalAngle: final,
			MaxEnergy:  maxE,
			MinEnergy:  minE,
			MaxForce:   h.MaxAbsForce(),
		})
	}

	return results, nil
}

func energyRange(ec dynamo.Hamiltonian, h *experiment.History) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range h.Angles {
		e := ec.Energy(dynamo.State{physics.Radians(h.Angles[i]), physics.Radians(h.Velocities[i])})
		lo, hi = math.Min(lo, e), math.Max(hi, e)
	}
	return lo, hi
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // degrees, uniform in ±Perturbation
	NumTrials    int
	Target       float64 // degrees
	Band         float64 // degrees
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID    int
	InitAngle  float64
	FinalAngle float64
	Settled    bool // final angle within Band of Target
}

// RunMonteCarlo executes multiple trials with random perturbations of the
// initial angle.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, log *zap.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Initial.Angle += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		exp, err := experiment.New(experiment.FromConfig(&c), registry)
		if err != nil {
			return nil, err
		}
		h, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		final, _ := h.Final()
		diff := physics.Degrees(physics.Normalize(physics.Radians(final - cfg.Target)))
		results = append(results, MonteCarloResult{
			TrialID:    trial,
			InitAngle:  c.Initial.Angle,
			FinalAngle: final,
			Settled:    math.Abs(diff) <= cfg.Band,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", zap.Int("done", trial+1), zap.Int("trials", cfg.NumTrials))
		}
	}

	return results, nil
}

// MonteCarloStats counts settled and unsettled trials.
func MonteCarloStats(results []MonteCarloResult) (settled int, unsettled int) {
	for _, r := range results {
		if r.Settled {
			settled++
		} else {
			unsettled++
		}
	}
	return
}
