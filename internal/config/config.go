package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

const (
	DefaultGravity    = 9.81
	DefaultCartMass   = 1.0
	DefaultPoleMass   = 0.2
	DefaultPoleLength = 0.5
	DefaultDt         = 0.01
	DefaultDuration   = 15.0
	DefaultAngle      = 175.0 // degrees
	DefaultKp         = 40.0
	DefaultKi         = 0.5
	DefaultKd         = 8.0
)

// Names accepted for Config.Integrator and Config.Controller.
var (
	Integrators = []string{"kinematic", "euler", "rk4"}
	Controllers = []string{"fuzzy", "none", "pid"}
)

// Physics is the single record of physical and timing parameters.
type Physics struct {
	Gravity    float64 `yaml:"gravity" toml:"gravity"`
	CartMass   float64 `yaml:"cart_mass" toml:"cart_mass"`
	PoleMass   float64 `yaml:"pole_mass" toml:"pole_mass"`
	PoleLength float64 `yaml:"pole_length" toml:"pole_length"`
	Dt         float64 `yaml:"dt" toml:"dt"`
	Duration   float64 `yaml:"duration" toml:"duration"`
}

func DefaultPhysics() Physics {
	return Physics{
		Gravity:    DefaultGravity,
		CartMass:   DefaultCartMass,
		PoleMass:   DefaultPoleMass,
		PoleLength: DefaultPoleLength,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
	}
}

func (p Physics) CartPole() *physics.CartPole {
	return &physics.CartPole{
		Gravity:    p.Gravity,
		CartMass:   p.CartMass,
		PoleMass:   p.PoleMass,
		PoleLength: p.PoleLength,
	}
}

func (p Physics) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            p.Dt,
		Duration:      p.Duration,
		ValidateState: true,
	}
}

func (p Physics) Validate() error {
	if err := p.CartPole().Validate(); err != nil {
		return err
	}
	return p.RunConfig().Validate()
}

type InitialConfig struct {
	Angle    float64 `yaml:"angle" toml:"angle"`       // degrees
	Velocity float64 `yaml:"velocity" toml:"velocity"` // rad/s
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp" toml:"kp"`
	Ki     float64 `yaml:"ki" toml:"ki"`
	Kd     float64 `yaml:"kd" toml:"kd"`
	Target float64 `yaml:"target" toml:"target"` // degrees
}

type EngineConfig struct {
	// ClipInputs saturates crisp inputs at the universe bounds.
	ClipInputs bool `yaml:"clip_inputs" toml:"clip_inputs"`
}

type Config struct {
	Integrator       string           `yaml:"integrator" toml:"integrator"`
	Controller       string           `yaml:"controller" toml:"controller"`
	Physics          Physics          `yaml:"physics" toml:"physics"`
	Initial          InitialConfig    `yaml:"initial" toml:"initial"`
	ControllerParams ControllerConfig `yaml:"controller_params" toml:"controller_params"`
	Engine           EngineConfig     `yaml:"engine" toml:"engine"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "kinematic",
		Controller: "fuzzy",
		Physics:    DefaultPhysics(),
		Initial: InitialConfig{
			Angle: DefaultAngle,
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Engine: EngineConfig{ClipInputs: true},
	}
}

func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if !slices.Contains(Integrators, c.Integrator) {
		return fmt.Errorf("unknown integrator %q (want one of %s): %w", c.Integrator, strings.Join(Integrators, ", "), dynamo.ErrParameterBounds)
	}
	if !slices.Contains(Controllers, c.Controller) {
		return fmt.Errorf("unknown controller %q (want one of %s): %w", c.Controller, strings.Join(Controllers, ", "), dynamo.ErrParameterBounds)
	}
	return nil
}

// InitState is {θ, ω} in radians.
func (c *Config) InitState() dynamo.State {
	return dynamo.State{physics.Radians(c.Initial.Angle), c.Initial.Velocity}
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":     c.ControllerParams.Kp,
		"ki":     c.ControllerParams.Ki,
		"kd":     c.ControllerParams.Kd,
		"target": physics.Radians(c.ControllerParams.Target),
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads YAML, or TOML when the file ends in .toml. Missing keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
