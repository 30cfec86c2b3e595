package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/storage"
)

const scenarioYAML = `
name: compare
description: fuzzy against pid from the same start
steps:
  - preset: far
    duration: 1
    save: true
  - preset: far
    controller: pid
    duration: 1
    params:
      kp: 30
      pole_length: 0.6
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "compare" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].Controller != "pid" || sc.Steps[1].Params["kp"] != 30 {
		t.Errorf("second step = %+v", sc.Steps[1])
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestResolve(t *testing.T) {
	angle := 33.0
	cfg, err := ScenarioStep{
		Preset:   "kick",
		Angle:    &angle,
		Duration: 2,
		Params:   map[string]float64{"gravity": 3.7, "kd": 1},
	}.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Initial.Angle != 33 || cfg.Initial.Velocity != 3 {
		t.Errorf("initial = %+v", cfg.Initial)
	}
	if cfg.Physics.Duration != 2 || cfg.Physics.Gravity != 3.7 || cfg.Physics.PoleLength != config.DefaultPoleLength {
		t.Errorf("physics = %+v", cfg.Physics)
	}
	if cfg.ControllerParams.Kd != 1 {
		t.Errorf("kd = %v", cfg.ControllerParams.Kd)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
		want error
	}{
		{"unknown param", ScenarioStep{Params: map[string]float64{"friction": 1}}, dynamo.ErrUnknownParam},
		{"bad physics", ScenarioStep{Params: map[string]float64{"pole_mass": -1}}, dynamo.ErrParameterBounds},
		{"bad controller", ScenarioStep{Controller: "lqr"}, dynamo.ErrParameterBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.step.Resolve(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := (ScenarioStep{Preset: "nope"}).Resolve(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.History.Len() != 100 {
			t.Errorf("step %d: expected 100 entries, got %d", i, r.History.Len())
		}
	}
	if results[0].RunID == "" || results[1].RunID != "" {
		t.Errorf("only the first step should be saved: %q, %q", results[0].RunID, results[1].RunID)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].InitialAngle != 120 || runs[0].Steps != 100 {
		t.Errorf("stored runs = %+v", runs)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Physics.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "pole_length",
		ParamMin:  0.25,
		ParamMax:  1.0,
		NumSteps:  4,
	}, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].ParamValue != 0.25 || results[3].ParamValue != 1.0 {
		t.Errorf("param values %v .. %v", results[0].ParamValue, results[3].ParamValue)
	}
	for _, r := range results {
		if r.MinEnergy > r.MaxEnergy {
			t.Errorf("energy range inverted: %+v", r)
		}
	}
	if base.Physics.PoleLength != config.DefaultPoleLength {
		t.Error("sweep modified the base config")
	}

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "mass", NumSteps: 2}, experiment.NewRegistry())
	if !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Physics.Duration = 0.5
	mc := &MonteCarloConfig{
		Base:         base,
		Perturbation: 10,
		NumTrials:    5,
		Target:       180,
		Band:         360,
		Seed:         7,
	}

	a, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 5 {
		t.Fatalf("expected 5 trials, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("trial %d not reproducible: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].InitAngle < 165 || a[i].InitAngle > 185 {
			t.Errorf("trial %d start %v outside perturbation", i, a[i].InitAngle)
		}
	}

	settled, unsettled := MonteCarloStats(a)
	if settled != 5 || unsettled != 0 {
		t.Errorf("a band of 360° should count every trial, got %d/%d", settled, unsettled)
	}
}
