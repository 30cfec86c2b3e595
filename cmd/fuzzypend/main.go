package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/fuzzypend/internal/config"
)

var (
	dataDir     string
	verbose     bool
	log         *zap.Logger
	dt          float64
	duration    float64
	angle       float64
	velocity    float64
	integrator  string
	controller  string
	kp          float64
	ki          float64
	kd          float64
	target      float64
	noClip      bool
	noSave      bool
	configFile  string
	preset      string
	chartPath   string
	metricsFile string
	svgPath     string

	// sweep grid
	angleMin, angleMax float64
	angleSteps         int
	velMin, velMax     float64
	velSteps           int
	workers            int

	// param-sweep and montecarlo
	paramMin, paramMax float64
	paramSteps         int
	trials             int
	perturbation       float64
	seed               int64

	// tune
	kpValues, kiValues, kdValues []float64
	tuneMetric                   string
	tuneMaximize                 bool

	// analysis band, degrees
	settleTarget float64
	settleBand   float64
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}

// addRunFlags registers the flags shared by commands that build a
// configuration.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Float64Var(&angle, "angle", config.DefaultAngle, "initial angle (deg, 0 = upright)")
	cmd.Flags().Float64Var(&velocity, "velocity", 0, "initial angular velocity (rad/s)")
	cmd.Flags().StringVar(&integrator, "integrator", "kinematic", "integrator (kinematic, euler, rk4)")
	cmd.Flags().StringVar(&controller, "controller", "fuzzy", "controller (fuzzy, none, pid)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", 0, "pid target (deg)")
	cmd.Flags().BoolVar(&noClip, "no-clip", false, "do not clip fuzzy inputs to their universes")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "fuzzypend",
		Short:         "fuzzy-controlled inverted pendulum simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = newLogger()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fuzzypend", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&chartPath, "chart", "", "also write a PNG chart to this path")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus text metrics to this path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [series]",
		Short: "plot angle, velocity or force in the terminal",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id] [out.png]",
		Short: "render angle, velocity and force charts to PNG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  chartRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "also write the portrait as SVG to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling, frequency and local stability analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&settleTarget, "settle-target", 180, "settling target angle (deg)")
	analyzeCmd.Flags().Float64Var(&settleBand, "settle-band", 10, "settling band (deg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play a stored run back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of initial angles and velocities in parallel",
		Args:  cobra.NoArgs,
		RunE:  sweepGrid,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&angleMin, "angle-min", -180, "first initial angle (deg)")
	sweepCmd.Flags().Float64Var(&angleMax, "angle-max", 180, "last initial angle (deg)")
	sweepCmd.Flags().IntVar(&angleSteps, "angle-steps", 9, "number of angles")
	sweepCmd.Flags().Float64Var(&velMin, "vel-min", 0, "first initial velocity (rad/s)")
	sweepCmd.Flags().Float64Var(&velMax, "vel-max", 0, "last initial velocity (rad/s)")
	sweepCmd.Flags().IntVar(&velSteps, "vel-steps", 1, "number of velocities")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	paramSweepCmd := &cobra.Command{
		Use:   "param-sweep [gravity|cart_mass|pole_mass|pole_length]",
		Short: "sweep one physical parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParam,
	}
	addRunFlags(paramSweepCmd)
	paramSweepCmd.Flags().Float64Var(&paramMin, "min", 0.25, "first value")
	paramSweepCmd.Flags().Float64Var(&paramMax, "max", 1.0, "last value")
	paramSweepCmd.Flags().IntVar(&paramSteps, "steps", 4, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the initial angle at random and count settled runs",
		Args:  cobra.NoArgs,
		RunE:  monteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 10, "uniform angle perturbation (deg)")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().Float64Var(&settleTarget, "settle-target", 180, "settling target angle (deg)")
	monteCarloCmd.Flags().Float64Var(&settleBand, "settle-band", 10, "settling band (deg)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search pid gains against a run metric",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpValues, "kp-values", []float64{10, 20, 40, 80}, "kp grid")
	tuneCmd.Flags().Float64SliceVar(&kiValues, "ki-values", []float64{0}, "ki grid")
	tuneCmd.Flags().Float64SliceVar(&kdValues, "kd-values", []float64{2, 4, 8, 16}, "kd grid")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "control_effort", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximise the metric instead")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Printf("  %-10s %7.1f° %6.2f rad/s  %s\n", p, c.Initial.Angle, c.Initial.Velocity, config.DescribePreset(p))
			}
			return nil
		},
	}

	rulesCmd := &cobra.Command{
		Use:   "rules [angle_label velocity_label]",
		Short: "print the fuzzy rule base, or look up one cell",
		Args:  cobra.MatchAll(cobra.RangeArgs(0, 2), func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("need both an angle and a velocity label")
			}
			return nil
		}),
		RunE:  printRules,
	}

	inferCmd := &cobra.Command{
		Use:   "infer [angle_deg] [velocity]",
		Short: "evaluate the fuzzy controller once",
		Args:  cobra.ExactArgs(2),
		RunE:  inferOnce,
	}
	inferCmd.Flags().BoolVar(&noClip, "no-clip", false, "do not clip inputs to their universes")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, chartCmd, phaseCmd, analyzeCmd, exportJSONCmd, exportCSVCmd,
		replayCmd, sweepCmd, paramSweepCmd, monteCarloCmd, tuneCmd, scenarioCmd, presetsCmd, rulesCmd, inferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
