package main

import (
	"fmt"
	"math/cmplx"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/fuzzypend/internal/analysis"
	"github.com/san-kum/fuzzypend/internal/automation"
	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/export"
	"github.com/san-kum/fuzzypend/internal/fuzzy"
	"github.com/san-kum/fuzzypend/internal/metrics"
	"github.com/san-kum/fuzzypend/internal/optim"
	"github.com/san-kum/fuzzypend/internal/physics"
	"github.com/san-kum/fuzzypend/internal/storage"
	"github.com/san-kum/fuzzypend/internal/viz"
)

// buildConfig starts from the preset or config file (the file wins) and
// applies every flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("dt") {
		cfg.Physics.Dt = dt
	}
	if set("time") {
		cfg.Physics.Duration = duration
	}
	if set("angle") {
		cfg.Initial.Angle = angle
	}
	if set("velocity") {
		cfg.Initial.Velocity = velocity
	}
	if set("integrator") {
		cfg.Integrator = integrator
	}
	if set("controller") {
		cfg.Controller = controller
	}
	if set("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if set("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if set("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if set("target") {
		cfg.ControllerParams.Target = target
	}
	if set("no-clip") {
		cfg.Engine.ClipInputs = !noClip
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ec := experiment.FromConfig(cfg)
	ec.Logger = log
	exp, err := experiment.New(ec, registry)
	if err != nil {
		return err
	}

	var prom *metrics.Prometheus
	if metricsFile != "" {
		prom = metrics.NewPrometheus()
		exp.Simulator().AddObserver(prom)
	}

	inputs := "clipped"
	if !cfg.Engine.ClipInputs {
		inputs = "unclipped"
	}
	fmt.Printf("running %s (%s, %s) from %.1f° for %.1fs...\n",
		cfg.Controller, cfg.Integrator, inputs, cfg.Initial.Angle, cfg.Physics.Duration)

	h, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	final, finalVel := h.Final()
	fmt.Printf("\ndone: %d entries\n", h.Len())
	fmt.Printf("final: angle=%.2f° velocity=%.2f°/s\n", final, finalVel)
	printMetrics(h.Metrics)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(automation.Metadata(cfg), h)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", id)
	}

	if chartPath != "" {
		if err := viz.SaveChart(chartPath, h); err != nil {
			return err
		}
		fmt.Printf("chart: %s\n", chartPath)
	}

	if prom != nil {
		if err := prom.WriteFile(metricsFile); err != nil {
			return err
		}
		fmt.Printf("metrics: %s\n", metricsFile)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Println("\nmetrics:")
	for _, k := range keys {
		fmt.Printf("  %-18s %.4f\n", k, m[k])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTROLLER\tINTEGRATOR\tANGLE\tSTEPS\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
			run.ID, run.Controller, run.Integrator, run.InitialAngle, run.Steps,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func loadRun(id string) (*storage.RunMetadata, *experiment.History, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	h, err := st.LoadHistory(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, h, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	names := viz.SeriesNames
	if len(args) == 2 {
		names = []string{args[1]}
	}
	for _, name := range names {
		graph, err := viz.ASCII(h, name, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out := args[0] + ".png"
	if len(args) == 2 {
		out = args[1]
	}
	if err := viz.SaveChart(out, h); err != nil {
		return err
	}
	fmt.Printf("chart: %s\n", out)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	portrait := analysis.NewPhasePortrait(h)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 80, 24))
	if svgPath != "" {
		if err := export.SavePhaseSVG(svgPath, portrait, 800, 600); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	s := analysis.Summarize(h, settleTarget, settleBand)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "entries\t%d\n", s.Entries)
	fmt.Fprintf(w, "final angle\t%.2f°\n", s.FinalAngle)
	fmt.Fprintf(w, "mean ± std\t%.2f ± %.2f°\n", s.MeanAngle, s.StdAngle)
	fmt.Fprintf(w, "rms force\t%.3f N\n", s.RMSForce)
	fmt.Fprintf(w, "max force\t%.3f N\n", s.MaxForce)
	if s.Settled {
		fmt.Fprintf(w, "settled\t%.2fs (within %.1f° of %.1f°)\n", s.SettleTime, settleBand, settleTarget)
	} else {
		fmt.Fprintf(w, "settled\tno\n")
	}
	fmt.Fprintf(w, "dominant frequency\t%.3f Hz\n", s.DominantHz)
	if err := w.Flush(); err != nil {
		return err
	}

	if h.Len() > 1 {
		spec := analysis.PowerSpectrum(h.Angles)
		if len(spec) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(spec[1:],
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption("angle power spectrum")))
		}
	}

	ctrl, err := experiment.NewRegistry().GetController(meta.Controller, meta.Params, meta.ClipInputs)
	if err != nil {
		return err
	}
	sys := meta.Physics.CartPole()
	fmt.Println("\nlinearised closed loop:")
	for _, eq := range []struct {
		name  string
		theta float64
	}{{"upright", 0}, {"hanging", 180}} {
		x := dynamo.State{physics.Radians(eq.theta), 0}
		values := analysis.Eigenvalues(analysis.ClosedLoopJacobian(sys, ctrl, x, 1e-6))
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%.3f%+.3fi", real(v), imag(v))
		}
		state := "unstable"
		if analysis.LocallyStable(values) {
			state = "stable"
		}
		fmt.Printf("  %-8s λ = [%s]  %s\n", eq.name, strings.Join(parts, ", "), state)
		log.Debug("eigenvalues", zap.String("equilibrium", eq.name), zap.Float64("max_modulus", maxModulus(values)))
	}
	return nil
}

func maxModulus(values []complex128) float64 {
	m := 0.0
	for _, v := range values {
		m = max(m, cmplx.Abs(v))
	}
	return m
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, h)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, h)
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.RunReplay(h, fmt.Sprintf("%s · %s · %.1f°", meta.ID, meta.Controller, meta.InitialAngle))
}

func sweepGrid(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	base := experiment.FromConfig(cfg)
	base.Logger = log

	sweep := &experiment.Sweep{
		Base:       base,
		Angles:     experiment.Linspace(angleMin, angleMax, angleSteps),
		Velocities: experiment.Linspace(velMin, velMax, velSteps),
		Workers:    workers,
	}
	log.Info("sweep", zap.Int("runs", len(sweep.Angles)*len(sweep.Velocities)))

	results, err := sweep.Run(cmd.Context(), experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tVELOCITY\tFINAL\tMAX |F|\tSTABILITY\tEFFORT")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t%.2f\t%.3f\t%.3f\n",
			r.Angle, r.Velocity, r.FinalAngle, r.MaxForce, r.Stability, r.Effort)
	}
	return w.Flush()
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: args[0],
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  paramSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tMIN E\tMAX E\tMAX |F|\n", strings.ToUpper(args[0]))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.2f\t%.3f\t%.3f\t%.2f\n", r.ParamValue, r.FinalAngle, r.MinEnergy, r.MaxEnergy, r.MaxForce)
	}
	return w.Flush()
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Target:       settleTarget,
		Band:         settleBand,
		Seed:         seed,
	}, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tINITIAL\tFINAL\tSETTLED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%v\n", r.TrialID, r.InitAngle, r.FinalAngle, r.Settled)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	settled, unsettled := automation.MonteCarloStats(results)
	fmt.Printf("\nsettled %d / %d (%d not)\n", settled, len(results), unsettled)
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("controller") {
		cfg.Controller = "pid"
	}

	g, err := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{kpValues, kiValues, kdValues})
	if err != nil {
		return err
	}
	objective := optim.Minimize(tuneMetric)
	if tuneMaximize {
		objective = optim.Maximize(tuneMetric)
	}

	log.Info("tuning", zap.String("metric", tuneMetric), zap.Int("points", len(kpValues)*len(kiValues)*len(kdValues)))
	res, err := g.Search(cmd.Context(), cfg, experiment.NewRegistry(), objective)
	if err != nil {
		return err
	}

	score := res.Score
	if tuneMaximize {
		score = -score
	}
	fmt.Printf("best: kp=%g ki=%g kd=%g  %s=%.4f\n", res.Params["kp"], res.Params["ki"], res.Params["kd"], tuneMetric, score)
	fmt.Printf("tried %d, diverged %d\n", res.Tried, res.Failed)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCONTROLLER\tINITIAL\tFINAL\tMAX |F|\tRUN")
	for i, r := range results {
		final, _ := r.History.Final()
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%.2f\t%.2f\t%s\n",
			i+1, r.Config.Controller, r.Config.Initial.Angle, final, r.History.MaxAbsForce(), r.RunID)
	}
	return w.Flush()
}

func printRules(cmd *cobra.Command, args []string) error {
	rb := experiment.NewRegistry().Engine().Rules()

	if len(args) == 2 {
		a, err := fuzzy.ParseLabel(strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		v, err := fuzzy.ParseLabel(strings.ToUpper(args[1]))
		if err != nil {
			return err
		}
		if f, ok := rb.Lookup(a, v); ok {
			fmt.Println(fuzzy.Rule{Angle: a, Velocity: v, Force: f})
		} else {
			fmt.Printf("(%s, %s) has no rule\n", a, v)
		}
		return nil
	}

	fmt.Println(viz.RuleTable(rb))
	for _, r := range rb.Rules() {
		fmt.Println("  " + r.String())
	}
	if odd := rb.Unmirrored(); len(odd) > 0 {
		fmt.Println("\nwithout a mirrored rule:")
		for _, r := range odd {
			fmt.Println("  " + r.String())
		}
	}
	return nil
}

func inferOnce(cmd *cobra.Command, args []string) error {
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("angle: %w", err)
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("velocity: %w", err)
	}

	engine := experiment.NewRegistry().Engine()
	if noClip {
		engine = engine.WithoutClipping()
	}
	inf := engine.Evaluate(physics.Normalize(physics.Radians(a)), v)
	fmt.Println(viz.FiredTable(engine.Rules(), inf))
	fmt.Println(viz.DescribeInference(inf))
	return nil
}
