package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/export"
	"github.com/san-kum/mosaicfx/internal/scene"
	"github.com/san-kum/mosaicfx/internal/sim"
	"github.com/san-kum/mosaicfx/internal/store"
	"github.com/san-kum/mosaicfx/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	quiet      bool
	// overrides applied on top of preset and config file
	size    int
	seed    uint64
	image   string
	pattern string
	// simulate
	dt        float64
	duration  float64
	ripple    float64
	triggerAt float64
	// export
	outPath   string
	fps       int
	at        float64
	cellPx    int
	noOverlay bool
	gifPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mosaicfx",
		Short: "procedural brick mosaic and grid transition lab",
		RunE:  runPreview,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mosaicfx", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
	rootCmd.PersistentFlags().IntVar(&size, "size", 0, "grid size (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "transition seed (overrides config)")
	rootCmd.PersistentFlags().StringVar(&image, "image", "", "colour source image path or url")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "transition pattern image path or url")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "live terminal preview",
		RunE:  runPreview,
	}
	rootCmd.Flags().StringVar(&gifPath, "gif", "mosaicfx.gif", "path for recorded gifs")
	previewCmd.Flags().StringVar(&gifPath, "gif", "mosaicfx.gif", "path for recorded gifs")

	simulateCmd := &cobra.Command{
		Use:   "simulate [preset...]",
		Short: "run headless simulations and store their traces",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (overrides config)")
	simulateCmd.Flags().Float64Var(&duration, "time", 0, "duration (overrides config)")
	simulateCmd.Flags().Float64Var(&ripple, "ripple", 0.1, "time of a centre hover, negative to skip")
	simulateCmd.Flags().Float64Var(&triggerAt, "trigger", 1, "time of a transition trigger, negative to skip")

	transitionCmd := &cobra.Command{
		Use:   "transition",
		Short: "record one transition as a gif",
		RunE:  runTransition,
	}
	transitionCmd.Flags().StringVarP(&outPath, "out", "o", "transition.gif", "output gif")
	transitionCmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	transitionCmd.Flags().IntVar(&cellPx, "cell", 8, "pixels per cell")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a single frame as png or svg",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "frame.png", "output file (.png or .svg)")
	renderCmd.Flags().Float64Var(&at, "at", 2, "scene time to render")
	renderCmd.Flags().Float64Var(&triggerAt, "trigger", -1, "time of a transition trigger, negative to skip")
	renderCmd.Flags().IntVar(&cellPx, "cell", 12, "pixels per cell")
	renderCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "skip the transition overlay")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and trace as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "mosaicfx.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(previewCmd, simulateCmd, transitionCmd, renderCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "mosaicfx: ", log.LstdFlags)
}

// loadConfig resolves preset, then config file, then flag overrides.
func loadConfig() (*config.Config, error) {
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
	applyOverrides(cfg)
	return cfg, cfg.Validate()
}

func applyOverrides(cfg *config.Config) {
	if size > 0 {
		cfg.Grid.Size = size
	}
	if seed != 0 {
		cfg.Timing.Seed = seed
	}
	if image != "" {
		cfg.Image = image
	}
	if pattern != "" {
		cfg.Pattern = pattern
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
}

// loadScene builds a scene from cfg and blocks until its sources settle.
func loadScene(cfg *config.Config, logger *log.Logger) (*scene.Scene, error) {
	s, err := scene.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout+time.Second)
	defer cancel()
	s.Load(ctx)
	if err := s.Wait(ctx); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// previewConfig resolves the config for a preview. Without a preset or
// config file the menu opens on the defaults plus any overrides; otherwise
// the preview goes straight to the live view.
func previewConfig() (cfg *config.Config, menu bool, err error) {
	if preset == "" && configFile == "" {
		cfg = config.DefaultConfig()
		applyOverrides(cfg)
		return cfg, true, nil
	}
	cfg, err = loadConfig()
	return cfg, false, err
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, menu, err := previewConfig()
	if err != nil {
		return err
	}
	if menu {
		return viz.RunInteractive(cfg, logger)
	}

	s, err := scene.New(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Destroy()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Load(ctx)
	return viz.Run(s, cfg.Dt, gifPath)
}

func scriptedRun(cfg *config.Config) sim.Config {
	run := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}
	if ripple >= 0 {
		run.Events = append(run.Events, sim.CenterRipple(cfg.Grid.Size, ripple))
	}
	if triggerAt >= 0 {
		run.Events = append(run.Events, sim.Event{At: triggerAt, Kind: sim.Trigger, Counter: 1})
	}
	return run
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if len(args) > 0 {
		return sweepPresets(st, args, logger)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := loadScene(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Destroy()

	name := preset
	if name == "" {
		name = "custom"
	}
	run := scriptedRun(cfg)

	fmt.Printf("running %s simulation (%dx%d)...\n", name, cfg.Grid.Size, cfg.Grid.Size)
	start := time.Now()
	result, err := sim.New(s).Run(context.Background(), run)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg, run, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("transitions covered: %v completed: %v\n", result.Covered, result.Completed)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	energy := result.Series(func(s sim.Sample) float64 { return s.Energy })
	if len(energy) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("wave energy"),
		))
	}
	return nil
}

func sweepPresets(st *store.Store, names []string, logger *log.Logger) error {
	cfgs := make([]*config.Config, len(names))
	for i, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		applyOverrides(cfg)
		cfgs[i] = cfg
	}
	run := scriptedRun(cfgs[0])

	fmt.Printf("sweeping %d presets...\n", len(names))
	results, err := sim.Sweep(context.Background(), cfgs, run, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRUN ID\tENERGY\tPEAK\tSETTLE")
	for i, result := range results {
		runID, err := st.Save(names[i], cfgs[i], run, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%.2fs\n",
			names[i],
			runID,
			result.Metrics["energy"],
			result.Metrics["peak_height"],
			result.Metrics["settle_time"],
		)
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runTransition(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := loadScene(cfg, newLogger())
	if err != nil {
		return err
	}
	defer s.Destroy()

	o := export.DefaultFrameOptions()
	o.CellPx = cellPx
	rec, err := export.Transition(s, 1, fps, o)
	if err != nil {
		return err
	}
	if err := rec.Save(outPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames)\n", outPath, rec.Len())
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := loadScene(cfg, newLogger())
	if err != nil {
		return err
	}
	defer s.Destroy()

	triggered := false
	for t := 0.0; t < at; t += cfg.Dt {
		if !triggered && triggerAt >= 0 && t >= triggerAt {
			s.Trigger(1)
			triggered = true
		}
		s.Tick(cfg.Dt)
	}

	o := export.DefaultFrameOptions()
	o.CellPx = cellPx
	o.Overlay = !noOverlay

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".svg":
		if err := os.WriteFile(outPath, []byte(export.SVG(s, o)), 0644); err != nil {
			return err
		}
	case ".png":
		if err := export.SavePNG(outPath, export.Frame(s, o)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outPath)
	}
	fmt.Printf("wrote %s at t=%.2fs\n", outPath, s.Time())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tDURATION\tDT\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			run.Duration,
			run.Dt,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	result := &sim.Result{Samples: samples}
	series := []struct {
		caption string
		pick    func(sim.Sample) float64
	}{
		{"wave energy", func(s sim.Sample) float64 { return s.Energy }},
		{"peak height", func(s sim.Sample) float64 { return s.Peak }},
		{"transition progress", func(s sim.Sample) float64 { return s.Progress }},
	}
	for _, sr := range series {
		graph := asciigraph.Plot(result.Series(sr.pick),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}
