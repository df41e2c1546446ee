package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/driftfield/internal/analysis"
	"github.com/san-kum/driftfield/internal/automation"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/metrics"
	"github.com/san-kum/driftfield/internal/render"
	"github.com/san-kum/driftfield/internal/server"
	"github.com/san-kum/driftfield/internal/sim"
	"github.com/san-kum/driftfield/internal/storage"
	"github.com/san-kum/driftfield/internal/tui"
	"github.com/san-kum/driftfield/internal/viz"
	"github.com/san-kum/driftfield/internal/window"
	"github.com/spf13/cobra"
)

const title = "driftfield"

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func vizOptions() viz.Options {
	return viz.Options{
		Params:      cfg.Params,
		Seed:        cfg.Seed,
		Mode:        cfg.Mode,
		Scale:       cfg.Scale,
		FPS:         cfg.FPS,
		GIFPath:     gifPath,
		SnapshotDir: snapDir,
		Title:       title,
		Logger:      logger,
	}
}

func runProgram(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return runProgram(ctx, viz.NewMenu(vizOptions()))
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	model, err := viz.NewModel(vizOptions())
	if err != nil {
		return err
	}
	return runProgram(ctx, model)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	err := tui.Play(ctx, os.Stdout, tui.PlayOptions{
		Cols:   cols,
		Rows:   rows,
		Scale:  cfg.Scale,
		Params: cfg.Params,
		Seed:   cfg.Seed,
		Mode:   cfg.Mode,
		FPS:    cfg.FPS,
		Frames: limit,
		Orbit:  orbit,
		Title:  title,
		Logger: logger,
	})
	// interrupted by the user
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	return window.Run(ctx, window.Options{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Params:    cfg.Params,
		Seed:      cfg.Seed,
		Mode:      cfg.Mode,
		TPS:       cfg.FPS,
		Title:     title,
		ShowStats: showStats,
		Logger:    logger,
	})
}

// headlessScenario turns the resolved config and pointer flags into a
// scenario.
func headlessScenario(name string) *automation.Scenario {
	s := &automation.Scenario{
		Name:   name,
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   cfg.Seed,
		Mode:   cfg.Mode,
		Frames: cfg.Frames,
		Params: cfg.Params,
	}

	switch {
	case sweep:
		steps := min(48, cfg.Frames-2)
		if steps <= 0 {
			break
		}
		stride := max(1, (cfg.Frames-2)/(steps+1))
		w, h := float64(cfg.Width), float64(cfg.Height)
		s.Events = automation.Sweep(w/2, h/2, min(w, h)/4, 1, steps, stride)
	case pointerX >= 0 && pointerY >= 0:
		s.Events = []automation.Event{{Frame: 0, Type: automation.EventMove, X: pointerX, Y: pointerY}}
	}
	return s
}

// finalMode remembers the color mode of the last simulated frame.
type finalMode struct{ mode field.Mode }

func (m *finalMode) OnFrame(fr sim.Frame) { m.mode = fr.Mode }

func openStore() (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func saveRun(run *automation.Run, final field.Mode) (string, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	s := run.Scenario
	return st.Save(storage.RunMetadata{
		Name:   s.Name,
		Seed:   s.Seed,
		Width:  s.Width,
		Height: s.Height,
		Mode:   s.Mode,
		Preset: cfg.Preset,
		Params: run.Field.Params(),
	}, run.Result, run.Tape.SVG(final.Palette().Background))
}

func printRun(w io.Writer, run *automation.Run) {
	s := run.Scenario
	fmt.Fprintf(w, "%s: %dx%d seed=%d frames=%d\n", s.Name, s.Width, s.Height, s.Seed, run.Result.FramesRun)
	for _, name := range metrics.Names() {
		if v, ok := run.Result.Metrics[name]; ok {
			fmt.Fprintf(w, "  %-14s %.4f\n", name, v)
		}
	}
	for _, err := range run.Result.Errors {
		fmt.Fprintf(w, "  error: %v\n", err)
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var fm finalMode
	run, err := automation.RunScenario(ctx, headlessScenario(runName), &fm)
	if err != nil {
		return err
	}
	printRun(os.Stdout, run)
	logger.Debug("run finished", "frames", run.Result.FramesRun, "errors", len(run.Result.Errors))

	if noSave {
		return nil
	}
	id, err := saveRun(run, fm.mode)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		s.Seed = seed
	}

	if trials > 1 {
		results, err := automation.RunTrials(ctx, s, trials)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEED\tPARTICLES\tLINK_DENSITY\tFINITE")
		for _, r := range results {
			fmt.Fprintf(w, "%d\t%d\t%.4f\t%t\n", r.Seed, r.Particles, r.LinkDensity, r.Finite)
		}
		return w.Flush()
	}

	var fm finalMode
	run, err := automation.RunScenario(ctx, s, &fm)
	if err != nil {
		return err
	}
	printRun(os.Stdout, run)

	if noSave {
		return nil
	}
	id, err := saveRun(run, fm.mode)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

func renderFrame(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var fm finalMode
	run, err := automation.RunScenario(ctx, headlessScenario("render"), &fm)
	if err != nil {
		return err
	}
	bg := fm.mode.Palette().Background

	if cfg.Output == "" {
		_, err := os.Stdout.Write(run.Tape.SVG(bg))
		return err
	}

	ext := strings.ToLower(filepath.Ext(cfg.Output))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output format %q (use .svg or .png)", ext)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".png" {
		err = png.Encode(f, run.Tape.Raster(bg))
	} else {
		_, err = f.Write(run.Tape.SVG(bg))
	}
	if err != nil {
		return err
	}
	logger.Info("frame written", "path", cfg.Output, "frames", run.Result.FramesRun)
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if every < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", every)
	}
	rec := render.NewGIFRecorder(max(cfg.FPS/every, 1))
	run, err := automation.RecordScenario(ctx, headlessScenario("record"), rec, every)
	if err != nil {
		return err
	}
	if err := rec.Save(cfg.Output); err != nil {
		return err
	}
	logger.Info("recording saved", "path", cfg.Output, "frames", rec.Len(), "simulated", run.Result.FramesRun)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tSEED\tMODE\tFRAMES\tLINK_DENSITY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Seed,
			run.Mode,
			run.Frames,
			run.Metrics["link_density"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("size: %dx%d seed=%d\n", meta.Width, meta.Height, meta.Seed)
	fmt.Printf("frames: %d\n\n", len(frames))

	links := make([]float64, len(frames))
	disp := make([]float64, len(frames))
	for i, fs := range frames {
		links[i] = float64(fs.Links)
		disp[i] = fs.MeanDisplacement
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"links per frame", links},
		{"mean displacement", disp},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("run %s has too few frames to analyze", runID)
	}

	links := make([]float64, len(frames))
	for i, fs := range frames {
		links[i] = float64(fs.Links)
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	ps := analysis.PowerSpectrum(links)
	graph := asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("link count spectrum (cycles per run)"),
	)
	fmt.Println(graph)
	fmt.Println()

	period, ok := analysis.DominantPeriod(links)
	if !ok {
		fmt.Println("no periodic structure")
		return nil
	}
	fmt.Printf("dominant period: %.1f frames (%.2fs at %d fps)\n", period, period/float64(cfg.FPS), cfg.FPS)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Output == "" {
		return st.Export(os.Stdout, args[0])
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if err := storage.ExportJSONFile(cfg.Output, meta, frames); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", cfg.Output)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES@800x600\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		params := field.DefaultParams().Merge(p.Params)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, params.Count(config.DefaultWidth, config.DefaultHeight), p.Description)
	}
	return w.Flush()
}

func countParticles(cmd *cobra.Command, args []string) error {
	w, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	fmt.Println(cfg.Params.Count(w, h))
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return server.New(st, cfg.Params, logger).Run(ctx, cfg.Addr)
}
