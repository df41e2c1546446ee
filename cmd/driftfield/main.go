package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	debug      bool

	width   int
	height  int
	seed    int64
	mode    string
	preset  string
	scale   float64
	fps     int
	frames  int
	output  string
	addr    string
	runName string

	// headless pointer scripting
	sweep    bool
	pointerX float64
	pointerY float64

	cols      int
	rows      int
	orbit     bool
	trials    int
	limit     int
	every     int
	gifPath   string
	snapDir   string
	showStats bool
	noSave    bool
)

// resolved per invocation by the root PersistentPreRunE
var (
	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
)

const fullscreenAnnotation = "fullscreen"

func main() {
	rootCmd := &cobra.Command{
		Use:               "driftfield",
		Short:             "interactive particle field",
		Annotations:       map[string]string{fullscreenAnnotation: "true"},
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		RunE:              runMenu,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging; full-screen commands log to "+logDir+"/"+logFileName)
	addFieldFlags(rootCmd)
	addTerminalFlags(rootCmd)
	addCaptureFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:         "live",
		Short:       "run the field in the terminal",
		Annotations: map[string]string{fullscreenAnnotation: "true"},
		RunE:        runLive,
	}
	addFieldFlags(liveCmd)
	addTerminalFlags(liveCmd)
	addCaptureFlags(liveCmd)

	playCmd := &cobra.Command{
		Use:         "play",
		Short:       "print frames to a plain terminal",
		Annotations: map[string]string{fullscreenAnnotation: "true"},
		RunE:        runPlay,
	}
	addFieldFlags(playCmd)
	addTerminalFlags(playCmd)
	playCmd.Flags().IntVar(&limit, "limit", 0, "stop after this many frames (0 runs until interrupted)")
	playCmd.Flags().BoolVar(&orbit, "orbit", false, "circle the pointer around the centre")

	windowCmd := &cobra.Command{
		Use:         "window",
		Short:       "run the field in a desktop window",
		Annotations: map[string]string{fullscreenAnnotation: "true"},
		RunE:        runWindow,
	}
	addFieldFlags(windowCmd)
	addSizeFlags(windowCmd)
	windowCmd.Flags().BoolVar(&showStats, "stats", true, "show the stats overlay")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		RunE:  runHeadless,
	}
	addFieldFlags(runCmd)
	addSizeFlags(runCmd)
	addPointerFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().StringVar(&runName, "name", "run", "run name")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().Int64Var(&seed, "seed", 0, "override the scenario seed")
	scenarioCmd.Flags().IntVar(&trials, "trials", 1, "replay under this many consecutive seeds")
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the last frame of a headless run to SVG or PNG",
		RunE:  renderFrame,
	}
	addFieldFlags(renderCmd)
	addSizeFlags(renderCmd)
	addPointerFlags(renderCmd)
	renderCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate before rendering")
	renderCmd.Flags().StringVarP(&output, "out", "o", "", "output file (.svg or .png); stdout SVG when empty")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a headless run as an animated GIF",
		RunE:  recordGIF,
	}
	addFieldFlags(recordCmd)
	addSizeFlags(recordCmd)
	addPointerFlags(recordCmd)
	recordCmd.Flags().IntVar(&frames, "frames", 180, "frames to simulate")
	recordCmd.Flags().IntVar(&every, "every", 2, "capture every nth frame")
	recordCmd.Flags().StringVarP(&output, "out", "o", "driftfield.gif", "output GIF path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot links and displacement of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of a stored run's link count",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&output, "out", "o", "", "output file (stdout when empty)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		RunE:  listPresets,
	}

	countCmd := &cobra.Command{
		Use:   "count [width] [height]",
		Short: "print the particle count for a surface size",
		Args:  cobra.ExactArgs(2),
		RunE:  countParticles,
	}
	countCmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve frame previews and stored runs over HTTP",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")

	rootCmd.AddCommand(liveCmd, playCmd, windowCmd, runCmd, scenarioCmd, renderCmd,
		recordCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd, countCmd, serveCmd)

	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&mode, "mode", "light", "color mode (light, dark)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "surface width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "surface height")
}

func addTerminalFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "field units per Braille dot")
	cmd.Flags().IntVar(&cols, "cols", 80, "terminal columns (play)")
	cmd.Flags().IntVar(&rows, "rows", 22, "terminal rows (play)")
}

func addCaptureFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&gifPath, "gif", "driftfield.gif", "GIF output path for the g key")
	cmd.Flags().StringVar(&snapDir, "snapshots", ".", "directory for SVG snapshots from the s key")
}

func addPointerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&sweep, "sweep", false, "sweep the pointer in a circle around the centre")
	cmd.Flags().Float64Var(&pointerX, "px", -1, "hold the pointer at this x (negative leaves it off)")
	cmd.Flags().Float64Var(&pointerY, "py", -1, "hold the pointer at this y")
}

// setup resolves configuration and logging for the command being run.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = resolveConfig(cmd)
	if err != nil {
		return err
	}

	fullscreen := cmd.Annotations[fullscreenAnnotation] == "true"
	logger, logCloser, err = setupLogging(fullscreen, debug, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Debug("config resolved",
		"command", cmd.Name(), "seed", cfg.Seed, "mode", cfg.Mode,
		"preset", cfg.Preset, "data", cfg.DataDir)
	return nil
}

// resolveConfig layers defaults, the config file (with its own preset),
// .env and DRIFTFIELD_* variables, and finally flags the user set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := c.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("width") {
		c.Width = width
	}
	if flags.Changed("height") {
		c.Height = height
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("mode") {
		m, err := field.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		c.Mode = m
	}
	if flags.Changed("scale") {
		c.Scale = scale
	}
	if flags.Changed("fps") {
		c.FPS = fps
	}
	// commands share the flag variables but not their defaults
	if f := flags.Lookup("frames"); f != nil {
		switch {
		case f.Changed:
			c.Frames = frames
		case configFile == "":
			n, err := strconv.Atoi(f.DefValue)
			if err != nil {
				return nil, err
			}
			c.Frames = n
		}
	}
	if f := flags.Lookup("out"); f != nil {
		if f.Changed {
			c.Output = output
		} else if c.Output == "" {
			c.Output = f.DefValue
		}
	}
	if flags.Changed("addr") {
		c.Addr = addr
	}

	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
