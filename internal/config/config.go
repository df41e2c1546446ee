package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/san-kum/driftfield/internal/field"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultScale    = 5.0
	DefaultFPS      = 60
	DefaultFrames   = 600
	DefaultDataDir  = "data"
	DefaultLogLevel = "info"
	DefaultAddr     = ":8080"
)

// Environment variables read by ApplyEnv.
const (
	EnvSeed     = "DRIFTFIELD_SEED"
	EnvMode     = "DRIFTFIELD_MODE"
	EnvData     = "DRIFTFIELD_DATA"
	EnvFPS      = "DRIFTFIELD_FPS"
	EnvLogLevel = "DRIFTFIELD_LOG_LEVEL"
	EnvAddr     = "DRIFTFIELD_ADDR"
)

type Config struct {
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Scale    float64      `yaml:"scale"`
	Seed     int64        `yaml:"seed"`
	Mode     field.Mode   `yaml:"mode"`
	FPS      int          `yaml:"fps"`
	Frames   int          `yaml:"frames"`
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level"`
	Output   string       `yaml:"output,omitempty"`
	Addr     string       `yaml:"addr"`
	Preset   string       `yaml:"preset,omitempty"`
	Params   field.Params `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Scale:    DefaultScale,
		Mode:     field.Light,
		FPS:      DefaultFPS,
		Frames:   DefaultFrames,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Addr:     DefaultAddr,
		Params:   field.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	// explicit params in the file win over the preset
	if head.Preset != "" {
		if err := cfg.ApplyPreset(head.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped. With no arguments it reads ./.env.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays DRIFTFIELD_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvMode); ok && v != "" {
		m, err := field.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMode, err)
		}
		c.Mode = m
	}
	if v, ok := os.LookupEnv(EnvData); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvFPS); ok && v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFPS, err)
		}
		c.FPS = fps
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("surface size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", c.Scale)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	return nil
}
