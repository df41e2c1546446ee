package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/driftfield/internal/field"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if cfg.Params != field.DefaultParams() {
		t.Error("expected default field params")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftfield.yaml")

	cfg := DefaultConfig()
	cfg.Mode = field.Dark
	cfg.Seed = 99
	cfg.Params.LinkDistance = 90
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Mode != field.Dark || loaded.Seed != 99 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Params.LinkDistance != 90 {
		t.Errorf("expected link distance 90, got %f", loaded.Params.LinkDistance)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("fps: 30\nparams:\n  drift: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 30 || cfg.Params.Drift != 0.5 {
		t.Errorf("overrides not applied: fps=%d drift=%f", cfg.FPS, cfg.Params.Drift)
	}
	if cfg.Width != DefaultWidth || cfg.Params.LinkDistance != field.DefaultLinkDistance {
		t.Error("unset keys should keep defaults")
	}
}

func TestLoadPresetKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.yaml")
	if err := os.WriteFile(path, []byte("preset: storm\nparams:\n  ease: 0.02\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.Drift != 0.8 {
		t.Errorf("expected storm drift 0.8, got %f", cfg.Params.Drift)
	}
	if cfg.Params.Ease != 0.02 {
		t.Errorf("file params should override the preset, got ease %f", cfg.Params.Ease)
	}

	if err := os.WriteFile(path, []byte("preset: hurricane\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("dense")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Params.AreaPerParticle != 7500 {
		t.Errorf("expected area 7500, got %f", p.Params.AreaPerParticle)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"calm", "default", "dense", "storm"}
	got := ListPresets()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("dense"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.Params.Count(800, 600); got != 64 {
		t.Errorf("dense 800x600: expected 64 particles, got %d", got)
	}
	if cfg.Params.LinkDistance != field.DefaultLinkDistance {
		t.Error("preset should keep unset params at default")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSeed, "1234")
	t.Setenv(EnvMode, "dark")
	t.Setenv(EnvData, "/tmp/runs")
	t.Setenv(EnvFPS, "30")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAddr, ":9000")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}

	if cfg.Seed != 1234 || cfg.Mode != field.Dark || cfg.DataDir != "/tmp/runs" ||
		cfg.FPS != 30 || cfg.LogLevel != "debug" || cfg.Addr != ":9000" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvSeed, "abc"},
		{EnvMode, "sepia"},
		{EnvFPS, "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if err := DefaultConfig().ApplyEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DRIFTFIELD_ADDR=:7070\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(EnvAddr); got != ":7070" {
		t.Errorf("expected :7070 from .env, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
