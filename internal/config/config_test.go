package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Env != "cartpole" {
		t.Errorf("expected env cartpole, got %s", cfg.Env)
	}
	if cfg.Seed != nil {
		t.Error("default config should be unseeded")
	}
	if cfg.Render != RenderNone {
		t.Errorf("expected render none, got %s", cfg.Render)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "randplay.yaml")

	cfg := DefaultConfig()
	cfg.Env = "pendulum"
	cfg.Seed = seed(42)
	cfg.Timeout = 3 * time.Second
	cfg.Log.File = "run.log"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Env != "pendulum" {
		t.Errorf("expected env pendulum, got %s", loaded.Env)
	}
	if loaded.Seed == nil || *loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %v", loaded.Seed)
	}
	if loaded.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", loaded.Timeout)
	}
	if loaded.Log.File != "run.log" {
		t.Errorf("expected log file run.log, got %q", loaded.Log.File)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "short-episodes")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.MaxEpisodeSteps != 50 {
		t.Errorf("expected max episode steps 50, got %d", cfg.MaxEpisodeSteps)
	}
	if cfg.FPS != DefaultFPS || cfg.DataDir != DefaultDataDir {
		t.Error("preset should inherit defaults")
	}

	a := GetPreset("cartpole", "smoke")
	*a.Seed = 99
	b := GetPreset("cartpole", "smoke")
	if *b.Seed != 0 {
		t.Error("preset seed should not be shared between calls")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "smoke") != nil {
		t.Error("expected nil for nonexistent env")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("spring")
	if len(presets) != 3 || presets[0] != "smoke" {
		t.Errorf("unexpected presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent env")
	}
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		"RANDPLAY_ENV":               "spring",
		"RANDPLAY_STEPS":             "42",
		"RANDPLAY_SEED":              "7",
		"RANDPLAY_MAX_EPISODE_STEPS": "-1",
		"RANDPLAY_RENDER":            "ascii",
		"RANDPLAY_TIMEOUT":           "1m",
		"RANDPLAY_LOG_LEVEL":         "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}

	if cfg.Env != "spring" || cfg.Steps != 42 || cfg.MaxEpisodeSteps != -1 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Seed == nil || *cfg.Seed != 7 {
		t.Errorf("expected seed 7, got %v", cfg.Seed)
	}
	if cfg.Render != RenderASCII || cfg.Timeout != time.Minute || cfg.Log.Level != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Integrator != DefaultIntegrator {
		t.Error("unset variables should leave fields alone")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"RANDPLAY_STEPS", "many"},
		{"RANDPLAY_SEED", "x"},
		{"RANDPLAY_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		err := cfg.ApplyEnv(func(k string) (string, bool) {
			if k == tt.key {
				return tt.value, true
			}
			return "", false
		})
		if err == nil {
			t.Errorf("%s=%s: expected error", tt.key, tt.value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative steps", func(c *Config) { c.Steps = -1 }, ErrNegativeSteps},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrInvalidFPS},
		{"bad render", func(c *Config) { c.Render = "gif" }, ErrRenderMode},
		{"zero steps", func(c *Config) { c.Steps = 0 }, nil},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}
