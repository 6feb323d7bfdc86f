package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEnv        = "cartpole"
	DefaultSteps      = 500
	DefaultIntegrator = "euler"
	DefaultRender     = RenderNone
	DefaultFPS        = 30
	DefaultDataDir    = ".randplay"
	DefaultLogLevel   = "info"

	RenderNone  = "none"
	RenderASCII = "ascii"

	envPrefix = "RANDPLAY_"
)

var (
	ErrNegativeSteps = errors.New("config: steps must be non-negative")
	ErrInvalidFPS    = errors.New("config: fps must be positive")
	ErrRenderMode    = errors.New("config: unknown render mode")
)

type Config struct {
	Env             string        `yaml:"env"`
	Steps           int           `yaml:"steps"`
	Seed            *int64        `yaml:"seed,omitempty"`
	MaxEpisodeSteps int           `yaml:"max_episode_steps"`
	Integrator      string        `yaml:"integrator"`
	Render          string        `yaml:"render"`
	FPS             int           `yaml:"fps"`
	Timeout         time.Duration `yaml:"timeout"`
	DataDir         string        `yaml:"data_dir"`
	Log             LogConfig     `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Env:        DefaultEnv,
		Steps:      DefaultSteps,
		Integrator: DefaultIntegrator,
		Render:     DefaultRender,
		FPS:        DefaultFPS,
		DataDir:    DefaultDataDir,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// ApplyEnv overrides fields from RANDPLAY_* variables found through lookup.
// An empty RANDPLAY_SEED clears the seed.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("ENV", &c.Env)
	str("INTEGRATOR", &c.Integrator)
	str("RENDER", &c.Render)
	str("DATA_DIR", &c.DataDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)

	if err := num("STEPS", &c.Steps); err != nil {
		return err
	}
	if err := num("MAX_EPISODE_STEPS", &c.MaxEpisodeSteps); err != nil {
		return err
	}
	if err := num("FPS", &c.FPS); err != nil {
		return err
	}

	if v, ok := lookup(envPrefix + "SEED"); ok {
		if v == "" {
			c.Seed = nil
		} else {
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%sSEED: %w", envPrefix, err)
			}
			c.Seed = &seed
		}
	}

	if v, ok := lookup(envPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Steps < 0 {
		return ErrNegativeSteps
	}
	if c.FPS <= 0 {
		return ErrInvalidFPS
	}
	switch c.Render {
	case RenderNone, RenderASCII:
	default:
		return fmt.Errorf("%w: %q", ErrRenderMode, c.Render)
	}
	return nil
}
