package config

import "sort"

func seed(v int64) *int64 { return &v }

var Presets = map[string]map[string]*Config{
	"cartpole": {
		"smoke": {
			Env: "cartpole", Steps: 100, Seed: seed(0), Integrator: "euler",
		},
		"long": {
			Env: "cartpole", Steps: 5000, Integrator: "euler", MaxEpisodeSteps: 500,
		},
		"watch": {
			Env: "cartpole", Steps: 300, Seed: seed(42), Integrator: "rk4", Render: RenderASCII, FPS: 50,
		},
	},
	"pendulum": {
		"smoke": {
			Env: "pendulum", Steps: 200, Seed: seed(0), Integrator: "rk4",
		},
		"short-episodes": {
			Env: "pendulum", Steps: 1000, Integrator: "rk4", MaxEpisodeSteps: 50,
		},
		"watch": {
			Env: "pendulum", Steps: 400, Seed: seed(7), Integrator: "rk4", Render: RenderASCII, FPS: 20,
		},
	},
	"spring": {
		"smoke": {
			Env: "spring", Steps: 300, Seed: seed(0), Integrator: "rk4",
		},
		"unbounded": {
			Env: "spring", Steps: 2000, Integrator: "euler", MaxEpisodeSteps: -1,
		},
		"watch": {
			Env: "spring", Steps: 300, Seed: seed(3), Integrator: "rk4", Render: RenderASCII, FPS: 30,
		},
	},
}

// GetPreset returns a full config for the named preset, filling unset
// fields from the defaults. It returns nil when env or preset is unknown.
func GetPreset(env, name string) *Config {
	envPresets, ok := Presets[env]
	if !ok {
		return nil
	}
	p, ok := envPresets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Env = p.Env
	cfg.Steps = p.Steps
	cfg.MaxEpisodeSteps = p.MaxEpisodeSteps
	if p.Seed != nil {
		cfg.Seed = seed(*p.Seed)
	}
	if p.Integrator != "" {
		cfg.Integrator = p.Integrator
	}
	if p.Render != "" {
		cfg.Render = p.Render
	}
	if p.FPS != 0 {
		cfg.FPS = p.FPS
	}
	return cfg
}

func ListPresets(env string) []string {
	envPresets, ok := Presets[env]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(envPresets))
	for name := range envPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
