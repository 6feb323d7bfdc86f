// Package scenario runs scripted batches of random plays from YAML files.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/randplay/internal/driver"
	"github.com/san-kum/randplay/internal/envs"
	"github.com/san-kum/randplay/internal/metrics"
)

var ErrNoPlays = errors.New("scenario: no plays")

// Scenario is an ordered list of plays.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Plays       []Play `yaml:"plays"`
}

// Play is a single driver run inside a scenario.
type Play struct {
	Env             string `yaml:"env"`
	Steps           int    `yaml:"steps"`
	Seed            *int64 `yaml:"seed,omitempty"`
	ActionSeed      *int64 `yaml:"action_seed,omitempty"`
	MaxEpisodeSteps int    `yaml:"max_episode_steps,omitempty"`
	Integrator      string `yaml:"integrator,omitempty"`
}

type Result struct {
	Play        Play
	Records     []metrics.Record
	Summary     map[string]float64
	Interrupted bool
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Plays) == 0 {
		return nil, ErrNoPlays
	}

	return &sc, nil
}

// Runner plays scenarios against a registry.
type Runner struct {
	registry  *envs.Registry
	logger    *slog.Logger
	observers []driver.Observer
}

func NewRunner(registry *envs.Registry, logger *slog.Logger, observers ...driver.Observer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{registry: registry, logger: logger, observers: observers}
}

// RunScenario executes every play in order. A cancelled context stops the
// batch after the current play and is not an error.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]Result, error) {
	results := make([]Result, 0, len(sc.Plays))

	for i, play := range sc.Plays {
		if ctx.Err() != nil {
			r.logger.Info("scenario interrupted", "completed", i, "total", len(sc.Plays))
			break
		}

		r.logger.Info("running play", "play", i+1, "total", len(sc.Plays), "env", play.Env, "steps", play.Steps)

		res, err := r.runPlay(ctx, play)
		if err != nil {
			return results, fmt.Errorf("play %d: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}

func (r *Runner) runPlay(ctx context.Context, play Play) (Result, error) {
	env, err := r.registry.Make(play.Env, envs.Options{
		MaxEpisodeSteps: play.MaxEpisodeSteps,
		Integrator:      play.Integrator,
		ActionSeed:      play.ActionSeed,
	})
	if err != nil {
		return Result{}, err
	}

	rec := metrics.NewRecorder(metrics.DefaultMetrics()...)
	d := driver.New(env, driver.WithLogger(r.logger), driver.WithObserver(rec))
	for _, obs := range r.observers {
		d.AddObserver(obs)
	}

	if err := d.Run(ctx, play.Steps, play.Seed); err != nil {
		return Result{}, err
	}

	return Result{
		Play:        play,
		Records:     rec.Records(),
		Summary:     rec.Summary(),
		Interrupted: ctx.Err() != nil && len(rec.Records()) < play.Steps,
	}, nil
}

// SeedSweep repeats one play across consecutive seeds.
type SeedSweep struct {
	Env             string
	Steps           int
	FirstSeed       int64
	Trials          int
	MaxEpisodeSteps int
	Integrator      string
}

// Scenario expands the sweep into one play per trial. Trial i uses seed
// FirstSeed+i for both the initial state and action sampling.
func (s SeedSweep) Scenario() *Scenario {
	sc := &Scenario{
		Name:  fmt.Sprintf("%s seed sweep", s.Env),
		Plays: make([]Play, 0, s.Trials),
	}
	for i := 0; i < s.Trials; i++ {
		seed := s.FirstSeed + int64(i)
		actionSeed := seed
		sc.Plays = append(sc.Plays, Play{
			Env:             s.Env,
			Steps:           s.Steps,
			Seed:            &seed,
			ActionSeed:      &actionSeed,
			MaxEpisodeSteps: s.MaxEpisodeSteps,
			Integrator:      s.Integrator,
		})
	}
	return sc
}

// SweepStats averages each summary metric across results.
func SweepStats(results []Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r.Summary {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
