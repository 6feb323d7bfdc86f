package driver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/randplay/internal/gym"
)

// ErrNegativeSteps indicates a negative step budget.
var ErrNegativeSteps = errors.New("driver: steps must be non-negative")

// Observer receives every transition, after the step and before render.
type Observer interface {
	OnStep(step int, t gym.Transition)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(step int, t gym.Transition)

func (f ObserverFunc) OnStep(step int, t gym.Transition) { f(step, t) }

type Option func(*Driver)

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observers = append(d.observers, o) }
}

type Driver struct {
	env       gym.Environment
	observers []Observer
	logger    *slog.Logger
}

func New(env gym.Environment, opts ...Option) *Driver {
	d := &Driver{
		env:       env,
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run resets the environment with seed and takes steps random actions.
// Environment errors are returned as-is. A close error is joined with any
// earlier error.
func (d *Driver) Run(ctx context.Context, steps int, seed *int64) (err error) {
	defer func() {
		if cerr := d.env.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if steps < 0 {
		return ErrNegativeSteps
	}

	if _, _, err := d.env.Reset(seed); err != nil {
		return err
	}
	done := false
	episode := 0
	d.logger.Debug("environment reset", "episode", episode, "seeded", seed != nil)

	for i := 0; i < steps; i++ {
		if ctx.Err() != nil {
			d.logger.Debug("interrupted", "step", i, "steps", steps, "cause", context.Cause(ctx))
			return nil
		}

		if done {
			if _, _, err := d.env.Reset(nil); err != nil {
				return err
			}
			done = false
			episode++
			d.logger.Debug("environment reset", "episode", episode, "step", i)
		}

		a, err := d.env.SampleAction()
		if err != nil {
			return err
		}

		tr, err := d.env.Step(a)
		if err != nil {
			return err
		}
		done = tr.Done()

		for _, obs := range d.observers {
			obs.OnStep(i, tr)
		}

		if err := d.env.Render(); err != nil {
			return err
		}
	}

	d.logger.Debug("step budget exhausted", "steps", steps, "episodes", episode+1)
	return nil
}

// PlayRandom drives env for steps random actions, reporting each
// transition to observers.
func PlayRandom(ctx context.Context, env gym.Environment, steps int, seed *int64, observers ...Observer) error {
	d := New(env)
	for _, o := range observers {
		d.AddObserver(o)
	}
	return d.Run(ctx, steps, seed)
}
