package envs

import (
	"fmt"
	"sort"

	"github.com/san-kum/randplay/internal/gym"
	"github.com/san-kum/randplay/internal/render"
)

// Options configure environment construction.
type Options struct {
	// MaxEpisodeSteps overrides the environment's default time limit.
	// Zero keeps the default; a negative value disables truncation.
	MaxEpisodeSteps int
	// Integrator names the ODE stepper ("euler", "rk4" or "rk45"). Empty selects
	// the environment's default.
	Integrator string
	// Renderer receives a frame on every Render call. Nil renders nothing.
	Renderer *render.Renderer
	// ActionSeed seeds action sampling. Nil seeds from the clock.
	ActionSeed *int64

	integrator Integrator
}

func (o Options) withIntegrator(fallback string) Options {
	if o.integrator != nil {
		return o
	}
	name := o.Integrator
	if name == "" {
		name = fallback
	}
	integ, err := NewIntegrator(name)
	if err != nil {
		integ, _ = NewIntegrator(fallback)
	}
	o.integrator = integ
	return o
}

// Spec describes a registered environment.
type Spec struct {
	Name            string
	Description     string
	Actions         int
	MaxEpisodeSteps int
	New             func(Options) gym.Environment
}

type Registry struct {
	specs map[string]Spec
}

func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]Spec)}

	r.Register(Spec{
		Name:            "cartpole",
		Description:     "balance a pole on a cart (push left/right)",
		Actions:         2,
		MaxEpisodeSteps: 500,
		New:             func(o Options) gym.Environment { return NewCartPole(o) },
	})
	r.Register(Spec{
		Name:            "pendulum",
		Description:     "swing a damped pendulum upright (torque -2/0/+2)",
		Actions:         len(pendulumTorques),
		MaxEpisodeSteps: 200,
		New:             func(o Options) gym.Environment { return NewPendulum(o) },
	})
	r.Register(Spec{
		Name:            "spring",
		Description:     "push a spring-mass to x=1 (force -5/0/+5)",
		Actions:         len(springForces),
		MaxEpisodeSteps: 300,
		New:             func(o Options) gym.Environment { return NewSpring(o) },
	})

	return r
}

func (r *Registry) Register(spec Spec) {
	r.specs[spec.Name] = spec
}

// Make builds the named environment wrapped in its time limit.
func (r *Registry) Make(name string, opts Options) (gym.Environment, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("unknown environment: %s", name)
	}
	if opts.Integrator != "" {
		integ, err := NewIntegrator(opts.Integrator)
		if err != nil {
			return nil, err
		}
		opts.integrator = integ
	}

	env := spec.New(opts)

	limit := spec.MaxEpisodeSteps
	if opts.MaxEpisodeSteps != 0 {
		limit = opts.MaxEpisodeSteps
	}
	if limit < 0 {
		return env, nil
	}
	return gym.NewTimeLimit(env, limit), nil
}

func (r *Registry) Get(name string) (Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// List returns the registered environments sorted by name.
func (r *Registry) List() []Spec {
	specs := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}
