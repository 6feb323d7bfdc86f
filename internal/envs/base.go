package envs

import (
	"math/rand"
	"time"

	"github.com/san-kum/randplay/internal/gym"
	"github.com/san-kum/randplay/internal/render"
)

// base holds the bookkeeping shared by every environment: seeding, the
// action space, episode counters and render state.
type base struct {
	name       string
	space      gym.Discrete
	sys        System
	integrator Integrator
	dt         float64

	rng       *rand.Rand
	actionRNG *rand.Rand
	renderer  *render.Renderer

	x           State
	t           float64
	episode     int
	episodeStep int
	ready       bool
	closed      bool
}

func newBase(name string, space gym.Discrete, sys System, dt float64, opts Options) base {
	now := time.Now().UnixNano()
	actionSeed := now + 1
	if opts.ActionSeed != nil {
		actionSeed = *opts.ActionSeed
	}
	return base{
		name:       name,
		space:      space,
		sys:        sys,
		integrator: opts.integrator,
		dt:         dt,
		rng:        rand.New(rand.NewSource(now)),
		actionRNG:  rand.New(rand.NewSource(actionSeed)),
		renderer:   opts.Renderer,
		episode:    -1,
	}
}

// ActionSpace returns the discrete action space.
func (b *base) ActionSpace() gym.Discrete { return b.space }

func (b *base) SampleAction() (gym.Action, error) {
	if b.closed {
		return 0, gym.ErrClosed
	}
	return b.space.Sample(b.actionRNG)
}

// begin reseeds if asked and starts a new episode from x0.
func (b *base) begin(seed *int64) error {
	if b.closed {
		return gym.ErrClosed
	}
	if seed != nil {
		b.rng = rand.New(rand.NewSource(*seed))
	}
	b.t = 0
	b.episode++
	b.episodeStep = 0
	b.ready = true
	return nil
}

// checkStep validates a step request.
func (b *base) checkStep(a gym.Action) error {
	if b.closed {
		return gym.ErrClosed
	}
	if !b.ready {
		return gym.ErrNotReset
	}
	return b.space.Check(a)
}

// advance integrates one timestep under u.
func (b *base) advance(u Control) {
	b.x = b.integrator.Step(b.sys, b.x, u, b.t, b.dt)
	b.t += b.dt
	b.episodeStep++
}

// finish builds the transition and marks the episode over when done.
func (b *base) finish(reward float64, terminated bool, info gym.Info) gym.Transition {
	if info == nil {
		info = gym.Info{}
	}
	info["episode_step"] = b.episodeStep
	if terminated {
		b.ready = false
	}
	return gym.Transition{
		Observation: b.observation(),
		Reward:      reward,
		Terminated:  terminated,
		Info:        info,
	}
}

func (b *base) observation() gym.Observation {
	obs := make(gym.Observation, len(b.x))
	copy(obs, b.x)
	return obs
}

func (b *base) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*b.rng.Float64()
}

func (b *base) Render() error {
	if b.closed {
		return gym.ErrClosed
	}
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Render(render.Frame{
		Env:         b.name,
		State:       b.x,
		Time:        b.t,
		Episode:     b.episode,
		EpisodeStep: b.episodeStep,
	})
}

// Close is idempotent; later calls on the environment fail with ErrClosed.
func (b *base) Close() error {
	b.closed = true
	b.ready = false
	return nil
}
