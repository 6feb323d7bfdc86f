package envs

import (
	"math"

	"github.com/san-kum/randplay/internal/gym"
)

var springForces = []float64{-5, 0, 5}

const springLimit = 3.0

// Spring is a damped spring-mass pushed along a line. Observation is
// [x, v]; the reward is the negative distance to Target.
type Spring struct {
	base

	Mass      float64
	Stiffness float64
	Damping   float64
	Target    float64
}

func NewSpring(opts Options) *Spring {
	s := &Spring{
		Mass:      1.0,
		Stiffness: 10.0,
		Damping:   0.5,
		Target:    1.0,
	}
	opts = opts.withIntegrator("rk4")
	s.base = newBase("spring", gym.Discrete{N: len(springForces)}, s, 0.05, opts)
	return s
}

func (s *Spring) StateDim() int { return 2 }

func (s *Spring) Derive(x State, u Control, t float64) State {
	extForce := 0.0
	if len(u) > 0 {
		extForce = u[0]
	}
	acc := (-s.Stiffness*x[0] - s.Damping*x[1] + extForce) / s.Mass
	return State{x[1], acc}
}

func (s *Spring) Energy(x State) float64 {
	return 0.5*s.Mass*x[1]*x[1] + 0.5*s.Stiffness*x[0]*x[0]
}

func (s *Spring) Reset(seed *int64) (gym.Observation, gym.Info, error) {
	if err := s.begin(seed); err != nil {
		return nil, nil, err
	}
	s.x = State{s.uniform(-0.5, 0.5), 0}
	return s.observation(), gym.Info{"energy": s.Energy(s.x)}, nil
}

func (s *Spring) Step(a gym.Action) (gym.Transition, error) {
	if err := s.checkStep(a); err != nil {
		return gym.Transition{}, err
	}

	s.advance(Control{springForces[a]})

	terminated := math.Abs(s.x[0]) > springLimit
	reward := -math.Abs(s.x[0] - s.Target)
	return s.finish(reward, terminated, gym.Info{"energy": s.Energy(s.x)}), nil
}
