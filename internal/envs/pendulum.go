package envs

import (
	"math"

	"github.com/san-kum/randplay/internal/gym"
)

// pendulumTorques maps actions to applied torque in N·m.
var pendulumTorques = []float64{-2, 0, 2}

// Pendulum is a damped pendulum. Observation is [theta, omega] with theta
// measured from the downward rest position. It never terminates; episodes
// end by time limit.
type Pendulum struct {
	base

	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum(opts Options) *Pendulum {
	p := &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
	opts = opts.withIntegrator("rk4")
	p.base = newBase("pendulum", gym.Discrete{N: len(pendulumTorques)}, p, 0.05, opts)
	return p
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x State, u Control, t float64) State {
	theta := x[0]
	omega := x[1]

	torque := 0.0
	if len(u) > 0 {
		torque = u[0]
	}
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta) + torque) / (p.Mass * p.Length * p.Length)

	return State{omega, alpha}
}

func (p *Pendulum) Energy(x State) float64 {
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *Pendulum) Reset(seed *int64) (gym.Observation, gym.Info, error) {
	if err := p.begin(seed); err != nil {
		return nil, nil, err
	}
	p.x = State{p.uniform(-math.Pi, math.Pi), p.uniform(-1, 1)}
	return p.observation(), gym.Info{"energy": p.Energy(p.x)}, nil
}

// Step rewards keeping the pendulum upright (theta = ±pi) and still.
func (p *Pendulum) Step(a gym.Action) (gym.Transition, error) {
	if err := p.checkStep(a); err != nil {
		return gym.Transition{}, err
	}

	torque := pendulumTorques[a]
	p.advance(Control{torque})

	up := angleNormalize(p.x[0] - math.Pi)
	cost := up*up + 0.1*p.x[1]*p.x[1] + 0.001*torque*torque

	return p.finish(-cost, false, gym.Info{"energy": p.Energy(p.x)}), nil
}

// angleNormalize wraps x into [-pi, pi).
func angleNormalize(x float64) float64 {
	return math.Mod(math.Mod(x+math.Pi, 2*math.Pi)+2*math.Pi, 2*math.Pi) - math.Pi
}
