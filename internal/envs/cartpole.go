package envs

import (
	"math"

	"github.com/san-kum/randplay/internal/gym"
)

const (
	cartPoleXLimit     = 2.4
	cartPoleThetaLimit = 12 * 2 * math.Pi / 360
)

// CartPole is the classic pole-balancing task. Observation is
// [x, x_dot, theta, theta_dot]; actions push the cart left (0) or right (1).
type CartPole struct {
	base

	CartMass   float64
	PoleMass   float64
	HalfLength float64
	Gravity    float64
	ForceMag   float64
}

func NewCartPole(opts Options) *CartPole {
	c := &CartPole{
		CartMass:   1.0,
		PoleMass:   0.1,
		HalfLength: 0.5,
		Gravity:    9.8,
		ForceMag:   10.0,
	}
	opts = opts.withIntegrator("euler")
	c.base = newBase("cartpole", gym.Discrete{N: 2}, c, 0.02, opts)
	return c
}

func (c *CartPole) StateDim() int {
	return 4
}

func (c *CartPole) Derive(x State, u Control, t float64) State {
	vel := x[1]
	theta := x[2]
	omega := x[3]

	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}

	mc := c.CartMass
	mp := c.PoleMass
	l := c.HalfLength
	g := c.Gravity

	sint := math.Sin(theta)
	cost := math.Cos(theta)

	temp := (force + mp*l*omega*omega*sint) / (mc + mp)
	thetaacc := (g*sint - cost*temp) / (l * (4.0/3.0 - mp*cost*cost/(mc+mp)))
	xacc := temp - mp*l*thetaacc*cost/(mc+mp)

	return State{vel, xacc, omega, thetaacc}
}

func (c *CartPole) Reset(seed *int64) (gym.Observation, gym.Info, error) {
	if err := c.begin(seed); err != nil {
		return nil, nil, err
	}
	c.x = State{
		c.uniform(-0.05, 0.05),
		c.uniform(-0.05, 0.05),
		c.uniform(-0.05, 0.05),
		c.uniform(-0.05, 0.05),
	}
	return c.observation(), gym.Info{}, nil
}

func (c *CartPole) Step(a gym.Action) (gym.Transition, error) {
	if err := c.checkStep(a); err != nil {
		return gym.Transition{}, err
	}

	force := -c.ForceMag
	if a == 1 {
		force = c.ForceMag
	}
	c.advance(Control{force})

	terminated := math.Abs(c.x[0]) > cartPoleXLimit || math.Abs(c.x[2]) > cartPoleThetaLimit
	return c.finish(1.0, terminated, nil), nil
}
