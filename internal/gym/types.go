package gym

import (
	"fmt"
	"math"
	"math/rand"
)

type Observation []float64

func (o Observation) Clone() Observation {
	c := make(Observation, len(o))
	copy(c, o)
	return c
}

func (o Observation) IsValid() bool {
	for _, v := range o {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Action int

func (a Action) String() string {
	return fmt.Sprintf("action(%d)", int(a))
}

// Info carries free-form per-step diagnostics.
type Info map[string]any

func (i Info) Clone() Info {
	if i == nil {
		return nil
	}
	c := make(Info, len(i))
	for k, v := range i {
		c[k] = v
	}
	return c
}

// Transition is the outcome of one Step.
type Transition struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Done reports whether the episode ended, either naturally or by truncation.
func (t Transition) Done() bool {
	return t.Terminated || t.Truncated
}

// Environment is the capability set the driver needs. A nil seed on Reset
// leaves the environment's random state untouched.
type Environment interface {
	Reset(seed *int64) (Observation, Info, error)
	Step(a Action) (Transition, error)
	SampleAction() (Action, error)
	Render() error
	Close() error
}

// Discrete is the action space {0, 1, ..., N-1}.
type Discrete struct {
	N int
}

func (d Discrete) Sample(rng *rand.Rand) (Action, error) {
	if d.N <= 0 {
		return 0, ErrEmptySpace
	}
	return Action(rng.Intn(d.N)), nil
}

func (d Discrete) Contains(a Action) bool {
	return a >= 0 && int(a) < d.N
}

func (d Discrete) Check(a Action) error {
	if d.Contains(a) {
		return nil
	}
	return &ActionError{Action: a, Space: d, Wrapped: ErrInvalidAction}
}

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// Seed returns a pointer to v, for passing literal seeds to Reset.
func Seed(v int64) *int64 {
	return &v
}
