package envs

import (
	"math"
	"testing"
)

type oscillator struct{}

func (o *oscillator) Derive(x State, u Control, t float64) State {
	return State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	sys := &oscillator{}
	integ := NewRK4()

	x := State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK45Accuracy(t *testing.T) {
	sys := &oscillator{}
	integ := NewRK45()

	x := State{1.0, 0.0}
	dt := 0.05
	steps := 40

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-5 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-5 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", x[1], expectedV)
	}
}

func TestRK45DoesNotMutateInput(t *testing.T) {
	x := State{0.5, -0.2}
	NewRK45().Step(&oscillator{}, x, nil, 0, 0.1)

	if x[0] != 0.5 || x[1] != -0.2 {
		t.Errorf("input state modified: %v", x)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	x := NewEuler().Step(&oscillator{}, State{1.0, 0.0}, nil, 0, 0.1)

	if x[0] != 1.0 || math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("unexpected euler step: %v", x)
	}
}

func TestNewIntegrator(t *testing.T) {
	for _, name := range []string{"euler", "rk4", "rk45"} {
		if _, err := NewIntegrator(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := NewIntegrator("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
