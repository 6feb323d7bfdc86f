package envs

import "math"

// Dormand-Prince 5(4) tableau.
var (
	dpA = [6]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1}
	dpB = [6][5]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
	}
	dpC = [6]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0}
	dpE = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

const rk45MaxSubsteps = 1000

// RK45 covers each dt with as many adaptive Dormand-Prince substeps as the
// tolerance requires. The substep size carries over between calls.
type RK45 struct {
	Tol      float64
	safety   float64
	minScale float64
	maxScale float64
	h        float64
	k        [7]State
	scratch  State
}

func NewRK45() *RK45 {
	return &RK45{
		Tol:      1e-6,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) ensureScratch(n int) {
	if len(r.scratch) != n {
		for i := range r.k {
			r.k[i] = make(State, n)
		}
		r.scratch = make(State, n)
	}
}

func (r *RK45) Step(sys System, x State, u Control, t, dt float64) State {
	r.ensureScratch(len(x))

	h := r.h
	if h <= 0 || h > dt {
		h = dt
	}
	minStep := dt * 1e-6

	cur := make(State, len(x))
	copy(cur, x)
	remaining := dt

	for i := 0; remaining > 0 && i < rk45MaxSubsteps; i++ {
		if h > remaining {
			h = remaining
		}
		next, ratio := r.attempt(sys, cur, u, t, h)
		scale := r.scale(ratio)
		if ratio > 1 && h > minStep {
			h *= scale
			continue
		}
		cur = next
		t += h
		remaining -= h
		r.h = h
		h *= scale
	}

	return cur
}

// attempt takes one substep and returns the new state with its error
// relative to the tolerance.
func (r *RK45) attempt(sys System, x State, u Control, t, h float64) (State, float64) {
	n := len(x)

	copy(r.k[0], sys.Derive(x, u, t))
	for s := 1; s < 6; s++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dpB[s][j] * r.k[j][i]
			}
			r.scratch[i] = x[i] + h*sum
		}
		copy(r.k[s], sys.Derive(r.scratch, u, t+dpA[s]*h))
	}

	next := make(State, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for s := 0; s < 6; s++ {
			sum += dpC[s] * r.k[s][i]
		}
		next[i] = x[i] + h*sum
	}
	copy(r.k[6], sys.Derive(next, u, t+h))

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s := 0; s < 7; s++ {
			est += dpE[s] * r.k[s][i]
		}
		est *= h
		scale := math.Abs(x[i]) + math.Abs(h*r.k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(est)/scale)
	}

	return next, errMax / r.Tol
}

func (r *RK45) scale(ratio float64) float64 {
	switch {
	case ratio > 1:
		return math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		return math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		return r.maxScale
	}
}
