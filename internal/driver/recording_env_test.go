package driver_test

import (
	"github.com/san-kum/randplay/internal/gym"
)

// recordingEnv logs every call so specs can assert the exact call order.
type recordingEnv struct {
	calls     []string
	seeds     []*int64
	terminal  func(step int) bool
	onStep    func(step int)
	stepCount int

	resetErr  error
	sampleErr error
	stepErr   error
	renderErr error
	closeErr  error
	failAt    int
}

func (e *recordingEnv) Reset(seed *int64) (gym.Observation, gym.Info, error) {
	e.calls = append(e.calls, "reset")
	e.seeds = append(e.seeds, seed)
	return gym.Observation{0}, gym.Info{}, e.resetErr
}

func (e *recordingEnv) SampleAction() (gym.Action, error) {
	e.calls = append(e.calls, "sample")
	if e.sampleErr != nil {
		return 0, e.sampleErr
	}
	return gym.Action(e.stepCount % 2), nil
}

func (e *recordingEnv) Step(a gym.Action) (gym.Transition, error) {
	e.calls = append(e.calls, "step")
	e.stepCount++
	if e.stepErr != nil && e.stepCount >= e.failAt {
		return gym.Transition{}, e.stepErr
	}
	tr := gym.Transition{
		Observation: gym.Observation{float64(e.stepCount)},
		Reward:      float64(e.stepCount),
		Info:        gym.Info{"step": e.stepCount},
	}
	if e.terminal != nil {
		tr.Terminated = e.terminal(e.stepCount)
	}
	if e.onStep != nil {
		e.onStep(e.stepCount)
	}
	return tr, nil
}

func (e *recordingEnv) Render() error {
	e.calls = append(e.calls, "render")
	return e.renderErr
}

func (e *recordingEnv) Close() error {
	e.calls = append(e.calls, "close")
	return e.closeErr
}

func (e *recordingEnv) count(call string) int {
	n := 0
	for _, c := range e.calls {
		if c == call {
			n++
		}
	}
	return n
}

// controlCalls drops render calls, leaving the reset/sample/step/close order.
func (e *recordingEnv) controlCalls() []string {
	out := make([]string, 0, len(e.calls))
	for _, c := range e.calls {
		if c != "render" {
			out = append(out, c)
		}
	}
	return out
}

// truncatingEnv ends every episode by truncation rather than termination.
type truncatingEnv struct {
	recordingEnv
}

func (e *truncatingEnv) Step(a gym.Action) (gym.Transition, error) {
	tr, err := e.recordingEnv.Step(a)
	tr.Truncated = true
	return tr, err
}
