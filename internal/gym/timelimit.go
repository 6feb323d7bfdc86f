package gym

// TimeLimitKey is set in the step info when TimeLimit ends an episode.
const TimeLimitKey = "TimeLimit.truncated"

// TimeLimit truncates episodes of the wrapped environment after
// MaxEpisodeSteps steps. A limit of zero or less disables truncation.
type TimeLimit struct {
	Environment
	MaxEpisodeSteps int

	elapsed int
	ended   bool
}

func NewTimeLimit(env Environment, maxEpisodeSteps int) *TimeLimit {
	return &TimeLimit{Environment: env, MaxEpisodeSteps: maxEpisodeSteps}
}

func (t *TimeLimit) Reset(seed *int64) (Observation, Info, error) {
	t.elapsed = 0
	t.ended = false
	return t.Environment.Reset(seed)
}

// Step returns ErrNotReset once the limit has truncated the episode, until
// the next Reset.
func (t *TimeLimit) Step(a Action) (Transition, error) {
	if t.ended {
		return Transition{}, ErrNotReset
	}
	tr, err := t.Environment.Step(a)
	if err != nil {
		return tr, err
	}
	t.elapsed++
	if t.MaxEpisodeSteps > 0 && t.elapsed >= t.MaxEpisodeSteps {
		if !tr.Truncated {
			tr.Info = tr.Info.Clone()
			if tr.Info == nil {
				tr.Info = Info{}
			}
			tr.Info[TimeLimitKey] = !tr.Terminated
		}
		tr.Truncated = true
		t.ended = true
	}
	return tr, nil
}

// Elapsed is the number of steps taken in the current episode.
func (t *TimeLimit) Elapsed() int { return t.elapsed }

// Unwrap returns the wrapped environment.
func (t *TimeLimit) Unwrap() Environment { return t.Environment }
