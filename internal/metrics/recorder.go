package metrics

import (
	"github.com/san-kum/randplay/internal/gym"
)

// Record is one driven step.
type Record struct {
	Step       int
	Episode    int
	Reward     float64
	Terminated bool
	Truncated  bool
}

// Recorder keeps every transition it observes and feeds its metrics.
// It satisfies driver.Observer.
type Recorder struct {
	metrics []Metric
	records []Record
	episode int
}

func NewRecorder(metrics ...Metric) *Recorder {
	return &Recorder{metrics: metrics, records: make([]Record, 0)}
}

func (r *Recorder) OnStep(step int, t gym.Transition) {
	r.records = append(r.records, Record{
		Step:       step,
		Episode:    r.episode,
		Reward:     t.Reward,
		Terminated: t.Terminated,
		Truncated:  t.Truncated,
	})
	for _, m := range r.metrics {
		m.Observe(t)
	}
	if t.Done() {
		r.episode++
	}
}

func (r *Recorder) Records() []Record { return r.records }

// Summary returns each metric's value keyed by name.
func (r *Recorder) Summary() map[string]float64 {
	out := make(map[string]float64, len(r.metrics)+1)
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	out["steps"] = float64(len(r.records))
	return out
}

func (r *Recorder) Reset() {
	r.records = r.records[:0]
	r.episode = 0
	for _, m := range r.metrics {
		m.Reset()
	}
}

// EpisodeReturns sums rewards per episode. A trailing unfinished episode
// is included.
func EpisodeReturns(records []Record) []float64 {
	returns := make([]float64, 0)
	open := false
	for _, rec := range records {
		if !open {
			returns = append(returns, 0)
			open = true
		}
		returns[len(returns)-1] += rec.Reward
		if rec.Terminated || rec.Truncated {
			open = false
		}
	}
	return returns
}
