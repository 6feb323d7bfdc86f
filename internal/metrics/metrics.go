package metrics

import (
	"github.com/san-kum/randplay/internal/gym"
)

type Metric interface {
	Name() string
	Observe(t gym.Transition)
	Value() float64
	Reset()
}

func DefaultMetrics() []Metric {
	return []Metric{
		NewTotalReward(),
		NewEpisodes(),
		NewMeanReturn(),
		NewMaxEpisodeLength(),
		NewTerminationRate(),
	}
}

type TotalReward struct {
	sum float64
}

func NewTotalReward() *TotalReward { return &TotalReward{} }

func (m *TotalReward) Name() string             { return "total_reward" }
func (m *TotalReward) Observe(t gym.Transition) { m.sum += t.Reward }
func (m *TotalReward) Value() float64           { return m.sum }
func (m *TotalReward) Reset()                   { m.sum = 0 }

// Episodes counts episodes that ended by termination or truncation.
type Episodes struct {
	count int
}

func NewEpisodes() *Episodes { return &Episodes{} }

func (m *Episodes) Name() string { return "episodes" }

func (m *Episodes) Observe(t gym.Transition) {
	if t.Done() {
		m.count++
	}
}

func (m *Episodes) Value() float64 { return float64(m.count) }
func (m *Episodes) Reset()         { m.count = 0 }

// MeanReturn averages the undiscounted return of completed episodes.
type MeanReturn struct {
	current float64
	total   float64
	count   int
}

func NewMeanReturn() *MeanReturn { return &MeanReturn{} }

func (m *MeanReturn) Name() string { return "mean_return" }

func (m *MeanReturn) Observe(t gym.Transition) {
	m.current += t.Reward
	if t.Done() {
		m.total += m.current
		m.count++
		m.current = 0
	}
}

func (m *MeanReturn) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.total / float64(m.count)
}

func (m *MeanReturn) Reset() {
	m.current = 0
	m.total = 0
	m.count = 0
}

// MaxEpisodeLength tracks the longest episode seen, including the one in
// progress.
type MaxEpisodeLength struct {
	current int
	max     int
}

func NewMaxEpisodeLength() *MaxEpisodeLength { return &MaxEpisodeLength{} }

func (m *MaxEpisodeLength) Name() string { return "max_episode_length" }

func (m *MaxEpisodeLength) Observe(t gym.Transition) {
	m.current++
	if m.current > m.max {
		m.max = m.current
	}
	if t.Done() {
		m.current = 0
	}
}

func (m *MaxEpisodeLength) Value() float64 { return float64(m.max) }

func (m *MaxEpisodeLength) Reset() {
	m.current = 0
	m.max = 0
}

// TerminationRate is the fraction of ended episodes that terminated
// naturally rather than by truncation.
type TerminationRate struct {
	terminated int
	ended      int
}

func NewTerminationRate() *TerminationRate { return &TerminationRate{} }

func (m *TerminationRate) Name() string { return "termination_rate" }

func (m *TerminationRate) Observe(t gym.Transition) {
	if !t.Done() {
		return
	}
	m.ended++
	if t.Terminated {
		m.terminated++
	}
}

func (m *TerminationRate) Value() float64 {
	if m.ended == 0 {
		return 0
	}
	return float64(m.terminated) / float64(m.ended)
}

func (m *TerminationRate) Reset() {
	m.terminated = 0
	m.ended = 0
}
