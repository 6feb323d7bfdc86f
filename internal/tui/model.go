// Package tui is the Bubble Tea live view for a random play. The driver
// runs in its own goroutine and reports through messages.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/randplay/internal/driver"
	"github.com/san-kum/randplay/internal/gym"
	"github.com/san-kum/randplay/internal/progress"
	"github.com/san-kum/randplay/internal/render"
)

const historyCapacity = 600

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// StepMsg carries one driver step.
type StepMsg struct {
	Step       int
	Transition gym.Transition
}

// FrameMsg carries a rendered environment frame.
type FrameMsg string

// DoneMsg reports that the driver returned and the environment is closed.
type DoneMsg struct {
	Err error
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards every step to the program.
func Observer(s Sender) driver.Observer {
	return driver.ObserverFunc(func(step int, t gym.Transition) {
		s.Send(StepMsg{Step: step, Transition: t})
	})
}

// Sink forwards rendered frames to the program.
func Sink(s Sender) render.Sink {
	return render.SinkFunc(func(frame string) error {
		s.Send(FrameMsg(frame))
		return nil
	})
}

type Model struct {
	env    string
	total  int
	cancel context.CancelFunc

	steps      int
	episode    int
	epReturn   float64
	returns    []float64
	rewards    []float64
	last       gym.Transition
	frame      string
	stopping   bool
	done       bool
	err        error
	terminated int
	truncated  int
}

// NewModel builds the view for a play of total steps on env. cancel is
// called when the user quits.
func NewModel(env string, total int, cancel context.CancelFunc) Model {
	return Model{
		env:     env,
		total:   total,
		cancel:  cancel,
		returns: make([]float64, 0),
		rewards: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			if !m.stopping {
				m.stopping = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
	case StepMsg:
		m.observe(msg.Transition)
	case FrameMsg:
		m.frame = string(msg)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) observe(t gym.Transition) {
	m.steps++
	m.last = t
	m.epReturn += t.Reward

	m.rewards = append(m.rewards, t.Reward)
	if len(m.rewards) > historyCapacity {
		m.rewards = m.rewards[1:]
	}

	if t.Terminated {
		m.terminated++
	}
	if t.Truncated && !t.Terminated {
		m.truncated++
	}
	if t.Done() {
		m.returns = append(m.returns, m.epReturn)
		if len(m.returns) > historyCapacity {
			m.returns = m.returns[1:]
		}
		m.epReturn = 0
		m.episode++
	}
}

func (m Model) Steps() int         { return m.steps }
func (m Model) Episodes() int      { return m.episode }
func (m Model) Err() error         { return m.err }
func (m Model) Stopping() bool     { return m.stopping }
func (m Model) Done() bool         { return m.done }
func (m Model) Returns() []float64 { return m.returns }

func (m Model) status() string {
	switch {
	case m.done && m.err != nil:
		return red.Render("●") + " " + red.Render("failed")
	case m.done:
		return green.Render("●") + " " + green.Render("finished")
	case m.stopping:
		return yellow.Render("○") + " " + yellow.Render("stopping")
	default:
		return green.Render("●") + " " + green.Render("running")
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n   %s  %s\n", cyan.Render(m.env), m.status()))

	percent := 1.0
	if m.total > 0 {
		percent = float64(m.steps) / float64(m.total)
	}
	b.WriteString(fmt.Sprintf("   %s %s\n\n",
		progress.Meter(percent, 36),
		dim.Render(fmt.Sprintf("%d/%d", m.steps, m.total))))

	if m.frame != "" {
		for _, row := range strings.Split(strings.TrimRight(m.frame, "\n"), "\n") {
			b.WriteString("   " + row + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("   %s %s  %s %s  %s %s  %s %s\n",
		dim.Render("episode"), white.Render(fmt.Sprintf("%d", m.episode)),
		dim.Render("reward"), white.Render(fmt.Sprintf("%.4g", m.last.Reward)),
		dim.Render("terminated"), white.Render(fmt.Sprintf("%d", m.terminated)),
		dim.Render("truncated"), white.Render(fmt.Sprintf("%d", m.truncated))))
	b.WriteString("   " + dim.Render("rewards ") + progress.Sparkline(m.rewards, 40) + "\n")
	if len(m.last.Info) > 0 {
		b.WriteString("   " + dim.Render("info ") + progress.FormatInfo(m.last.Info) + "\n")
	}

	if len(m.returns) > 1 {
		chart := asciigraph.Plot(m.returns, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("episode return"))
		b.WriteString("\n" + chart + "\n")
	}

	if m.err != nil {
		b.WriteString("\n   " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n   " + dim.Render("q quit") + "\n")
	return b.String()
}
