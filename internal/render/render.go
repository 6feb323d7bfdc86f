// Package render draws environment state as ASCII frames.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const (
	Width  = 70
	Height = 20

	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Frame is the state of an environment at one rendered step.
type Frame struct {
	Env         string
	State       []float64
	Time        float64
	Episode     int
	EpisodeStep int
}

// Sink receives finished frames.
type Sink interface {
	Show(frame string) error
}

type SinkFunc func(frame string) error

func (f SinkFunc) Show(frame string) error { return f(frame) }

type discard struct{}

func (discard) Show(string) error { return nil }

// Discard drops every frame.
var Discard Sink = discard{}

// Renderer rasterizes frames onto a character canvas and passes the text
// to its sink.
type Renderer struct {
	sink   Sink
	canvas [][]rune
	trail  []struct{ x, y int }
	env    string
}

func New(sink Sink) *Renderer {
	if sink == nil {
		sink = Discard
	}
	canvas := make([][]rune, Height)
	for i := range canvas {
		canvas[i] = make([]rune, Width)
	}
	return &Renderer{
		sink:   sink,
		canvas: canvas,
		trail:  make([]struct{ x, y int }, 0, 50),
	}
}

// Render draws f and hands it to the sink.
func (r *Renderer) Render(f Frame) error {
	if r.env != f.Env || f.EpisodeStep == 0 {
		r.trail = r.trail[:0]
		r.env = f.Env
	}
	return r.sink.Show(r.Draw(f))
}

// Draw returns the text of f without sending it anywhere.
func (r *Renderer) Draw(f Frame) string {
	r.clear()

	switch f.Env {
	case "pendulum":
		r.drawPendulum(f.State)
	case "cartpole":
		r.drawCartpole(f.State)
	case "spring":
		r.drawSpring(f.State)
	default:
		r.drawGeneric(f.State)
	}

	return r.text(f)
}

func (r *Renderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *Renderer) set(x, y int, c rune) {
	if x >= 0 && x < Width && y >= 0 && y < Height {
		r.canvas[y][x] = c
	}
}

func (r *Renderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *Renderer) pushTrail(x, y, max int) {
	r.trail = append(r.trail, struct{ x, y int }{x, y})
	if len(r.trail) > max {
		r.trail = r.trail[1:]
	}
}

func (r *Renderer) drawPendulum(x []float64) {
	if len(x) < 2 {
		return
	}
	theta := x[0]
	px, py := Width/2, Height/2
	length := 8.0
	bx := px + int(length*math.Sin(theta)*2)
	by := py + int(length*math.Cos(theta))

	r.pushTrail(bx, by, 40)
	for i, pt := range r.trail {
		if i < len(r.trail)/2 {
			r.set(pt.x, pt.y, '.')
		} else {
			r.set(pt.x, pt.y, 'o')
		}
	}

	r.set(px, py, '+')
	r.line(px, py, bx, by, '|')
	r.set(bx, by, 'O')
}

func (r *Renderer) drawCartpole(x []float64) {
	if len(x) < 4 {
		return
	}
	pos, theta := x[0], x[2]
	gy := Height - 4
	cx := Width/2 + int(pos*12)

	for i := 5; i < Width-5; i++ {
		r.set(i, gy+1, '=')
	}
	// track limits at |x| = 2.4
	r.set(Width/2-29, gy, '|')
	r.set(Width/2+29, gy, '|')
	for dx := -3; dx <= 3; dx++ {
		r.set(cx+dx, gy, '#')
	}

	plen := 10.0
	px := cx + int(plen*math.Sin(theta))
	py := gy - int(plen*math.Cos(theta))
	r.line(cx, gy-1, px, py, '|')
	r.set(px, py, 'o')
}

func (r *Renderer) drawSpring(x []float64) {
	if len(x) < 2 {
		return
	}
	pos := x[0]
	cy := Height / 2

	for y := cy - 2; y <= cy+2; y++ {
		r.set(5, y, '#')
	}

	mx := Width/2 + int(pos*10)
	for i := 6; i < mx-2; i += 2 {
		r.set(i, cy, '~')
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			r.set(mx+dx, cy+dy, '#')
		}
	}
}

func (r *Renderer) drawGeneric(x []float64) {
	cy := Height / 2
	for i := 5; i < Width-5; i++ {
		r.set(i, cy, '-')
	}

	if len(x) == 0 {
		return
	}

	bw := (Width - 15) / len(x)
	if bw < 3 {
		bw = 3
	}

	maxVal := 1.0
	for _, v := range x {
		if math.Abs(v) > maxVal {
			maxVal = math.Abs(v)
		}
	}

	for i, v := range x {
		bx := 8 + i*bw
		bh := int((v / maxVal) * float64(Height/3))
		if bh > 0 {
			for y := cy - 1; y >= cy-bh && y >= 1; y-- {
				r.set(bx, y, '#')
			}
		} else {
			for y := cy + 1; y <= cy-bh && y < Height-1; y++ {
				r.set(bx, y, '#')
			}
		}
	}
}

func (r *Renderer) text(f Frame) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s  episode=%d step=%d t=%.2fs\n", f.Env, f.Episode, f.EpisodeStep, f.Time))
	b.WriteString("  " + strings.Repeat("-", Width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", Width) + "\n")

	stateStr := "  "
	for i, v := range f.State {
		if i >= 4 {
			break
		}
		stateStr += fmt.Sprintf("x%d=%.2f ", i, v)
	}
	b.WriteString(stateStr + "\n")

	return b.String()
}

// Terminal repaints frames on w, dropping frames that arrive faster than
// the frame rate. A frame rate of zero or less paints every frame.
type Terminal struct {
	w         io.Writer
	frameRate int
	lastFrame time.Time
}

func NewTerminal(w io.Writer, frameRate int) *Terminal {
	return &Terminal{w: w, frameRate: frameRate}
}

func (t *Terminal) Show(frame string) error {
	if t.frameRate > 0 && time.Since(t.lastFrame) < time.Second/time.Duration(t.frameRate) {
		return nil
	}
	t.lastFrame = time.Now()
	_, err := io.WriteString(t.w, clearScreen+frame)
	return err
}

// Paced blocks each frame until a full frame interval has passed since the
// previous one, then forwards it. Wrapping a sink this way holds the
// environment to fps steps per second.
type Paced struct {
	sink     Sink
	interval time.Duration
	next     time.Time
	sleep    func(time.Duration)
	now      func() time.Time
}

func NewPaced(sink Sink, fps int) *Paced {
	if fps <= 0 {
		fps = 30
	}
	return &Paced{
		sink:     sink,
		interval: time.Second / time.Duration(fps),
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

func (p *Paced) Show(frame string) error {
	now := p.now()
	if wait := p.next.Sub(now); wait > 0 {
		p.sleep(wait)
		now = now.Add(wait)
	}
	p.next = now.Add(p.interval)
	return p.sink.Show(frame)
}

func (t *Terminal) Start() { io.WriteString(t.w, hideCursor) }
func (t *Terminal) Stop()  { io.WriteString(t.w, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
