// Package progress renders a single-line progress display for random play.
package progress

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/randplay/internal/gym"
)

// eraseLine clears what a longer previous line left behind the cursor.
const eraseLine = "\x1b[K"

const (
	DefaultWidth       = 30
	DefaultMinInterval = 100 * time.Millisecond
)

// Bar prints "pct meter n/total [elapsed<remaining, rate, reward=..,
// info={..}]" on one line, rewriting it in place.
type Bar struct {
	w           io.Writer
	total       int
	width       int
	minInterval time.Duration
	now         func() time.Time

	start    time.Time
	lastDraw time.Time
	frame    int
	drawn    bool
}

type BarOption func(*Bar)

func WithWidth(width int) BarOption {
	return func(b *Bar) { b.width = width }
}

func WithMinInterval(d time.Duration) BarOption {
	return func(b *Bar) { b.minInterval = d }
}

func withClock(now func() time.Time) BarOption {
	return func(b *Bar) { b.now = now }
}

func NewBar(w io.Writer, total int, opts ...BarOption) *Bar {
	b := &Bar{
		w:           w,
		total:       total,
		width:       DefaultWidth,
		minInterval: DefaultMinInterval,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.start = b.now()
	return b
}

// OnStep redraws the line unless the last redraw was too recent. The final
// step always redraws.
func (b *Bar) OnStep(step int, t gym.Transition) {
	n := step + 1
	now := b.now()
	if b.drawn && n < b.total && now.Sub(b.lastDraw) < b.minInterval {
		return
	}
	b.lastDraw = now
	b.drawn = true
	b.frame++
	fmt.Fprint(b.w, "\r"+b.Line(n, t, now)+eraseLine)
}

// Line formats the progress line for n completed steps.
func (b *Bar) Line(n int, t gym.Transition, now time.Time) string {
	percent := 1.0
	if b.total > 0 {
		percent = float64(n) / float64(b.total)
	}

	elapsed := now.Sub(b.start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(n) / elapsed.Seconds()
	}
	remaining := time.Duration(0)
	if rate > 0 && n < b.total {
		remaining = time.Duration(float64(b.total-n) / rate * float64(time.Second))
	}

	var sb strings.Builder
	sb.WriteString(Spinner(b.frame))
	sb.WriteString(fmt.Sprintf(" %3.0f%% ", percent*100))
	sb.WriteString(Meter(percent, b.width))
	sb.WriteString(fmt.Sprintf(" %d/%d ", n, b.total))
	sb.WriteString(Subtle.Render(fmt.Sprintf("[%s<%s, %.1f it/s]", clock(elapsed), clock(remaining), rate)))
	sb.WriteString(" ")
	sb.WriteString(MetricLabel.Render("reward="))
	sb.WriteString(MetricValue.Render(formatValue(t.Reward)))
	if len(t.Info) > 0 {
		sb.WriteString(" ")
		sb.WriteString(MetricLabel.Render("info="))
		sb.WriteString(FormatInfo(t.Info))
	}
	return sb.String()
}

// Finish ends the line so later output starts on a fresh one.
func (b *Bar) Finish() {
	if b.drawn {
		fmt.Fprintln(b.w)
	}
}

// FormatInfo renders info with sorted keys.
func FormatInfo(info gym.Info) string {
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatValue(info[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.4g", x)
	case float32:
		return fmt.Sprintf("%.4g", x)
	default:
		return fmt.Sprint(x)
	}
}

func clock(d time.Duration) string {
	s := int(d.Round(time.Second).Seconds())
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
