// Package progress draws a single-line progress bar on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	defaultWidth = 80
	redrawEvery  = 100 * time.Millisecond
	fillChar     = "█"
	emptyChar    = " "
)

// Bar renders "<label> |███   | 42% / 3.2s left" on one line, redrawn in
// place. One Bar can be reused for several passes.
type Bar struct {
	w     io.Writer
	width int
	now   func() time.Time

	label    string
	total    int64
	current  int64
	started  time.Time
	lastDraw time.Time
	active   bool
}

// New returns a Bar writing to w. A width of 0 uses the terminal width.
func New(w io.Writer, width int) *Bar {
	if width <= 0 {
		width = terminalWidth()
	}
	return &Bar{w: w, width: width, now: time.Now}
}

// terminalWidth reads COLUMNS, falling back to 80.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultWidth
}

// Start begins a pass of total steps. A zero total draws nothing.
func (b *Bar) Start(label string, total int64) {
	b.label = label
	b.total = total
	b.current = 0
	b.started = b.now()
	b.lastDraw = time.Time{}
	b.active = total > 0
	b.draw()
}

// Tick advances the bar by one step.
func (b *Bar) Tick() {
	if !b.active {
		return
	}
	b.current++
	if b.current >= b.total || b.now().Sub(b.lastDraw) >= redrawEvery {
		b.draw()
	}
}

// Finish draws the final state and moves to the next line.
func (b *Bar) Finish() {
	if !b.active {
		return
	}
	b.draw()
	fmt.Fprintln(b.w)
	b.active = false
}

func (b *Bar) draw() {
	if !b.active {
		return
	}
	b.lastDraw = b.now()
	fmt.Fprint(b.w, "\r"+b.Render())
}

// Render returns the current line without the leading carriage return.
func (b *Bar) Render() string {
	current := b.current
	if current > b.total {
		current = b.total
	}
	ratio := 0.0
	if b.total > 0 {
		ratio = float64(current) / float64(b.total)
	}

	suffix := fmt.Sprintf(" %3d%% / %s left", int(ratio*100), b.eta(current))
	slots := b.width - runewidth.StringWidth(b.label) - runewidth.StringWidth(suffix) - 3
	if slots < 1 {
		slots = 1
	}
	filled := int(ratio * float64(slots))

	var sb strings.Builder
	sb.WriteString(b.label)
	sb.WriteString(" |")
	sb.WriteString(strings.Repeat(fillChar, filled))
	sb.WriteString(strings.Repeat(emptyChar, slots-filled))
	sb.WriteString("|")
	sb.WriteString(suffix)
	return sb.String()
}

func (b *Bar) eta(current int64) string {
	if current == 0 {
		return "?"
	}
	elapsed := b.now().Sub(b.started)
	remaining := time.Duration(float64(elapsed) / float64(current) * float64(b.total-current))
	return fmt.Sprintf("%.1fs", remaining.Seconds())
}
