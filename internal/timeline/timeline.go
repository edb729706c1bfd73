// Package timeline lays out blocks on a fixed-width terminal line, with
// horizontal offsets proportional to elapsed time.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stempel/internal/block"
)

const (
	timeLayout = "15:04:05"
	dateLayout = "02.01.2006"

	// TimeCorrection is subtracted from a block's column count in the time
	// row so that both timestamps fit inside the bar.
	TimeCorrection = 9

	// DefaultRemainderSpread spreads extra columns over the title segments
	// in proportion to their share of the block. Cosmetic only; it narrows
	// the gap left by rounding each segment down.
	DefaultRemainderSpread = 8
)

// ErrOpenBlock is returned when a block without an end is passed in.
var ErrOpenBlock = errors.New("open block cannot be placed on the timeline")

// Styles paints the title row. Segments alternate between Work and Pause.
type Styles struct {
	Work  lipgloss.Style
	Pause lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Work: lipgloss.NewStyle().
			Background(lipgloss.Color("#2ECC71")).
			Foreground(lipgloss.Color("#000000")),
		Pause: lipgloss.NewStyle().
			Background(lipgloss.Color("#F39C12")).
			Foreground(lipgloss.Color("#000000")),
	}
}

// Timeline renders blocks into rows of at most roughly Width columns.
type Timeline struct {
	Width           int
	Location        *time.Location // nil keeps each timestamp's own offset
	Styles          Styles
	RemainderSpread int
}

func New(width int) Timeline {
	return Timeline{
		Width:           width,
		Styles:          DefaultStyles(),
		RemainderSpread: DefaultRemainderSpread,
	}
}

// Render is New(width).Render(blocks).
func Render(blocks []block.Block, width int) ([]string, error) {
	return New(width).Render(blocks)
}

type interval struct {
	start, end time.Time
}

type placed struct {
	block  block.Block
	span   interval
	pauses []interval
}

// Render returns three rows per block, in input order: the title bar, the
// start and end times, and a blank separator. Blocks are neither sorted
// nor merged, so overlapping blocks overlap on screen.
func (t Timeline) Render(blocks []block.Block) ([]string, error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	items := make([]placed, 0, len(blocks))
	for _, b := range blocks {
		p, err := t.place(b)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}

	minStart, maxEnd := items[0].span.start, items[0].span.end
	for _, it := range items[1:] {
		if it.span.start.Before(minStart) {
			minStart = it.span.start
		}
		if it.span.end.After(maxEnd) {
			maxEnd = it.span.end
		}
	}

	l := newLayout(maxEnd.Sub(minStart), t.Width)

	rows := make([]string, 0, 3*len(items))
	for _, it := range items {
		lead := strings.Repeat(" ", l.columns(it.span.start.Sub(minStart)))
		rows = append(rows,
			lead+t.titleBar(l, it),
			lead+t.timeRow(l, it),
			"",
		)
	}
	return rows, nil
}

func (t Timeline) place(b block.Block) (placed, error) {
	if b.IsOpen() {
		return placed{}, fmt.Errorf("block %d: %w", b.ID, ErrOpenBlock)
	}
	start, err := b.StartTime()
	if err != nil {
		return placed{}, fmt.Errorf("block %d: %w", b.ID, err)
	}
	end, err := b.EndTime()
	if err != nil {
		return placed{}, fmt.Errorf("block %d: %w", b.ID, err)
	}

	p := placed{block: b, span: interval{start: start, end: end}}
	for _, pause := range b.Pauses {
		ps, err := pause.StartTime()
		if err != nil {
			return placed{}, fmt.Errorf("block %d: %w", b.ID, err)
		}
		pe := end
		if !pause.IsOpen() {
			if pe, err = pause.EndTime(); err != nil {
				return placed{}, fmt.Errorf("block %d: %w", b.ID, err)
			}
		}
		p.pauses = append(p.pauses, interval{start: clamp(ps, start, end), end: clamp(pe, start, end)})
	}
	return p, nil
}

// titleBar paints the label over the block's bar. The bar is as wide as the
// time row so both rows end in the same column.
func (t Timeline) titleBar(l layout, it placed) string {
	total := it.span.end.Sub(it.span.start)
	barWidth := l.timeGap(total) + 2*len(timeLayout)

	label := fmt.Sprintf("%d - %s", it.block.ID, t.in(it.span.start).Format(dateLayout))
	text := label
	if len(text) < barWidth {
		text += strings.Repeat(" ", barWidth-len(text))
	}

	segments := t.segments(l, it)
	var sb strings.Builder
	pos := 0
	for i, w := range segments {
		if pos >= len(text) {
			break
		}
		if i == len(segments)-1 || pos+w > len(text) {
			w = len(text) - pos
		}
		if w <= 0 {
			continue
		}
		style := t.Styles.Work
		if i%2 == 1 {
			style = t.Styles.Pause
		}
		sb.WriteString(style.Render(text[pos : pos+w]))
		pos += w
	}
	return sb.String()
}

// segments returns the width of each work/pause segment, alternating and
// starting with work.
func (t Timeline) segments(l layout, it placed) []int {
	bounds := []time.Time{it.span.start}
	for _, p := range it.pauses {
		bounds = append(bounds, p.start, p.end)
	}
	bounds = append(bounds, it.span.end)

	total := it.span.end.Sub(it.span.start)
	widths := make([]int, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		seg := bounds[i+1].Sub(bounds[i])
		w := l.columns(seg)
		if total > 0 && seg > 0 {
			fraction := float64(seg) / float64(total)
			w += int(math.Floor(fraction * float64(t.RemainderSpread)))
		}
		widths = append(widths, w)
	}
	return widths
}

func (t Timeline) timeRow(l layout, it placed) string {
	gap := l.timeGap(it.span.end.Sub(it.span.start))
	return t.in(it.span.start).Format(timeLayout) +
		strings.Repeat(" ", gap) +
		t.in(it.span.end).Format(timeLayout)
}

func (t Timeline) in(ts time.Time) time.Time {
	if t.Location == nil {
		return ts
	}
	return ts.In(t.Location)
}

// layout converts durations into columns for one rendering.
type layout struct {
	minutesPerColumn int64
}

func newLayout(span time.Duration, width int) layout {
	if width < 1 {
		width = 1
	}
	totalMinutes := int64(math.Ceil(span.Minutes()))
	perColumn := (totalMinutes + int64(width) - 1) / int64(width)
	if perColumn < 1 {
		perColumn = 1
	}
	return layout{minutesPerColumn: perColumn}
}

// columns counts whole minutes of d per column; never negative.
func (l layout) columns(d time.Duration) int {
	minutes := int64(d / time.Minute)
	if minutes <= 0 {
		return 0
	}
	return int(minutes / l.minutesPerColumn)
}

func (l layout) timeGap(d time.Duration) int {
	return max(0, l.columns(d)-TimeCorrection)
}

func clamp(ts, lo, hi time.Time) time.Time {
	if ts.Before(lo) {
		return lo
	}
	if ts.After(hi) {
		return hi
	}
	return ts
}
