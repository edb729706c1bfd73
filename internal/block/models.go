package block

import (
	"errors"
	"fmt"
	"time"
)

// ErrOpen is returned when the end of an open block or pause is requested.
var ErrOpen = errors.New("record is still open")

// Block is a work session as returned by the server. Timestamps are kept as
// the raw RFC 3339 strings; an empty End means the block is still running.
type Block struct {
	ID         int     `json:"id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Pauses     []Pause `json:"pauses,omitempty"`
	Homeoffice bool    `json:"homeoffice"`
}

// Pause is a sub-interval of a block during which work is suspended.
type Pause struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (b Block) IsOpen() bool { return b.End == "" }

func (b Block) StartTime() (time.Time, error) {
	return parseTimestamp(b.Start)
}

func (b Block) EndTime() (time.Time, error) {
	if b.IsOpen() {
		return time.Time{}, fmt.Errorf("block %d: %w", b.ID, ErrOpen)
	}
	return parseTimestamp(b.End)
}

// Worked returns the block's duration without its pauses. Open blocks and
// open pauses run until now.
func (b Block) Worked(now time.Time) (time.Duration, error) {
	start, err := b.StartTime()
	if err != nil {
		return 0, err
	}
	end := now
	if !b.IsOpen() {
		if end, err = b.EndTime(); err != nil {
			return 0, err
		}
	}

	total := end.Sub(start)
	for _, p := range b.Pauses {
		ps, err := p.StartTime()
		if err != nil {
			return 0, err
		}
		pe := end
		if !p.IsOpen() {
			if pe, err = p.EndTime(); err != nil {
				return 0, err
			}
		}
		if pe.After(end) {
			pe = end
		}
		if d := pe.Sub(ps); d > 0 {
			total -= d
		}
	}
	if total < 0 {
		return 0, nil
	}
	return total, nil
}

func (p Pause) IsOpen() bool { return p.End == "" }

func (p Pause) StartTime() (time.Time, error) {
	return parseTimestamp(p.Start)
}

func (p Pause) EndTime() (time.Time, error) {
	if p.IsOpen() {
		return time.Time{}, fmt.Errorf("pause %d: %w", p.ID, ErrOpen)
	}
	return parseTimestamp(p.End)
}

// Closed returns the blocks that have an end timestamp, keeping their order.
func Closed(blocks []Block) []Block {
	var closed []Block
	for _, b := range blocks {
		if !b.IsOpen() {
			closed = append(closed, b)
		}
	}
	return closed
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
