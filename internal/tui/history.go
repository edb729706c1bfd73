package tui

import (
	"log"
	"slices"

	"github.com/sadopc/stempel/internal/store"
)

const (
	historyLimit = 200
	historyKeep  = 1000
)

// history is the recall list of the prompt, newest first. pos is -1 while
// the user edits a fresh line.
type history struct {
	lines []string
	pos   int
	draft string
}

func loadHistory(s *store.Store) history {
	h := history{pos: -1}
	if s == nil {
		return h
	}
	if err := s.PruneHistory(historyKeep); err != nil {
		log.Printf("tui: prune history: %v", err)
	}
	lines, err := s.RecentLines(historyLimit)
	if err != nil {
		log.Printf("tui: load history: %v", err)
		return h
	}
	h.lines = lines
	return h
}

// older steps back in time. current is kept as the draft when leaving the
// fresh line.
func (h *history) older(current string) string {
	if len(h.lines) == 0 {
		return current
	}
	if h.pos == -1 {
		h.draft = current
	}
	if h.pos < len(h.lines)-1 {
		h.pos++
	}
	return h.lines[h.pos]
}

func (h *history) newer(current string) string {
	switch h.pos {
	case -1:
		return current
	case 0:
		h.pos = -1
		return h.draft
	}
	h.pos--
	return h.lines[h.pos]
}

func (h *history) add(line string) {
	if i := slices.Index(h.lines, line); i >= 0 {
		h.lines = slices.Delete(h.lines, i, i+1)
	}
	h.lines = slices.Insert(h.lines, 0, line)
	if len(h.lines) > historyLimit {
		h.lines = h.lines[:historyLimit]
	}
	h.pos = -1
	h.draft = ""
}
