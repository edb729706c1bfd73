package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// HistoryEntry is one line entered at the prompt.
type HistoryEntry struct {
	ID        int64
	Line      string
	Kind      string // parsed command kind, e.g. "block start"
	CreatedAt time.Time
}
