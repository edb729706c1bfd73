package store

import (
	"fmt"
	"time"
)

func (s *Store) AddHistory(line, kind string) (*HistoryEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO history (line, kind, created_at) VALUES (?, ?, ?)`,
		line, kind, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHistory(id)
}

func (s *Store) GetHistory(id int64) (*HistoryEntry, error) {
	h := &HistoryEntry{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, line, kind, created_at FROM history WHERE id = ?`, id,
	).Scan(&h.ID, &h.Line, &h.Kind, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get history %d: %w", id, err)
	}
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return h, nil
}

// RecentLines returns up to limit distinct lines, most recently used first.
func (s *Store) RecentLines(limit int) ([]string, error) {
	query := `SELECT line FROM history GROUP BY line ORDER BY MAX(id) DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("recent lines: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// PruneHistory deletes all but the newest keep entries.
func (s *Store) PruneHistory(keep int) error {
	_, err := s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

func (s *Store) CountHistory() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n)
	return n, err
}
