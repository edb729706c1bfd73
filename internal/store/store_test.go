package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := DBPath(filepath.Join(t.TempDir(), "sub"))
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddHistory("block all", "block all"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not run twice.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	n, err := s2.CountHistory()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 history entry after reopen, got %d", n)
	}
}

func TestDBPath(t *testing.T) {
	if got := DBPath("/data"); got != filepath.Join("/data", "stempel.db") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	val, err := s.GetSetting(SettingLastEmail)
	if err != nil {
		t.Fatalf("GetSetting(%q): %v", SettingLastEmail, err)
	}
	if val != "" {
		t.Fatalf("expected empty default, got %q", val)
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting(SettingLastEmail, "ada@example.com")
	val, _ := s.GetSetting(SettingLastEmail)
	if val != "ada@example.com" {
		t.Fatalf("expected ada@example.com, got %s", val)
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetSettingOr(t *testing.T) {
	s := newTestStore(t)
	val, err := s.GetSettingOr("nonexistent", "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if val != "fallback" {
		t.Fatalf("expected fallback, got %q", val)
	}

	s.SetSetting("present", "value")
	val, err = s.GetSettingOr("present", "fallback")
	if err != nil || val != "value" {
		t.Fatalf("expected value, got %q (%v)", val, err)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("b", "2")
	s.SetSetting("a", "1")
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

// ============================================================
// History
// ============================================================

func TestAddHistory(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHistory("block start true", "block start")
	if err != nil {
		t.Fatal(err)
	}
	if h.ID == 0 || h.Line != "block start true" || h.Kind != "block start" {
		t.Fatalf("unexpected entry: %+v", h)
	}
	if h.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestGetHistoryNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetHistory(999); err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestRecentLinesDistinctNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, line := range []string{"block start", "block all", "pause start", "block all", "block current"} {
		if _, err := s.AddHistory(line, "x"); err != nil {
			t.Fatal(err)
		}
	}

	lines, err := s.RecentLines(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"block current", "block all", "pause start", "block start"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, lines)
		}
	}

	limited, err := s.RecentLines(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0] != "block current" {
		t.Fatalf("unexpected limited lines: %v", limited)
	}
}

func TestRecentLinesEmpty(t *testing.T) {
	s := newTestStore(t)
	lines, err := s.RecentLines(10)
	if err != nil {
		t.Fatal(err)
	}
	if lines != nil {
		t.Fatalf("expected nil slice, got %d items", len(lines))
	}
}

func TestPruneHistory(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 10; i++ {
		s.AddHistory("block all", "block all")
	}
	s.AddHistory("exit", "exit")

	if err := s.PruneHistory(3); err != nil {
		t.Fatal(err)
	}
	n, _ := s.CountHistory()
	if n != 3 {
		t.Fatalf("expected 3 entries after prune, got %d", n)
	}
	lines, _ := s.RecentLines(0)
	if lines[0] != "exit" {
		t.Fatalf("newest entry should survive pruning: %v", lines)
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
