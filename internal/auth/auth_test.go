package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

// loginServer answers POST /login with body and counts the calls.
func loginServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if req.Email != "ada@example.com" || req.Password != "secret" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, loginURL string, clock *fakeClock) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stempel", "token.json")
	return NewSession(Options{LoginURL: loginURL, TokenPath: path, Now: clock.now}), path
}

// ============================================================
// Login
// ============================================================

func TestLoginStoresToken(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusOK, "test_token_content", &calls)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	s, path := newTestSession(t, srv.URL+"/login", clock)

	if !s.LoginNeeded() {
		t.Fatal("fresh session should need a login")
	}
	if err := s.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	tok, ok := s.Token()
	if !ok || tok != "test_token_content" {
		t.Fatalf("unexpected token %q (%v)", tok, ok)
	}
	if s.LoginNeeded() {
		t.Fatal("login should not be needed right after logging in")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var saved Token
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.JWT != "test_token_content" {
		t.Fatalf("unexpected saved token %+v", saved)
	}
	if !saved.ExpiresAt.Equal(clock.t.Add(DefaultTTL)) {
		t.Fatalf("expected expiry %v, got %v", clock.t.Add(DefaultTTL), saved.ExpiresAt)
	}
}

func TestLoginJSONTokenResponse(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusOK, `{"token":"abc.def.ghi"}`, &calls)
	s, _ := newTestSession(t, srv.URL+"/login", &fakeClock{t: time.Now()})

	if err := s.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Token(); tok != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", tok)
	}
}

func TestLoginRejected(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusUnauthorized, "", &calls)
	s, path := newTestSession(t, srv.URL+"/login", &fakeClock{t: time.Now()})

	err := s.Login(context.Background(), "ada@example.com", "secret")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatal("no token should be held after a failed login")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("token file should not exist after a failed login")
	}
}

func TestLoginEmptyBody(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusOK, "  \n", &calls)
	s, _ := newTestSession(t, srv.URL+"/login", &fakeClock{t: time.Now()})

	if err := s.Login(context.Background(), "ada@example.com", "secret"); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestLoginSkippedWhileTokenValid(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusOK, "tok", &calls)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	s, _ := newTestSession(t, srv.URL+"/login", clock)

	ctx := context.Background()
	if err := s.Login(ctx, "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if err := s.Login(ctx, "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 login request, got %d", calls.Load())
	}

	clock.t = clock.t.Add(DefaultTTL)
	if !s.LoginNeeded() {
		t.Fatal("token should be expired after the TTL")
	}
	if err := s.Login(ctx, "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a second login request, got %d", calls.Load())
	}
}

func TestLoginNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/login"
	srv.Close()

	s, _ := newTestSession(t, url, &fakeClock{t: time.Now()})
	if err := s.Login(context.Background(), "ada@example.com", "secret"); err == nil {
		t.Fatal("expected transport error")
	}
}

// ============================================================
// Token file
// ============================================================

func TestSessionReloadsToken(t *testing.T) {
	var calls atomic.Int32
	srv := loginServer(t, http.StatusOK, "persisted", &calls)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	s, path := newTestSession(t, srv.URL+"/login", clock)
	if err := s.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewSession(Options{TokenPath: path, Now: clock.now})
	if tok, ok := reloaded.Token(); !ok || tok != "persisted" {
		t.Fatalf("expected persisted token, got %q", tok)
	}
	if reloaded.LoginNeeded() {
		t.Fatal("reloaded token should still be valid")
	}
}

func TestCorruptTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{TokenPath: path})
	if _, ok := s.Token(); ok {
		t.Fatal("corrupt file should mean no token")
	}
	if !s.LoginNeeded() {
		t.Fatal("corrupt file should require a login")
	}
}

func TestMissingTokenFile(t *testing.T) {
	s := NewSession(Options{TokenPath: filepath.Join(t.TempDir(), "nope.json")})
	if !s.LoginNeeded() {
		t.Fatal("missing file should require a login")
	}
}

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := saveToken(path, &Token{JWT: "x", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	s := NewSession(Options{TokenPath: path})
	if s.LoginNeeded() {
		t.Fatal("saved token should be loaded")
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if !s.LoginNeeded() {
		t.Fatal("logout should require a new login")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("logout should remove the token file")
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("second logout should be a no-op: %v", err)
	}
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"plain":             "plain",
		" spaced \n":        "spaced",
		`{"token":"inner"}`: "inner",
		`"quoted"`:          "quoted",
		"":                  "",
	}
	for in, want := range tests {
		if got := extractToken([]byte(in)); got != want {
			t.Errorf("extractToken(%q) = %q, want %q", in, got, want)
		}
	}
}
