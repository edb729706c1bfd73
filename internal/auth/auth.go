package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a freshly issued token is assumed to be valid. The
// server does not report an expiry, so this is a client side estimate.
const DefaultTTL = 10 * time.Minute

// ErrEmptyToken is returned when the login response carries no token.
var ErrEmptyToken = errors.New("login response contained no token")

// StatusError is a login rejected by the server.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("authentication failed: %d %s", e.Code, http.StatusText(e.Code))
}

// Token is the persisted credential.
type Token struct {
	JWT       string    `json:"jwt"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t Token) expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type Options struct {
	LoginURL   string
	TokenPath  string
	TTL        time.Duration
	HTTPClient *http.Client
	Now        func() time.Time
}

// Session holds the current token and keeps the token file in sync.
type Session struct {
	loginURL string
	path     string
	ttl      time.Duration
	client   *http.Client
	now      func() time.Time

	mu    sync.Mutex
	token *Token
}

// NewSession loads the token file at opts.TokenPath. A missing or unreadable
// file leaves the session without a token.
func NewSession(opts Options) *Session {
	s := &Session{
		loginURL: opts.LoginURL,
		path:     opts.TokenPath,
		ttl:      opts.TTL,
		client:   opts.HTTPClient,
		now:      opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.now == nil {
		s.now = time.Now
	}
	if tok, err := loadToken(s.path); err == nil {
		s.token = tok
	}
	return s
}

// Token returns the held token string, if any. It does not check expiry.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return "", false
	}
	return s.token.JWT, true
}

// LoginNeeded reports whether no token is held or the held one has expired.
func (s *Session) LoginNeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token == nil || s.token.expired(s.now())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. It is a no-op while the held
// token is still valid.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if !s.LoginNeeded() {
		return nil
	}

	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode}
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read login response: %w", err)
	}
	jwt := extractToken(raw)
	if jwt == "" {
		return ErrEmptyToken
	}

	tok := &Token{JWT: jwt, ExpiresAt: s.now().Add(s.ttl)}
	if err := saveToken(s.path, tok); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return nil
}

// Logout forgets the token and removes the token file.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// extractToken accepts either a bare token or {"token": "..."}.
func extractToken(raw []byte) string {
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err == nil && tr.Token != "" {
		return tr.Token
	}
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		return strings.TrimSpace(quoted)
	}
	return strings.TrimSpace(string(raw))
}

func saveToken(path string, tok *Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func loadToken(path string) (*Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	if tok.JWT == "" {
		return nil, ErrEmptyToken
	}
	return &tok, nil
}
