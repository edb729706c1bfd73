// Package api talks to the time-tracking server. Every call is a single
// authenticated request/response; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/stempel/internal/block"
)

var (
	// ErrNoToken is returned when a request is attempted without a token.
	ErrNoToken = errors.New("not logged in")
	// ErrDecode wraps failures to decode a response body.
	ErrDecode = errors.New("decode response")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server answered %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// IsNetwork reports whether err is a transport failure rather than an answer
// from the server.
func IsNetwork(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}

// IsUnauthorized reports whether the server rejected the token.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() (string, bool)
}

type Options struct {
	HTTPClient *http.Client
	// CacheTTL is how long read snapshots are reused; zero disables caching.
	CacheTTL time.Duration
	Now      func() time.Time
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	cache  *cache
}

func New(baseURL string, tokens TokenSource, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   opts.HTTPClient,
		tokens: tokens,
		cache:  &cache{ttl: opts.CacheTTL, now: opts.Now},
	}
}

// Invalidate drops all cached reads.
func (c *Client) Invalidate() {
	c.cache.clear()
}

// --- Blocks ---

func (c *Client) StartBlock(ctx context.Context, homeoffice bool) error {
	return c.mutate(ctx, "start block", http.MethodPost, "/block_start", homeofficeBody{Homeoffice: homeoffice})
}

func (c *Client) EndBlock(ctx context.Context) error {
	return c.mutate(ctx, "end block", http.MethodPost, "/block_end", nil)
}

func (c *Client) DeleteBlock(ctx context.Context, id int) error {
	return c.mutate(ctx, "delete block", http.MethodDelete, fmt.Sprintf("/block/%d", id), nil)
}

func (c *Client) UpdateBlockStart(ctx context.Context, id int, start string) error {
	return c.mutate(ctx, "update block start", http.MethodPut, fmt.Sprintf("/block/%d/start", id), startBody{Start: start})
}

func (c *Client) UpdateBlockEnd(ctx context.Context, id int, end string) error {
	return c.mutate(ctx, "update block end", http.MethodPut, fmt.Sprintf("/block/%d/end", id), endBody{End: end})
}

func (c *Client) UpdateBlockHomeoffice(ctx context.Context, id int, homeoffice bool) error {
	return c.mutate(ctx, "update block homeoffice", http.MethodPut, fmt.Sprintf("/block/%d/homeoffice", id), homeofficeBody{Homeoffice: homeoffice})
}

// CurrentBlock returns the running block, or the cached one while fresh.
func (c *Client) CurrentBlock(ctx context.Context) (block.Block, error) {
	if b, ok := c.cache.getCurrent(); ok {
		return b, nil
	}
	var b block.Block
	if err := c.do(ctx, "current block", http.MethodGet, "/block_current", nil, &b); err != nil {
		return block.Block{}, err
	}
	c.cache.putCurrent(b)
	return b, nil
}

// AllBlocks returns every block of the user, or the cached list while fresh.
func (c *Client) AllBlocks(ctx context.Context) ([]block.Block, error) {
	if blocks, ok := c.cache.getAll(); ok {
		return blocks, nil
	}
	var blocks []block.Block
	if err := c.do(ctx, "all blocks", http.MethodGet, "/block", nil, &blocks); err != nil {
		return nil, err
	}
	c.cache.putAll(blocks)
	return blocks, nil
}

// --- Pauses ---

func (c *Client) StartPause(ctx context.Context) error {
	return c.mutate(ctx, "start pause", http.MethodPost, "/pause_start", nil)
}

func (c *Client) EndPause(ctx context.Context) error {
	return c.mutate(ctx, "end pause", http.MethodPost, "/pause_end", nil)
}

func (c *Client) DeletePause(ctx context.Context, id int) error {
	return c.mutate(ctx, "delete pause", http.MethodDelete, fmt.Sprintf("/pause/%d", id), nil)
}

func (c *Client) UpdatePauseStart(ctx context.Context, id int, start string) error {
	return c.mutate(ctx, "update pause start", http.MethodPut, fmt.Sprintf("/pause/%d/start", id), startBody{Start: start})
}

func (c *Client) UpdatePauseEnd(ctx context.Context, id int, end string) error {
	return c.mutate(ctx, "update pause end", http.MethodPut, fmt.Sprintf("/pause/%d/end", id), endBody{End: end})
}

// --- Transport ---

type startBody struct {
	Start string `json:"start"`
}

type endBody struct {
	End string `json:"end"`
}

type homeofficeBody struct {
	Homeoffice bool `json:"homeoffice"`
}

// mutate clears the cache before sending, whatever the outcome.
func (c *Client) mutate(ctx context.Context, op, method, path string, body any) error {
	c.cache.clear()
	return c.do(ctx, op, method, path, body, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	token, ok := c.tokens.Token()
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return &StatusError{Op: op, Code: res.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}
	return nil
}
