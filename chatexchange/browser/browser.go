// Package browser implements the HTTP + websocket transport a
// chatexchange session drives: site login, message posting, room
// membership, and the two activity watchers.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// requestsPerSecond throttles everything the browser does, sends and
// polls alike, so a busy session cannot hammer the service.
const requestsPerSecond = 2

// Client talks to one chat network over HTTP. It satisfies
// chatexchange.Browser.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	mu       sync.Mutex
	chatHost string
	fkey     string
	cursors  map[string]int64
}

// NewClient constructs an unauthenticated browser. Call Login before
// anything else.
func NewClient(logger zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger.With().Str("component", "Browser").Logger(),
		cursors: make(map[string]int64),
	}
}

// SetHTTPClient allows setting a custom HTTP client. The client's
// cookie jar carries the authenticated session, so replace it before
// Login or not at all.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// PostMessage posts text to a room and returns the raw response body.
// The service answers with a JSON payload on success and plain text
// when it refuses; interpreting that is the session's concern, so both
// come back verbatim.
func (c *Client) PostMessage(ctx context.Context, roomID, text string) (string, error) {
	return c.postForm(ctx, c.chatURL("/chats/"+roomID+"/messages/new"), url.Values{
		"text": {text},
		"fkey": {c.currentFkey()},
	})
}

// JoinRoom registers presence in a room and records the event cursor
// the watchers resume from.
func (c *Client) JoinRoom(ctx context.Context, roomID string) error {
	body, err := c.postForm(ctx, c.chatURL("/chats/"+roomID+"/events"), url.Values{
		"fkey":     {c.currentFkey()},
		"mode":     {"Messages"},
		"msgCount": {"0"},
	})
	if err != nil {
		return err
	}

	var join joinResponse
	if err := decodeJSON(body, &join); err != nil {
		return fmt.Errorf("join room %s: %w", roomID, err)
	}
	c.setCursor(roomID, join.Time)
	c.logger.Info().Str("room_id", roomID).Int64("cursor", join.Time).Msg("Joined room.")
	return nil
}

// postForm issues one throttled form POST and returns the body as a
// string. Non-2xx statuses are not errors here: the service delivers
// throttle and failure text with error statuses, and the session wants
// those bodies.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

func (c *Client) chatURL(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatHost + path
}

func (c *Client) currentFkey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fkey
}

func (c *Client) setCursor(roomID string, cursor int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cursor != 0 {
		c.cursors[roomID] = cursor
	}
}

func (c *Client) cursor(roomID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursors[roomID]
}
