package chatexchange

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Browser is the transport the session drives. The browser package
// provides the HTTP + websocket implementation; tests substitute their
// own.
type Browser interface {
	// Login runs the site-specific authentication sequence.
	Login(ctx context.Context, site Site, creds Credentials) error

	// PostMessage posts text to a room and returns the raw response
	// body. Interpreting the body is the caller's concern.
	PostMessage(ctx context.Context, roomID, text string) (string, error)

	// JoinRoom registers presence in a room.
	JoinRoom(ctx context.Context, roomID string) error

	// WatchRoom polls the room's activity feed every interval and
	// invokes fn with each snapshot until ctx is done.
	WatchRoom(ctx context.Context, roomID string, interval time.Duration, fn func(ActivityBlob)) error

	// WatchRoomSocket streams activity snapshots over a websocket and
	// invokes fn with each one until ctx is done.
	WatchRoomSocket(ctx context.Context, roomID string, fn func(ActivityBlob)) error
}

// Handler receives classified events. The client is passed along so
// handlers can reply without capturing the session themselves.
type Handler func(Event, *Client)

// Client is one authenticated chat session. All sends are serialized
// through a single background worker started at Login and stopped at
// Logout; SendMessage never blocks on delivery.
type Client struct {
	cfg     Config
	site    Site
	browser Browser
	logger  zerolog.Logger
	queue   *messageQueue
	sleep   func(time.Duration)

	mu       sync.Mutex
	loggedIn bool
	done     chan struct{}

	// Worker-owned; nothing else reads or writes these while the
	// worker runs.
	lastSent  string
	sentCount int
}

// NewClient constructs a session over the given transport.
// Use DefaultConfig() as a starting point for cfg.
func NewClient(br Browser, cfg Config) *Client {
	if cfg.sleep == nil {
		cfg.sleep = time.Sleep
	}
	logger := cfg.Logger.With().
		Str("component", "Client").
		Str("session_id", uuid.NewString()).
		Logger()

	return &Client{
		cfg:     cfg,
		site:    cfg.Site,
		browser: br,
		logger:  logger,
		queue:   newMessageQueue(),
		sleep:   cfg.sleep,
	}
}

// Login authenticates against the configured site and starts the send
// worker. Logging in twice is a precondition violation.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return NewError(ErrorAlreadyLoggedIn, "login called while already logged in")
	}

	// A previous session's worker may still be finishing its in-flight
	// message. Wait it out so the new worker is the queue's only
	// consumer and the old stop sentinel is gone before it starts.
	if c.done != nil {
		<-c.done
		c.done = nil
	}

	site, aliased, err := c.site.normalize()
	if err != nil {
		return err
	}
	if aliased {
		c.logger.Warn().Str("site", string(c.site)).Msg("'MSO' should no longer be used, use 'MSE' instead.")
		c.site = site
	}

	c.logger.Info().Str("site", string(site)).Msg("Logging in.")
	if err := c.browser.Login(ctx, site, creds); err != nil {
		return WrapError(ErrorLogin, "site login sequence failed", err)
	}

	c.loggedIn = true
	c.done = make(chan struct{})
	go c.worker()
	c.logger.Info().Msg("Logged in.")
	return nil
}

// Logout stops the send worker by queueing the stop sentinel. Messages
// already queued ahead of the sentinel are not drained; the service
// only needs a clean stop. Logging out while not logged in is a
// precondition violation.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loggedIn {
		return NewError(ErrorNotLoggedIn, "logout called while not logged in")
	}
	c.queue.push(queueItem{stop: true})
	c.loggedIn = false
	c.logger.Info().Msg("Logged out.")
	return nil
}

// SendMessage queues text for delivery to a room and returns
// immediately. Delivery is fire-and-forget: the worker retries until
// the service accepts, and failures along the way are only observable
// in the logs. Sending while not logged in is a precondition violation.
func (c *Client) SendMessage(roomID, text string) error {
	// The check and the push stay under one critical section with
	// Logout's sentinel push: a send either errors after logout or
	// lands ahead of the sentinel, never silently behind it. push
	// never blocks, so holding the lock is safe.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loggedIn {
		return NewError(ErrorNotLoggedIn, "sendMessage called while not logged in")
	}

	c.queue.push(queueItem{msg: pendingMessage{roomID: roomID, text: text}})
	c.logger.Info().
		Str("room_id", roomID).
		Str("text", text).
		Int("queue_length", c.queue.len()).
		Msg("Queued message.")
	return nil
}

// JoinRoom registers presence in a room.
func (c *Client) JoinRoom(ctx context.Context, roomID string) error {
	if err := c.browser.JoinRoom(ctx, roomID); err != nil {
		return WrapError(ErrorJoinRoom, "join room "+roomID, err)
	}
	return nil
}

// WatchRoom polls the room's activity on the given interval and invokes
// handler once per classified event, synchronously per delivery. It
// blocks until ctx is done or the transport fails.
func (c *Client) WatchRoom(ctx context.Context, roomID string, handler Handler, interval time.Duration) error {
	err := c.browser.WatchRoom(ctx, roomID, interval, c.onActivity(roomID, handler))
	if err != nil {
		return WrapError(ErrorWatch, "watch room "+roomID, err)
	}
	return nil
}

// WatchRoomSocket is WatchRoom over the service's websocket push
// channel instead of polling.
func (c *Client) WatchRoomSocket(ctx context.Context, roomID string, handler Handler) error {
	err := c.browser.WatchRoomSocket(ctx, roomID, c.onActivity(roomID, handler))
	if err != nil {
		return WrapError(ErrorWatch, "watch room socket "+roomID, err)
	}
	return nil
}

func (c *Client) onActivity(roomID string, handler Handler) func(ActivityBlob) {
	return func(activity ActivityBlob) {
		for _, ev := range c.roomEvents(activity, roomID) {
			handler(ev, c)
		}
	}
}

// Close tears the session down. Closing while still logged in is a
// programmer error and panics: a silent teardown here used to mask
// lost messages. After Logout, Close waits for the worker to finish
// the in-flight message.
func (c *Client) Close() {
	c.mu.Lock()
	loggedIn := c.loggedIn
	done := c.done
	c.mu.Unlock()

	if loggedIn {
		panic("chatexchange: Client closed while logged in; call Logout first")
	}
	if done != nil {
		<-done
	}
}
