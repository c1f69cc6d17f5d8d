package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Spevacus/ChatExchange/chatexchange"
)

// WatchRoom polls the room's activity feed every interval, invoking fn
// with each non-empty snapshot until ctx is done. Transient poll
// failures are logged and the loop keeps going; only cancellation ends
// it.
func (c *Client) WatchRoom(ctx context.Context, roomID string, interval time.Duration, fn func(chatexchange.ActivityBlob)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info().Str("room_id", roomID).Dur("interval", interval).Msg("Polling room.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			blob, err := c.pollEvents(ctx, roomID)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Warn().Err(err).Str("room_id", roomID).Msg("Poll failed, will retry.")
				continue
			}
			if len(blob) > 0 {
				fn(blob)
			}
		}
	}
}

// pollEvents fetches activity since the room's cursor and advances it.
func (c *Client) pollEvents(ctx context.Context, roomID string) (chatexchange.ActivityBlob, error) {
	body, err := c.postForm(ctx, c.chatURL("/events"), url.Values{
		"r" + roomID: {strconv.FormatInt(c.cursor(roomID), 10)},
		"fkey":       {c.currentFkey()},
	})
	if err != nil {
		return nil, err
	}

	var blob chatexchange.ActivityBlob
	if err := decodeJSON(body, &blob); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	if room, ok := blob["r"+roomID]; ok {
		c.setCursor(roomID, room.T)
	}
	return blob, nil
}

// WatchRoomSocket streams activity snapshots over the service's
// websocket push channel until ctx is done or the peer closes.
func (c *Client) WatchRoomSocket(ctx context.Context, roomID string, fn func(chatexchange.ActivityBlob)) error {
	body, err := c.postForm(ctx, c.chatURL("/ws-auth"), url.Values{
		"roomid": {roomID},
		"fkey":   {c.currentFkey()},
	})
	if err != nil {
		return fmt.Errorf("ws-auth: %w", err)
	}

	var auth wsAuthResponse
	if err := decodeJSON(body, &auth); err != nil {
		return fmt.Errorf("decode ws-auth: %w", err)
	}
	wsURL := fmt.Sprintf("%s?l=%d", auth.URL, c.cursor(roomID))

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", auth.URL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "watch done")

	c.logger.Info().Str("room_id", roomID).Msg("Watching room over websocket.")
	for {
		var blob chatexchange.ActivityBlob
		if err := wsjson.Read(ctx, conn, &blob); err != nil {
			if isExpectedDisconnect(ctx, err) {
				return nil
			}
			return fmt.Errorf("read activity frame: %w", err)
		}
		if room, ok := blob["r"+roomID]; ok {
			c.setCursor(roomID, room.T)
		}
		if len(blob) > 0 {
			fn(blob)
		}
	}
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
