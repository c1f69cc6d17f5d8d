package chatexchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeBlob round-trips a JSON literal so records carry the float64
// numbers real activity decoding produces.
func decodeBlob(t *testing.T, raw string) ActivityBlob {
	t.Helper()
	var blob ActivityBlob
	require.NoError(t, json.Unmarshal([]byte(raw), &blob))
	return blob
}

func TestRoomEventsMessagePosted(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	blob := decodeBlob(t, `{"r101": {"e": [{
		"event_type": 1, "id": 9, "room_id": 101, "room_name": "X",
		"time_stamp": 123, "content": "<b>hi</b> &amp; bye",
		"user_name": "Bob", "user_id": 5, "message_id": 77
	}]}}`)

	events := c.roomEvents(blob, "101")

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, MessagePosted, ev.Type)
	assert.Equal(t, int64(9), ev.EventID)
	assert.Equal(t, int64(101), ev.RoomID)
	assert.Equal(t, "X", ev.RoomName)
	assert.Equal(t, int64(123), ev.TimeStamp)
	assert.Equal(t, "<b>hi</b> &amp; bye", ev.Content)
	assert.Equal(t, "Bob", ev.UserName)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, int64(77), ev.MessageID)
	assert.Equal(t, "hi & bye", ev.TextContent())
}

func TestRoomEventsUnrecognizedType(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	blob := decodeBlob(t, `{"r101": {"e": [
		{"event_type": 9999, "id": 1, "room_id": 101, "room_name": "X", "time_stamp": 1},
		{"event_type": 3, "id": 2, "room_id": 101, "room_name": "X", "time_stamp": 2}
	]}}`)

	events := c.roomEvents(blob, "101")

	require.Len(t, events, 2, "unknown type must not abort siblings")
	assert.Equal(t, EventType(9999), events[0].Type)
	assert.False(t, events[0].Type.Known())
	assert.Equal(t, "unrecognized(9999)", events[0].Type.String())
	assert.Equal(t, UserEntered, events[1].Type)
}

func TestRoomEventsMissingMessageFields(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	// First record claims message_posted but has no content; the second
	// is intact and must still come through.
	blob := decodeBlob(t, `{"r101": {"e": [
		{"event_type": 1, "id": 1, "room_id": 101, "room_name": "X", "time_stamp": 1},
		{"event_type": 1, "id": 2, "room_id": 101, "room_name": "X", "time_stamp": 2,
		 "content": "ok", "user_name": "Ann", "user_id": 3, "message_id": 4}
	]}}`)

	events := c.roomEvents(blob, "101")

	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].EventID)
}

func TestRoomEventsSkipsEmptyRecords(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	blob := decodeBlob(t, `{"r101": {"e": [
		null, {},
		{"event_type": 4, "id": 8, "room_id": 101, "room_name": "X", "time_stamp": 9}
	]}}`)

	events := c.roomEvents(blob, "101")

	require.Len(t, events, 1)
	assert.Equal(t, UserLeft, events[0].Type)
}

func TestRoomEventsOtherRoom(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	blob := decodeBlob(t, `{"r202": {"e": [
		{"event_type": 4, "id": 8, "room_id": 202, "room_name": "Y", "time_stamp": 9}
	]}}`)

	assert.Empty(t, c.roomEvents(blob, "101"))
}

func TestRoomEventsNoEventList(t *testing.T) {
	c := NewClient(nil, DefaultConfig())
	blob := decodeBlob(t, `{"r101": {"t": 42}}`)

	assert.Empty(t, c.roomEvents(blob, "101"))
}
