package chatexchange

import (
	"fmt"

	"github.com/Spevacus/ChatExchange/chatexchange/internal/htmltext"
)

// Event is one classified room event. Events are immutable once
// constructed and owned by the handler invocation that receives them.
type Event struct {
	Type      EventType
	EventID   int64
	RoomID    int64
	RoomName  string
	TimeStamp int64

	// Populated only when Type is MessagePosted.
	Content   string
	UserName  string
	UserID    int64
	MessageID int64

	// Raw retains the untouched record for fields this struct does not
	// map yet.
	Raw map[string]any
}

// TextContent returns a plain-text copy of Content, with HTML tags
// stripped and entities decoded. It is recomputed on each call.
func (e Event) TextContent() string {
	return htmltext.Text(e.Content)
}

// String implements fmt.Stringer for logging.
func (e Event) String() string {
	return fmt.Sprintf("<Event type=%s id=%d room=%d>", e.Type, e.EventID, e.RoomID)
}

// newEvent builds an Event from one raw activity record. Records of a
// recognized type missing their required fields mean the upstream feed
// broke contract; the error carries the field name for diagnosis.
func newEvent(data map[string]any) (Event, error) {
	ev := Event{Raw: data}

	code, ok := intField(data, "event_type")
	if !ok {
		return Event{}, fmt.Errorf("activity record has no event_type: %v", data)
	}
	ev.Type = EventType(code)
	ev.EventID, _ = intField(data, "id")
	ev.RoomID, _ = intField(data, "room_id")
	ev.RoomName, _ = stringField(data, "room_name")
	ev.TimeStamp, _ = intField(data, "time_stamp")

	if ev.Type == MessagePosted {
		if ev.Content, ok = stringField(data, "content"); !ok {
			return Event{}, missingField(ev, "content")
		}
		if ev.UserName, ok = stringField(data, "user_name"); !ok {
			return Event{}, missingField(ev, "user_name")
		}
		if ev.UserID, ok = intField(data, "user_id"); !ok {
			return Event{}, missingField(ev, "user_id")
		}
		if ev.MessageID, ok = intField(data, "message_id"); !ok {
			return Event{}, missingField(ev, "message_id")
		}
	}
	return ev, nil
}

func missingField(ev Event, name string) error {
	return fmt.Errorf("%s record %d is missing field %q", ev.Type, ev.EventID, name)
}

// intField reads a numeric field from a decoded JSON record. Values
// arrive as float64 from encoding/json but tests build records with
// plain ints, so both are accepted.
func intField(data map[string]any, key string) (int64, bool) {
	switch v := data[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func stringField(data map[string]any, key string) (string, bool) {
	v, ok := data[key].(string)
	return v, ok
}
