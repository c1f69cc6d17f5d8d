package chatexchange

import "fmt"

// EventType identifies the kind of a chat room event. The numeric values
// are assigned by the chat service and arrive verbatim on the wire.
type EventType int

const (
	MessagePosted       EventType = 1
	MessageEdited       EventType = 2
	UserEntered         EventType = 3
	UserLeft            EventType = 4
	RoomNameChanged     EventType = 5
	MessageStarred      EventType = 6
	DebugMessage        EventType = 7
	UserMentioned       EventType = 8
	MessageFlagged      EventType = 9
	MessageDeleted      EventType = 10
	FileAdded           EventType = 11
	ModeratorFlag       EventType = 12
	UserSettingsChanged EventType = 13
	GlobalNotification  EventType = 14
	AccessLevelChanged  EventType = 15
	UserNotification    EventType = 16
	Invitation          EventType = 17
	MessageReply        EventType = 18
	MessageMovedOut     EventType = 19
	MessageMovedIn      EventType = 20
	TimeBreak           EventType = 21
	FeedTicker          EventType = 22
	UserSuspended       EventType = 29
	UserMerged          EventType = 30
)

// Known reports whether t is one of the event types this package
// understands. The service occasionally introduces new codes; those are
// carried through as-is rather than dropped, and Known lets handlers
// recognize them.
func (t EventType) Known() bool {
	_, ok := eventTypeNames[t]
	return ok
}

// String returns the symbolic name of the event type, or
// "unrecognized(<code>)" for codes this package does not know about.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unrecognized(%d)", int(t))
}

var eventTypeNames = map[EventType]string{
	MessagePosted:       "message_posted",
	MessageEdited:       "message_edited",
	UserEntered:         "user_entered",
	UserLeft:            "user_left",
	RoomNameChanged:     "room_name_changed",
	MessageStarred:      "message_starred",
	DebugMessage:        "debug_message",
	UserMentioned:       "user_mentioned",
	MessageFlagged:      "message_flagged",
	MessageDeleted:      "message_deleted",
	FileAdded:           "file_added",
	ModeratorFlag:       "moderator_flag",
	UserSettingsChanged: "user_settings_changed",
	GlobalNotification:  "global_notification",
	AccessLevelChanged:  "access_level_changed",
	UserNotification:    "user_notification",
	Invitation:          "invitation",
	MessageReply:        "message_reply",
	MessageMovedOut:     "message_moved_out",
	MessageMovedIn:      "message_moved_in",
	TimeBreak:           "time_break",
	FeedTicker:          "feed_ticker",
	UserSuspended:       "user_suspended",
	UserMerged:          "user_merged",
}
