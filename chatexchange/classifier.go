package chatexchange

// RoomActivity is one room's slice of an activity snapshot. T is the
// event cursor the polling watcher resumes from.
type RoomActivity struct {
	Events []map[string]any `json:"e"`
	T      int64            `json:"t"`
}

// ActivityBlob is a server-pushed or polled activity snapshot, keyed by
// room ("r" + room id).
type ActivityBlob map[string]RoomActivity

// roomEvents classifies the activity of a single room into Events,
// preserving record order. Empty records are skipped. An unrecognized
// event type is logged and the event emitted with the raw code; a
// recognized record missing required fields is logged and dropped
// without aborting its siblings.
func (c *Client) roomEvents(activity ActivityBlob, roomID string) []Event {
	room, ok := activity["r"+roomID]
	if !ok {
		return nil
	}

	events := make([]Event, 0, len(room.Events))
	for _, data := range room.Events {
		if len(data) == 0 {
			continue
		}
		ev, err := newEvent(data)
		if err != nil {
			c.logger.Error().Err(err).Str("room_id", roomID).Msg("Malformed activity record dropped.")
			continue
		}
		if !ev.Type.Known() {
			c.logger.Info().Int("event_type", int(ev.Type)).Str("room_id", roomID).Msg("Unrecognized event type.")
		}
		events = append(events, ev)
	}
	return events
}
