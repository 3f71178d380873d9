package model

// DestinationMapping ties one chat room to the notification message posted
// there for a pull request. An empty MessageID means the message has not
// been created yet.
type DestinationMapping struct {
	RoomID    string
	MessageID string
}

// NotificationState is the persisted list of destination mappings for one
// pull request, keyed by the upstream pull request id. Room ids within a
// state are unique, and the set only ever grows: a team being un-requested
// later never removes its room's mapping.
type NotificationState struct {
	PRID     int64
	Mappings []DestinationMapping
}

// HasRoom reports whether a mapping for the given room already exists.
func (s NotificationState) HasRoom(roomID string) bool {
	for _, m := range s.Mappings {
		if m.RoomID == roomID {
			return true
		}
	}
	return false
}
