// Package application contains use-case orchestration services.
package application

// TeamRooms maps requested-reviewer team names to chat room ids. It is
// built once at startup from configuration and passed by reference into the
// reconciler; there is no ambient global table.
type TeamRooms struct {
	rooms map[string]string
}

// NewTeamRooms creates a TeamRooms table from a team→room map. The map is
// copied so later mutation of the argument cannot change resolution.
func NewTeamRooms(rooms map[string]string) *TeamRooms {
	copied := make(map[string]string, len(rooms))
	for team, room := range rooms {
		copied[team] = room
	}
	return &TeamRooms{rooms: copied}
}

// Resolve maps each team name to its configured room id, preserving input
// order. Teams with no configured room are dropped silently; a requested
// team without a mapping is a non-event, not an error.
func (t *TeamRooms) Resolve(teams []string) []string {
	var roomIDs []string
	for _, team := range teams {
		if room, ok := t.rooms[team]; ok {
			roomIDs = append(roomIDs, room)
		}
	}
	return roomIDs
}

// Len returns the number of configured team mappings.
func (t *TeamRooms) Len() int {
	return len(t.rooms)
}
