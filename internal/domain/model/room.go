package model

// Room is a chat room resolved from a destination identifier.
type Room struct {
	ID   string
	Name string
}
