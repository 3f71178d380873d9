package driven

import (
	"context"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// ChatClient defines the driven port for the chat platform: room lookup and
// idempotent message upsert primitives. The client authenticates as the
// bridge's bot identity; messages it creates are messages it may edit later.
type ChatClient interface {
	// GetRoom resolves a room by its id. Returns nil, nil when the room
	// does not exist.
	GetRoom(ctx context.Context, roomID string) (*model.Room, error)
	// CreateMessage posts a new message and returns its platform message id.
	CreateMessage(ctx context.Context, roomID string, body model.MessageBody) (string, error)
	// UpdateMessage edits an existing message in place.
	UpdateMessage(ctx context.Context, roomID, messageID string, body model.MessageBody) error
}
