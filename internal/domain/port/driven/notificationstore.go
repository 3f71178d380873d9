package driven

import (
	"context"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// NotificationStore defines the driven port for notification-state
// persistence, keyed by the upstream pull request id.
type NotificationStore interface {
	// Get returns the stored state, or nil, nil when none exists.
	Get(ctx context.Context, prID int64) (*model.NotificationState, error)
	// Create persists a state for a pull request id that has none yet.
	// Returns an error wrapping model.ErrAlreadyExists otherwise.
	Create(ctx context.Context, state model.NotificationState) error
	// Update replaces the stored mapping list in full.
	Update(ctx context.Context, state model.NotificationState) error
	// ListAll returns every stored state, ordered by pull request id.
	ListAll(ctx context.Context) ([]model.NotificationState, error)
}
