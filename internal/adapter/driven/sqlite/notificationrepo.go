package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.NotificationStore = (*NotificationRepo)(nil)

// NotificationRepo is the SQLite implementation of the NotificationStore
// port interface. A state's mapping list is stored as one row per room with
// a position column preserving list order; writes always replace the full
// list, so the store never holds a partially-updated state.
type NotificationRepo struct {
	db *DB
}

// NewNotificationRepo creates a new NotificationRepo backed by the given DB.
func NewNotificationRepo(db *DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Get returns the stored state for the pull request id, or nil, nil when no
// state has been persisted.
func (r *NotificationRepo) Get(ctx context.Context, prID int64) (*model.NotificationState, error) {
	const query = `
		SELECT room_id, message_id
		FROM notification_mappings
		WHERE pr_id = ?
		ORDER BY position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, prID)
	if err != nil {
		return nil, fmt.Errorf("query notification state for pr %d: %w", prID, err)
	}
	defer rows.Close()

	var mappings []model.DestinationMapping
	for rows.Next() {
		var m model.DestinationMapping
		if err := rows.Scan(&m.RoomID, &m.MessageID); err != nil {
			return nil, fmt.Errorf("scan notification mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification mappings: %w", err)
	}

	if mappings == nil {
		return nil, nil
	}

	return &model.NotificationState{PRID: prID, Mappings: mappings}, nil
}

// Create persists the state for a pull request id with no prior state.
// Returns an error wrapping model.ErrAlreadyExists when rows are already
// present for the id.
func (r *NotificationRepo) Create(ctx context.Context, state model.NotificationState) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create notification state: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notification_mappings WHERE pr_id = ?`, state.PRID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check notification state for pr %d: %w", state.PRID, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: pr %d", model.ErrAlreadyExists, state.PRID)
	}

	if err := insertMappings(ctx, tx, state); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notification state for pr %d: %w", state.PRID, err)
	}

	return nil
}

// Update replaces the stored mapping list for the pull request id in full.
func (r *NotificationRepo) Update(ctx context.Context, state model.NotificationState) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update notification state: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM notification_mappings WHERE pr_id = ?`, state.PRID,
	); err != nil {
		return fmt.Errorf("clear notification state for pr %d: %w", state.PRID, err)
	}

	if err := insertMappings(ctx, tx, state); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notification state for pr %d: %w", state.PRID, err)
	}

	return nil
}

// ListAll returns every stored state ordered by pull request id, mappings
// in list order.
func (r *NotificationRepo) ListAll(ctx context.Context) ([]model.NotificationState, error) {
	const query = `
		SELECT pr_id, room_id, message_id
		FROM notification_mappings
		ORDER BY pr_id, position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query notification states: %w", err)
	}
	defer rows.Close()

	var states []model.NotificationState
	for rows.Next() {
		var prID int64
		var m model.DestinationMapping
		if err := rows.Scan(&prID, &m.RoomID, &m.MessageID); err != nil {
			return nil, fmt.Errorf("scan notification mapping: %w", err)
		}

		if len(states) == 0 || states[len(states)-1].PRID != prID {
			states = append(states, model.NotificationState{PRID: prID})
		}
		last := &states[len(states)-1]
		last.Mappings = append(last.Mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification states: %w", err)
	}

	return states, nil
}

func insertMappings(ctx context.Context, tx *sql.Tx, state model.NotificationState) error {
	const query = `
		INSERT INTO notification_mappings (pr_id, position, room_id, message_id)
		VALUES (?, ?, ?, ?)
	`

	for position, m := range state.Mappings {
		if _, err := tx.ExecContext(ctx, query, state.PRID, position, m.RoomID, m.MessageID); err != nil {
			return fmt.Errorf("insert mapping %s for pr %d: %w", m.RoomID, state.PRID, err)
		}
	}

	return nil
}
