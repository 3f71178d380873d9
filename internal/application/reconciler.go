package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Reconciler drives one create-or-update notification pass per webhook
// delivery: it merges previously-notified rooms with the rooms resolved
// from the snapshot's requested teams, upserts one message per room, and
// persists the resulting room→message mapping so the next event edits the
// same messages instead of posting new ones.
//
// Deliveries carry no ordering or dedup guarantees. Two concurrent runs for
// the same pull request id are not serialized here; both read-modify-write
// the full state and the later write wins.
type Reconciler struct {
	chat      *ChatClientProvider
	store     driven.NotificationStore
	prStore   driven.PRStore
	fetcher   driven.ReviewFetcher
	teamRooms *TeamRooms
}

// NewReconciler creates a Reconciler with all required dependencies.
// prStore may be nil; snapshot persistence is then skipped.
func NewReconciler(
	chat *ChatClientProvider,
	store driven.NotificationStore,
	prStore driven.PRStore,
	fetcher driven.ReviewFetcher,
	teamRooms *TeamRooms,
) *Reconciler {
	return &Reconciler{
		chat:      chat,
		store:     store,
		prStore:   prStore,
		fetcher:   fetcher,
		teamRooms: teamRooms,
	}
}

// Reconcile runs one reconciliation for the given snapshot. It never
// reports failure to the caller: every internal error, and any panic, is
// logged and swallowed so the webhook boundary can acknowledge the
// delivery regardless of outcome.
func (s *Reconciler) Reconcile(ctx context.Context, pr model.PullRequest) {
	defer func() {
		if v := recover(); v != nil {
			slog.Error("reconcile panicked", "pr_id", pr.ID, "pr_number", pr.Number, "panic", v)
		}
	}()

	if err := s.reconcile(ctx, pr); err != nil {
		slog.Error("reconcile failed", "pr_id", pr.ID, "pr_number", pr.Number, "error", err)
	}
}

func (s *Reconciler) reconcile(ctx context.Context, pr model.PullRequest) error {
	chat := s.chat.Get()
	if chat == nil {
		slog.Warn("no chat client configured, skipping notification", "pr_id", pr.ID)
		return nil
	}

	prior, err := s.store.Get(ctx, pr.ID)
	if err != nil {
		return fmt.Errorf("read notification state for pr %d: %w", pr.ID, err)
	}

	// Working list: every room already notified, then any newly-resolved
	// room appended without a message id. Rooms are never removed, even
	// when their team is no longer requested.
	var mappings []model.DestinationMapping
	if prior != nil {
		mappings = append(mappings, prior.Mappings...)
	}

	state := model.NotificationState{PRID: pr.ID, Mappings: mappings}
	for _, roomID := range s.teamRooms.Resolve(pr.RequestedTeams) {
		if !state.HasRoom(roomID) {
			state.Mappings = append(state.Mappings, model.DestinationMapping{RoomID: roomID})
		}
	}

	if len(state.Mappings) == 0 {
		return nil
	}

	// Upserts run strictly sequentially and the state is written back once
	// at the end: any failure below leaves the store exactly as it was.
	for i := range state.Mappings {
		mapping := &state.Mappings[i]

		room, err := chat.GetRoom(ctx, mapping.RoomID)
		if err != nil {
			return fmt.Errorf("look up room %s: %w", mapping.RoomID, err)
		}
		if room == nil {
			return fmt.Errorf("%w: %s", model.ErrRoomNotFound, mapping.RoomID)
		}

		reviews, err := s.fetcher.FetchReviews(ctx, pr.APIURL)
		if err != nil {
			return fmt.Errorf("%w: pr %d: %v", model.ErrFetchReviews, pr.ID, err)
		}

		body := RenderNotification(pr, reviews)

		if mapping.MessageID == "" {
			messageID, err := chat.CreateMessage(ctx, room.ID, body)
			if err != nil {
				return fmt.Errorf("create message in room %s: %w", room.ID, err)
			}
			mapping.MessageID = messageID
			slog.Info("notification created", "pr_id", pr.ID, "room", room.ID, "message_id", messageID)
		} else {
			if err := chat.UpdateMessage(ctx, room.ID, mapping.MessageID, body); err != nil {
				return fmt.Errorf("update message %s in room %s: %w", mapping.MessageID, room.ID, err)
			}
			slog.Info("notification updated", "pr_id", pr.ID, "room", room.ID, "message_id", mapping.MessageID)
		}
	}

	if prior == nil {
		err = s.store.Create(ctx, state)
	} else {
		err = s.store.Update(ctx, state)
	}
	if err != nil {
		return fmt.Errorf("persist notification state for pr %d: %w", pr.ID, err)
	}

	// Snapshot for the dashboard only; the notification state is already
	// durable, so a failure here is not worth failing the run.
	if s.prStore != nil {
		if err := s.prStore.Upsert(ctx, pr); err != nil {
			slog.Warn("persist pr snapshot failed", "pr_id", pr.ID, "error", err)
		}
	}

	return nil
}
