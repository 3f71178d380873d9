package driven

import (
	"context"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// PRStore defines the driven port for the last-seen pull request snapshots
// backing the operator dashboard. The reconciler treats it as best-effort:
// a failed snapshot write never fails a reconciliation.
type PRStore interface {
	Upsert(ctx context.Context, pr model.PullRequest) error
	Get(ctx context.Context, prID int64) (*model.PullRequest, error)
	ListAll(ctx context.Context) ([]model.PullRequest, error)
}
