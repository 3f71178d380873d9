package driven

import (
	"context"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// ReviewFetcher defines the driven port for reading the current review list
// of a pull request from the upstream API. prAPIURL is the pull request's
// REST resource URL as delivered in the webhook payload.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, prAPIURL string) ([]model.Review, error)
}
