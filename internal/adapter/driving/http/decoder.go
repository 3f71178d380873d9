package httphandler

import (
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// Webhook event types handled by the bridge (values of the X-GitHub-Event
// header). Everything else is acknowledged and ignored.
const (
	eventTypePullRequest       = "pull_request"
	eventTypePullRequestReview = "pull_request_review"
)

// Actions that trigger a reconciliation. The upstream vocabulary is much
// larger (closed, assigned, labeled, synchronize, ...); those decode fine
// but are no-ops.
var (
	pullRequestActions = map[string]bool{
		"opened":           true,
		"edited":           true,
		"review_requested": true,
	}
	reviewActions = map[string]bool{
		"submitted": true,
		"dismissed": true,
	}
)

// Event is one decoded webhook delivery: the event type, its action, and
// the pull request snapshot the payload carries.
type Event struct {
	Type        string
	Action      string
	PullRequest model.PullRequest
}

// Actionable reports whether the event's action triggers a reconciliation.
func (e *Event) Actionable() bool {
	switch e.Type {
	case eventTypePullRequest:
		return pullRequestActions[e.Action]
	case eventTypePullRequestReview:
		return reviewActions[e.Action]
	}
	return false
}

// DecodeEvent parses a webhook delivery into an Event. Unknown event types
// return nil, nil: a no-op, not an error. A payload that fails to parse
// returns an error wrapping model.ErrMalformedPayload.
func DecodeEvent(eventType string, payload []byte) (*Event, error) {
	switch eventType {
	case eventTypePullRequest:
		var ev gh.PullRequestEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s event: %v", model.ErrMalformedPayload, eventType, err)
		}
		return &Event{
			Type:        eventType,
			Action:      ev.GetAction(),
			PullRequest: mapPullRequest(ev.GetPullRequest()),
		}, nil

	case eventTypePullRequestReview:
		var ev gh.PullRequestReviewEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %s event: %v", model.ErrMalformedPayload, eventType, err)
		}
		return &Event{
			Type:        eventType,
			Action:      ev.GetAction(),
			PullRequest: mapPullRequest(ev.GetPullRequest()),
		}, nil
	}

	return nil, nil
}

// mapPullRequest converts the go-github payload struct to the domain
// snapshot, keeping only the fields the engine consumes.
func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	if pr == nil {
		return model.PullRequest{}
	}

	snapshot := model.PullRequest{
		ID:      pr.GetID(),
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		HTMLURL: pr.GetHTMLURL(),
		APIURL:  pr.GetURL(),
	}

	if user := pr.GetUser(); user != nil {
		snapshot.AuthorLogin = user.GetLogin()
		snapshot.AuthorAvatarURL = user.GetAvatarURL()
	}

	for _, team := range pr.RequestedTeams {
		snapshot.RequestedTeams = append(snapshot.RequestedTeams, team.GetName())
	}

	return snapshot
}
