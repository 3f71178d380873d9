package httphandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

const pullRequestPayload = `{
	"action": "review_requested",
	"pull_request": {
		"id": 42,
		"number": 7,
		"title": "Add retry to uploader",
		"body": "Fixes flaky uploads.",
		"html_url": "https://github.com/acme/widgets/pull/7",
		"url": "https://api.github.com/repos/acme/widgets/pulls/7",
		"user": {
			"login": "rosa",
			"avatar_url": "https://avatars.example.com/rosa"
		},
		"requested_teams": [
			{"name": "platform", "slug": "platform"},
			{"name": "backend", "slug": "backend"}
		]
	}
}`

func TestDecodeEvent_PullRequest(t *testing.T) {
	event, err := DecodeEvent("pull_request", []byte(pullRequestPayload))
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "pull_request", event.Type)
	assert.Equal(t, "review_requested", event.Action)
	assert.True(t, event.Actionable())

	pr := event.PullRequest
	assert.Equal(t, int64(42), pr.ID)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "Add retry to uploader", pr.Title)
	assert.Equal(t, "Fixes flaky uploads.", pr.Body)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", pr.HTMLURL)
	assert.Equal(t, "https://api.github.com/repos/acme/widgets/pulls/7", pr.APIURL)
	assert.Equal(t, "rosa", pr.AuthorLogin)
	assert.Equal(t, "https://avatars.example.com/rosa", pr.AuthorAvatarURL)
	assert.Equal(t, []string{"platform", "backend"}, pr.RequestedTeams)
}

func TestDecodeEvent_PullRequestReview(t *testing.T) {
	payload := `{
		"action": "submitted",
		"pull_request": {"id": 42, "number": 7, "title": "Add retry to uploader"}
	}`

	event, err := DecodeEvent("pull_request_review", []byte(payload))
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "submitted", event.Action)
	assert.True(t, event.Actionable())
	assert.Equal(t, int64(42), event.PullRequest.ID)
}

func TestDecodeEvent_UnknownType(t *testing.T) {
	event, err := DecodeEvent("issue_comment", []byte(`{"action": "created"}`))
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestDecodeEvent_IgnoredAction(t *testing.T) {
	event, err := DecodeEvent("pull_request", []byte(`{"action": "closed", "pull_request": {"id": 42}}`))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.False(t, event.Actionable())
}

func TestDecodeEvent_Malformed(t *testing.T) {
	for _, eventType := range []string{"pull_request", "pull_request_review"} {
		t.Run(eventType, func(t *testing.T) {
			_, err := DecodeEvent(eventType, []byte(`{"action": 12`))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedPayload)
		})
	}
}

func TestDecodeEvent_MissingPullRequest(t *testing.T) {
	event, err := DecodeEvent("pull_request", []byte(`{"action": "opened"}`))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Zero(t, event.PullRequest.ID)
}

func TestActionable(t *testing.T) {
	tests := []struct {
		eventType string
		action    string
		want      bool
	}{
		{"pull_request", "opened", true},
		{"pull_request", "edited", true},
		{"pull_request", "review_requested", true},
		{"pull_request", "synchronize", false},
		{"pull_request", "closed", false},
		{"pull_request_review", "submitted", true},
		{"pull_request_review", "dismissed", true},
		{"pull_request_review", "edited", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType+"/"+tt.action, func(t *testing.T) {
			e := &Event{Type: tt.eventType, Action: tt.action}
			assert.Equal(t, tt.want, e.Actionable())
		})
	}
}
