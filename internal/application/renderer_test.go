package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

func testPR() model.PullRequest {
	return model.PullRequest{
		ID:              42,
		Number:          7,
		Title:           "Add retry to uploader",
		Body:            "Fixes flaky uploads.",
		HTMLURL:         "https://github.com/acme/widgets/pull/7",
		APIURL:          "https://api.github.com/repos/acme/widgets/pulls/7",
		AuthorLogin:     "rosa",
		AuthorAvatarURL: "https://avatars.example.com/rosa",
		RequestedTeams:  []string{"platform"},
	}
}

func TestRenderNotification_Summary(t *testing.T) {
	body := RenderNotification(testPR(), nil)

	assert.Equal(t, "Add retry to uploader", body.Summary.Title)
	assert.Equal(t, 7, body.Summary.Number)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", body.Summary.Link)
	assert.Equal(t, "Fixes flaky uploads.", body.Summary.Body)
	assert.Equal(t, "https://avatars.example.com/rosa", body.Summary.AuthorAvatar.URL)
	assert.Equal(t, "rosa", body.Summary.AuthorAvatar.AltText)
	assert.Empty(t, body.Groups, "no reviews, no groups")
}

func TestRenderNotification_GroupsByVerdict(t *testing.T) {
	reviews := []model.Review{
		{ID: 1, State: model.ReviewStateApproved, ReviewerLogin: "r1", ReviewerAvatarURL: "https://a/r1"},
		{ID: 2, State: model.ReviewStateChangesRequested, ReviewerLogin: "r2", ReviewerAvatarURL: "https://a/r2"},
		{ID: 3, State: model.ReviewStateApproved, ReviewerLogin: "r3", ReviewerAvatarURL: "https://a/r3"},
	}

	body := RenderNotification(testPR(), reviews)

	require.Len(t, body.Groups, 2)

	assert.Equal(t, "Approved", body.Groups[0].Label)
	require.Len(t, body.Groups[0].Avatars, 2)
	assert.Equal(t, "r1", body.Groups[0].Avatars[0].AltText)
	assert.Equal(t, "r3", body.Groups[0].Avatars[1].AltText)

	assert.Equal(t, "Changes Requested", body.Groups[1].Label)
	require.Len(t, body.Groups[1].Avatars, 1)
	assert.Equal(t, "r2", body.Groups[1].Avatars[0].AltText)
}

func TestRenderNotification_OmitsEmptyGroups(t *testing.T) {
	reviews := []model.Review{
		{ID: 1, State: model.ReviewStateChangesRequested, ReviewerLogin: "r2", ReviewerAvatarURL: "https://a/r2"},
	}

	body := RenderNotification(testPR(), reviews)

	require.Len(t, body.Groups, 1)
	assert.Equal(t, "Changes Requested", body.Groups[0].Label)
}

func TestRenderNotification_IgnoresOtherVerdicts(t *testing.T) {
	reviews := []model.Review{
		{ID: 1, State: "COMMENTED", ReviewerLogin: "r1"},
		{ID: 2, State: "PENDING", ReviewerLogin: "r2"},
	}

	body := RenderNotification(testPR(), reviews)

	assert.Empty(t, body.Groups)
}

func TestRenderNotification_NoReviewerDeduplication(t *testing.T) {
	// Re-reviews appear once per entry, exactly as the API reports them.
	reviews := []model.Review{
		{ID: 1, State: model.ReviewStateApproved, ReviewerLogin: "r1", ReviewerAvatarURL: "https://a/r1"},
		{ID: 2, State: model.ReviewStateApproved, ReviewerLogin: "r1", ReviewerAvatarURL: "https://a/r1"},
	}

	body := RenderNotification(testPR(), reviews)

	require.Len(t, body.Groups, 1)
	assert.Len(t, body.Groups[0].Avatars, 2)
}
