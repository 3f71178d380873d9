package application

import (
	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// Group labels are fixed; the approved group always precedes changes
// requested when both are present.
const (
	groupLabelApproved         = "Approved"
	groupLabelChangesRequested = "Changes Requested"
)

// RenderNotification turns a pull request and its current reviews into the
// abstract message body posted (or edited) in every destination room.
// The summary section is always present. Reviewer groups appear only when
// non-empty, in avatar order as returned by the fetcher. Reviews are not
// deduplicated per reviewer: a re-review shows up once per entry, exactly
// as the upstream API reports it.
func RenderNotification(pr model.PullRequest, reviews []model.Review) model.MessageBody {
	body := model.MessageBody{
		Summary: model.SummarySection{
			Title:  pr.Title,
			Number: pr.Number,
			Link:   pr.HTMLURL,
			Body:   pr.Body,
			AuthorAvatar: model.ImageElement{
				URL:     pr.AuthorAvatarURL,
				AltText: pr.AuthorLogin,
			},
		},
	}

	if len(reviews) == 0 {
		return body
	}

	if approved := avatarsByState(reviews, model.ReviewStateApproved); len(approved) > 0 {
		body.Groups = append(body.Groups, model.ReviewerGroup{
			Label:   groupLabelApproved,
			Avatars: approved,
		})
	}

	if changes := avatarsByState(reviews, model.ReviewStateChangesRequested); len(changes) > 0 {
		body.Groups = append(body.Groups, model.ReviewerGroup{
			Label:   groupLabelChangesRequested,
			Avatars: changes,
		})
	}

	return body
}

// avatarsByState filters reviews with the given verdict into avatar
// elements, preserving fetch order.
func avatarsByState(reviews []model.Review, state model.ReviewState) []model.ImageElement {
	var avatars []model.ImageElement
	for _, review := range reviews {
		if review.State != state {
			continue
		}
		avatars = append(avatars, model.ImageElement{
			URL:     review.ReviewerAvatarURL,
			AltText: review.ReviewerLogin,
		})
	}
	return avatars
}
