package rocketchat

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// renderText formats the summary section as Rocket.Chat markdown: bold
// title, linked number, the pull request body, and the author's avatar as a
// trailing image.
func renderText(body model.MessageBody) string {
	s := body.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "*%s* [#%d](%s)", s.Title, s.Number, s.Link)
	if s.Body != "" {
		b.WriteString("\n")
		b.WriteString(s.Body)
	}
	if s.AuthorAvatar.URL != "" {
		fmt.Fprintf(&b, "\n![%s](%s)", s.AuthorAvatar.AltText, s.AuthorAvatar.URL)
	}

	return b.String()
}

// renderAttachments formats each reviewer group as an attachment whose text
// is a row of avatar images, one per review entry, in group order.
func renderAttachments(body model.MessageBody) []attachment {
	var attachments []attachment
	for _, group := range body.Groups {
		images := make([]string, 0, len(group.Avatars))
		for _, avatar := range group.Avatars {
			images = append(images, fmt.Sprintf("![%s](%s)", avatar.AltText, avatar.URL))
		}

		attachments = append(attachments, attachment{
			Title: group.Label,
			Text:  strings.Join(images, " "),
		})
	}
	return attachments
}
