package model

// ImageElement is an avatar image with alt text, platform-neutral.
type ImageElement struct {
	URL     string
	AltText string
}

// SummarySection is the header block of a notification message: the pull
// request title linked by number, its body, and the author's avatar as a
// trailing accessory.
type SummarySection struct {
	Title        string
	Number       int
	Link         string
	Body         string
	AuthorAvatar ImageElement
}

// ReviewerGroup is a labeled row of reviewer avatars sharing one verdict.
type ReviewerGroup struct {
	Label   string
	Avatars []ImageElement
}

// MessageBody is the abstract, platform-neutral description of a
// notification message. The chat adapter turns it into whatever wire shape
// the destination platform expects.
type MessageBody struct {
	Summary SummarySection
	Groups  []ReviewerGroup
}
