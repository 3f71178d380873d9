package model

// ReviewState is a review verdict as reported by the GitHub API.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
)

// Review is one review entry on a pull request. Reviews are fetched fresh on
// every reconciliation and never cached; the same reviewer may appear more
// than once when they re-reviewed.
type Review struct {
	ID                int64
	State             ReviewState // Verdicts other than the two constants pass through unrendered.
	ReviewerLogin     string
	ReviewerAvatarURL string
}
