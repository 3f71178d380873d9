package model

// PullRequest is the snapshot of a GitHub pull request carried by a single
// webhook delivery. Every event brings a complete snapshot; nothing here is
// mutated locally.
type PullRequest struct {
	ID              int64 // Upstream-assigned id, stable across edits. Persistence key.
	Number          int   // Human-facing number, shown but never used as a key.
	Title           string
	Body            string
	HTMLURL         string
	APIURL          string // REST resource URL; reviews are fetched from its sub-resource.
	AuthorLogin     string
	AuthorAvatarURL string
	RequestedTeams  []string // Names of teams currently requested for review.
}
