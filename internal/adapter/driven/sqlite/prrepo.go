package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRStore = (*PRRepo)(nil)

// PRRepo is the SQLite implementation of the PRStore port interface. It
// holds the last-seen snapshot per pull request id for the operator
// dashboard; the reconciler itself always works from the event's snapshot.
type PRRepo struct {
	db *DB
}

// NewPRRepo creates a new PRRepo backed by the given DB.
func NewPRRepo(db *DB) *PRRepo {
	return &PRRepo{db: db}
}

// Upsert inserts or replaces a pull request snapshot. Requested teams are
// serialized as a JSON array in the TEXT column.
func (r *PRRepo) Upsert(ctx context.Context, pr model.PullRequest) error {
	const query = `
		INSERT INTO pull_requests (
			id, number, title, body, html_url, api_url,
			author_login, author_avatar_url, requested_teams, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			title = excluded.title,
			body = excluded.body,
			html_url = excluded.html_url,
			api_url = excluded.api_url,
			author_login = excluded.author_login,
			author_avatar_url = excluded.author_avatar_url,
			requested_teams = excluded.requested_teams,
			updated_at = excluded.updated_at
	`

	teams := pr.RequestedTeams
	if teams == nil {
		teams = []string{}
	}
	teamsJSON, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("marshal requested teams: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		pr.ID, pr.Number, pr.Title, pr.Body, pr.HTMLURL, pr.APIURL,
		pr.AuthorLogin, pr.AuthorAvatarURL, string(teamsJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert pull request %d: %w", pr.ID, err)
	}

	return nil
}

// Get retrieves a single snapshot by pull request id.
// Returns nil, nil if no snapshot exists.
func (r *PRRepo) Get(ctx context.Context, prID int64) (*model.PullRequest, error) {
	const query = `
		SELECT id, number, title, body, html_url, api_url,
		       author_login, author_avatar_url, requested_teams
		FROM pull_requests
		WHERE id = ?
	`

	pr, err := scanPR(r.db.Reader.QueryRowContext(ctx, query, prID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pull request %d: %w", prID, err)
	}

	return pr, nil
}

// ListAll returns all snapshots ordered by most recent event first.
func (r *PRRepo) ListAll(ctx context.Context) ([]model.PullRequest, error) {
	const query = `
		SELECT id, number, title, body, html_url, api_url,
		       author_login, author_avatar_url, requested_teams
		FROM pull_requests
		ORDER BY updated_at DESC, id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pull requests: %w", err)
	}
	defer rows.Close()

	var prs []model.PullRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		prs = append(prs, *pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pull requests: %w", err)
	}

	return prs, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPR(s scanner) (*model.PullRequest, error) {
	var pr model.PullRequest
	var teamsJSON string

	err := s.Scan(
		&pr.ID, &pr.Number, &pr.Title, &pr.Body, &pr.HTMLURL, &pr.APIURL,
		&pr.AuthorLogin, &pr.AuthorAvatarURL, &teamsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(teamsJSON), &pr.RequestedTeams); err != nil {
		return nil, fmt.Errorf("unmarshal requested teams: %w", err)
	}

	return &pr, nil
}
