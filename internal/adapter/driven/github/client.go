// Package github implements the ReviewFetcher port using the go-github library.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewFetcher = (*Client)(nil)

// Client implements the driven.ReviewFetcher port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client)
//
// token may be empty; review listing on public repositories works
// unauthenticated, at a lower rate limit.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	// go-github requires a trailing slash on BaseURL.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchReviews retrieves all reviews for the pull request behind the given
// API URL (the pull request's REST resource URL, as delivered in webhook
// payloads). It handles pagination automatically and maps go-github types
// to domain model types.
func (c *Client) FetchReviews(ctx context.Context, prAPIURL string) ([]model.Review, error) {
	owner, repo, number, err := splitPullURL(prAPIURL)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var allReviews []model.Review

	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, r := range reviews {
			allReviews = append(allReviews, mapReview(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allReviews, nil
}

// splitPullURL extracts owner, repo, and number from a pull request API URL
// of the form https://api.github.com/repos/{owner}/{repo}/pulls/{number}.
func splitPullURL(prAPIURL string) (owner, repo string, number int, err error) {
	u, err := url.Parse(prAPIURL)
	if err != nil {
		return "", "", 0, fmt.Errorf("parsing pull request URL %q: %w", prAPIURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 5 || parts[0] != "repos" || parts[3] != "pulls" {
		return "", "", 0, fmt.Errorf("unexpected pull request URL format: %q", prAPIURL)
	}

	number, err = strconv.Atoi(parts[4])
	if err != nil {
		return "", "", 0, fmt.Errorf("parsing pull request number in %q: %w", prAPIURL, err)
	}

	return parts[1], parts[2], number, nil
}

// mapReview converts a go-github review to the domain model type.
func mapReview(r *gh.PullRequestReview) model.Review {
	review := model.Review{
		ID:    r.GetID(),
		State: model.ReviewState(r.GetState()),
	}

	if user := r.GetUser(); user != nil {
		review.ReviewerLogin = user.GetLogin()
		review.ReviewerAvatarURL = user.GetAvatarURL()
	}

	return review
}
