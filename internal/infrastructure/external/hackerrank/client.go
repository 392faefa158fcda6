// Package hackerrank implements the HackerRank contest leaderboard client.
// There is no per-user rating endpoint; scores are collected by walking
// the leaderboards of the tracked contests.
package hackerrank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// DefaultBaseURL is the official HackerRank site.
const DefaultBaseURL = "https://www.hackerrank.com"

// ErrInvalidContest is returned when the leaderboard endpoint answers with
// its INVALID URL page, meaning the contest slug no longer exists.
var ErrInvalidContest = errors.New("hackerrank: invalid contest")

// LeaderboardEntry is one row of a contest leaderboard.
type LeaderboardEntry struct {
	Hacker string  `json:"hacker"`
	Score  float64 `json:"score"`
}

// leaderboardDTO is the leaderboard page envelope.
type leaderboardDTO struct {
	Models []LeaderboardEntry `json:"models"`
}

// Client fetches HackerRank contest leaderboards.
type Client struct {
	baseURL string
	http    *httpapi.Client
}

// NewClient creates a HackerRank client on top of the shared HTTP client.
func NewClient(baseURL string, http *httpapi.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// LeaderboardPage fetches one page of a contest leaderboard. A dead
// contest slug yields ErrInvalidContest; the endpoint reports it in the
// body rather than the status code.
func (c *Client) LeaderboardPage(ctx context.Context, contest string, offset, limit int) ([]LeaderboardEntry, error) {
	endpoint := fmt.Sprintf("%s/rest/contests/%s/leaderboard?offset=%s&limit=%s",
		c.baseURL,
		url.PathEscape(contest),
		strconv.Itoa(offset),
		strconv.Itoa(limit),
	)

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("hackerrank: leaderboard %s offset %d: %w", contest, offset, err)
	}

	if bytes.Contains(resp.Body, []byte("INVALID URL")) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContest, contest)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hackerrank: leaderboard %s offset %d: %w",
			contest, offset, &httpapi.StatusError{Code: resp.StatusCode, URL: endpoint, Body: resp.Body})
	}

	var page leaderboardDTO
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("hackerrank: parse leaderboard %s offset %d: %w", contest, offset, err)
	}

	return page.Models, nil
}
