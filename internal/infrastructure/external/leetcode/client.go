// Package leetcode implements the LeetCode contest rating client.
// LeetCode only exposes ratings through its GraphQL endpoint; the query is
// small enough to ride in the URL of a plain GET.
package leetcode

import (
	"context"
	"fmt"
	"net/url"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// DefaultBaseURL is the official LeetCode site.
const DefaultBaseURL = "https://leetcode.com"

// responseDTO is the GraphQL envelope. UserContestRanking is null for
// accounts that never entered a contest.
type responseDTO struct {
	Data struct {
		UserContestRanking *struct {
			Rating float64 `json:"rating"`
		} `json:"userContestRanking"`
	} `json:"data"`
}

// Client fetches LeetCode contest ratings.
type Client struct {
	baseURL string
	http    *httpapi.Client
}

// NewClient creates a LeetCode client on top of the shared HTTP client.
func NewClient(baseURL string, http *httpapi.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// ContestRating fetches the contest rating for a username. The second
// return value reports whether the account has a contest ranking at all;
// fractional ratings are truncated toward zero.
func (c *Client) ContestRating(ctx context.Context, username string) (int, bool, error) {
	query := fmt.Sprintf(`query{userContestRanking(username: %q){rating}}`, username)
	endpoint := c.baseURL + "/graphql?query=" + url.QueryEscape(query)

	var resp responseDTO
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return 0, false, fmt.Errorf("leetcode: fetch %s: %w", username, err)
	}

	if resp.Data.UserContestRanking == nil {
		return 0, false, nil
	}

	return int(resp.Data.UserContestRanking.Rating), true, nil
}
