// Package geeksforgeeks implements the two GeeksforGeeks data sources:
// the weekly contest leaderboard (paginated, scanned handle-by-handle) and
// the per-profile practice score API.
package geeksforgeeks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// Default endpoints.
const (
	// DefaultContestBaseURL is the weekly contest leaderboard API. The
	// page number is appended as the page query parameter.
	DefaultContestBaseURL = "https://practiceapi.geeksforgeeks.org/api/vr/events/gfg-weekly-coding-contest/leaderboard/?leaderboard_type=0&page="

	// DefaultPracticeBaseURL is the profile score API.
	DefaultPracticeBaseURL = "https://coding-platform-profile-api.onrender.com/geeksforgeeks"
)

// ErrScoreUnavailable is returned when a practice profile document has no
// overall_coding_score field.
var ErrScoreUnavailable = errors.New("geeksforgeeks: practice score unavailable")

// ContestEntry is one row of the weekly contest leaderboard.
type ContestEntry struct {
	UserHandle string  `json:"user_handle"`
	UserScore  float64 `json:"user_score"`
	UserRank   int     `json:"user_rank"`
}

// contestPageDTO is the leaderboard page envelope.
type contestPageDTO struct {
	Count   int            `json:"count"`
	Results []ContestEntry `json:"results"`
}

// practiceDTO is the subset of the profile document we read.
type practiceDTO struct {
	OverallCodingScore *int `json:"overall_coding_score"`
}

// Client fetches GeeksforGeeks contest and practice data.
type Client struct {
	contestBaseURL  string
	practiceBaseURL string
	http            *httpapi.Client
}

// NewClient creates a GeeksforGeeks client on top of the shared HTTP client.
func NewClient(contestBaseURL, practiceBaseURL string, http *httpapi.Client) *Client {
	if contestBaseURL == "" {
		contestBaseURL = DefaultContestBaseURL
	}
	if practiceBaseURL == "" {
		practiceBaseURL = DefaultPracticeBaseURL
	}
	return &Client{
		contestBaseURL:  contestBaseURL,
		practiceBaseURL: practiceBaseURL,
		http:            http,
	}
}

// ContestPage fetches one page of the weekly contest leaderboard.
func (c *Client) ContestPage(ctx context.Context, page int) ([]ContestEntry, error) {
	endpoint := c.contestBaseURL + strconv.Itoa(page)

	var resp contestPageDTO
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("geeksforgeeks: contest page %d: %w", page, err)
	}

	return resp.Results, nil
}

// PracticeScore fetches the overall coding score for a handle. A 404 or
// 400 surfaces as a *httpapi.StatusError; a present profile without the
// score field yields ErrScoreUnavailable.
func (c *Client) PracticeScore(ctx context.Context, handle string) (int, error) {
	endpoint := c.practiceBaseURL + "/" + url.PathEscape(handle)

	var profile practiceDTO
	if err := c.http.GetJSON(ctx, endpoint, &profile); err != nil {
		return 0, fmt.Errorf("geeksforgeeks: practice %s: %w", handle, err)
	}

	if profile.OverallCodingScore == nil {
		return 0, fmt.Errorf("%w: %s", ErrScoreUnavailable, handle)
	}

	return *profile.OverallCodingScore, nil
}
