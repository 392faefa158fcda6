// Package codechef implements the CodeChef rating API client.
// Ratings come from the community mirror API, which serves one profile
// document per handle.
package codechef

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// DefaultBaseURL is the community CodeChef profile API.
const DefaultBaseURL = "https://codechef-api.vercel.app"

// ErrRatingUnavailable is returned when the profile document carries no
// currentRating field. Unrated accounts answer 200 without the field.
var ErrRatingUnavailable = errors.New("codechef: rating unavailable")

// profileDTO is the subset of the profile document we read.
type profileDTO struct {
	CurrentRating *int `json:"currentRating"`
}

// Client fetches CodeChef ratings.
type Client struct {
	baseURL string
	http    *httpapi.Client
}

// NewClient creates a CodeChef client on top of the shared HTTP client.
func NewClient(baseURL string, http *httpapi.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// Rating fetches the current rating for a handle. A 404 or 400 surfaces
// as a *httpapi.StatusError; a present profile without a rating yields
// ErrRatingUnavailable.
func (c *Client) Rating(ctx context.Context, handle string) (int, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(handle)

	var profile profileDTO
	if err := c.http.GetJSON(ctx, endpoint, &profile); err != nil {
		return 0, fmt.Errorf("codechef: fetch %s: %w", handle, err)
	}

	if profile.CurrentRating == nil {
		return 0, fmt.Errorf("%w: %s", ErrRatingUnavailable, handle)
	}

	return *profile.CurrentRating, nil
}
