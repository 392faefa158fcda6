// Package codeforces implements the Codeforces user.info API client.
// This is the only platform with an official batch endpoint: up to a few
// hundred handles can be resolved in a single request.
package codeforces

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// DefaultBaseURL is the official Codeforces site.
const DefaultBaseURL = "https://codeforces.com"

// UserDTO is one element of the user.info result array. Rating is absent
// for accounts that never entered a rated contest.
type UserDTO struct {
	Handle string `json:"handle"`
	Rating *int   `json:"rating"`
}

// responseDTO is the user.info envelope.
type responseDTO struct {
	Status  string    `json:"status"`
	Comment string    `json:"comment"`
	Result  []UserDTO `json:"result"`
}

// Client fetches Codeforces user info.
type Client struct {
	baseURL string
	http    *httpapi.Client
}

// NewClient creates a Codeforces client on top of the shared HTTP client.
func NewClient(baseURL string, http *httpapi.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: http}
}

// UserInfo resolves a batch of handles in one request. Handles are joined
// with ';' as the API expects. An envelope status other than OK (an
// unknown handle poisons the whole batch) is reported as an error.
func (c *Client) UserInfo(ctx context.Context, handles []string) ([]UserDTO, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	endpoint := c.baseURL + "/api/user.info?handles=" + url.QueryEscape(strings.Join(handles, ";"))

	var resp responseDTO
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("codeforces: user.info: %w", err)
	}

	if resp.Status != "OK" {
		return nil, fmt.Errorf("codeforces: user.info failed: %s", resp.Comment)
	}

	return resp.Result, nil
}
