package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

func fastClient() *httpapi.Client {
	cfg := httpapi.DefaultClientConfig()
	cfg.RateLimiterConfig = httpapi.RateLimiterConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		WaitTimeout:       time.Second,
	}
	cfg.MaxRetries = 0
	return httpapi.NewClient(cfg)
}

func TestClient_UserInfoJoinsHandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user.info", r.URL.Path)
		assert.Equal(t, "cfuser1;cfuser2", r.URL.Query().Get("handles"))
		w.Write([]byte(`{"status":"OK","result":[{"handle":"cfuser1","rating":1500},{"handle":"cfuser2"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fastClient())

	users, err := client.UserInfo(context.Background(), []string{"cfuser1", "cfuser2"})
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.NotNil(t, users[0].Rating)
	assert.Equal(t, 1500, *users[0].Rating)
	assert.Nil(t, users[1].Rating, "unrated accounts omit the rating field")
}

func TestClient_UserInfoFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle ghost not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fastClient())

	_, err := client.UserInfo(context.Background(), []string{"ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost not found")
}

func TestClient_UserInfoEmptyBatch(t *testing.T) {
	client := NewClient("http://unused.invalid", fastClient())

	users, err := client.UserInfo(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, users)
}
