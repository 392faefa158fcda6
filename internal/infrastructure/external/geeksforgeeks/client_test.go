package geeksforgeeks

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

func TestClient_ContestPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`{"count":2,"results":[
			{"user_id":1,"user_handle":"gfguser1","user_score":250.0,"user_rank":201},
			{"user_id":2,"user_handle":"gfguser2","user_score":180.5,"user_rank":202}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/leaderboard/?page=", "", fastClient())

	entries, err := client.ContestPage(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "gfguser1", entries[0].UserHandle)
	assert.Equal(t, 250.0, entries[0].UserScore)
	assert.Equal(t, 202, entries[1].UserRank)
}

func TestClient_PracticeScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gfguser1", r.URL.Path)
		w.Write([]byte(`{"overall_coding_score": 312, "monthly_coding_score": 40}`))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, fastClient())

	score, err := client.PracticeScore(context.Background(), "gfguser1")
	require.NoError(t, err)
	assert.Equal(t, 312, score)
}

func TestClient_PracticeScoreMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"someone"}`))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, fastClient())

	_, err := client.PracticeScore(context.Background(), "gfguser1")
	assert.ErrorIs(t, err, ErrScoreUnavailable)
}

func TestClient_PracticeScoreNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, fastClient())

	_, err := client.PracticeScore(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, httpapi.IsClientError(err))
}
