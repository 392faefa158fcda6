package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/hackerrank"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

func TestHackerRank_SumsScoresAcrossContests(t *testing.T) {
	deadRequests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		switch {
		case strings.Contains(r.URL.Path, "/contests/alpha/"):
			if offset == "0" {
				w.Write([]byte(`{"models":[{"hacker":"hr1","score":5.0},{"hacker":"stranger","score":3.0}]}`))
				return
			}
			w.Write([]byte(`{"models":[]}`))
		case strings.Contains(r.URL.Path, "/contests/dead/"):
			deadRequests++
			w.Write([]byte(`<html>INVALID URL</html>`))
		case strings.Contains(r.URL.Path, "/contests/beta/"):
			if offset == "0" {
				// Re-cased handle, must still resolve to the same student.
				w.Write([]byte(`{"models":[{"hacker":"HR1","score":7.0}]}`))
				return
			}
			w.Write([]byte(`{"models":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	contests := []string{"alpha", "dead", "beta"}
	collector := NewHackerRank(hackerrank.NewClient(srv.URL, fastHTTP()), contests, 100, 1000, dir, quietLogger())

	records := makeRecords(student.PlatformHackerRank, "s1", "hr1", "s2", "hr2")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err, "a dead contest must not abort the run")

	rating, ok := records[0].Rating()
	assert.True(t, ok)
	assert.Equal(t, 12, rating, "scores are summed across contests")

	_, ok = records[1].Rating()
	assert.False(t, ok, "student off every leaderboard stays unobserved")

	assert.Equal(t, 1, deadRequests, "a dead contest is abandoned after the first page")

	entries, err := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileHackerRank))
	require.NoError(t, err)
	require.Len(t, entries, 1, "only students with at least one appearance are written")
	assert.Equal(t, ratinglog.Entry{Handle: "s1", PlatformHandle: "hr1", Rating: 12}, entries[0])
}

func TestHackerRank_EmptyPageEndsContestWalk(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)
		if offset == "0" {
			w.Write([]byte(`{"models":[{"hacker":"hr1","score":40.5}]}`))
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewHackerRank(hackerrank.NewClient(srv.URL, fastHTTP()), []string{"solo"}, 100, 1000, dir, quietLogger())

	records := makeRecords(student.PlatformHackerRank, "s1", "hr1")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "100"}, offsets, "the walk stops at the first empty page")

	rating, ok := records[0].Rating()
	assert.True(t, ok)
	assert.Equal(t, 40, rating, "fractional scores are truncated")
}

func TestHackerRank_FailedPageSkipsToNextOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0":
			w.WriteHeader(http.StatusBadGateway)
		case "100":
			w.Write([]byte(`{"models":[{"hacker":"hr1","score":9.0}]}`))
		default:
			w.Write([]byte(`{"models":[]}`))
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewHackerRank(hackerrank.NewClient(srv.URL, fastHTTP()), []string{"flaky"}, 100, 1000, dir, quietLogger())

	records := makeRecords(student.PlatformHackerRank, "s1", "hr1")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err)

	rating, ok := records[0].Rating()
	assert.True(t, ok)
	assert.Equal(t, 9, rating, "one failed page must not end the contest walk")
}

func TestHackerRank_UnknownLeaderboardHandleIsVisibleInLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			w.Write([]byte(`{"models":[{"hacker":"stranger","score":3.0}]}`))
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	// Default info level, the one the aggregator runs at.
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	collector := NewHackerRank(hackerrank.NewClient(srv.URL, fastHTTP()), []string{"solo"}, 100, 1000, t.TempDir(), logger)

	_, err := collector.Run(context.Background(), makeRecords(student.PlatformHackerRank, "s1", "hr1"))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "leaderboard row not on roster")
	assert.Contains(t, buf.String(), "stranger")
}
