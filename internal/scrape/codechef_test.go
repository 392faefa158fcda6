package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/codechef"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

func TestCodeChef_CollectsRatings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chef1":
			w.Write([]byte(`{"currentRating": 1700}`))
		case "/chef2":
			w.Write([]byte(`{"currentRating": 1450}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewCodeChef(codechef.NewClient(srv.URL, fastHTTP()), dir, quietLogger())

	records := makeRecords(student.PlatformCodeChef, "s1", "chef1", "s2", "chef2")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err)

	r1, _ := records[0].Rating()
	r2, _ := records[1].Rating()
	assert.Equal(t, 1700, r1)
	assert.Equal(t, 1450, r2)

	entries, err := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileCodeChef))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ratinglog.Entry{Handle: "s1", PlatformHandle: "chef1", Rating: 1700}, entries[0])
}

func TestCodeChef_SkipsUnratedProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/unrated" {
			w.Write([]byte(`{"name": "No Contests Yet"}`))
			return
		}
		w.Write([]byte(`{"currentRating": 1600}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewCodeChef(codechef.NewClient(srv.URL, fastHTTP()), dir, quietLogger())

	records := makeRecords(student.PlatformCodeChef, "s1", "unrated", "s2", "chef2")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err, "a profile without a rating is skipped, not fatal")

	_, rated := records[0].Rating()
	assert.False(t, rated)

	entries, err := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileCodeChef))
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the rated student is logged")
	assert.Equal(t, student.Handle("s2"), entries[0].Handle)
}

func TestCodeChef_MissingHandleAbortsRun(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		switch r.URL.Path {
		case "/chef1":
			w.Write([]byte(`{"currentRating": 1700}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewCodeChef(codechef.NewClient(srv.URL, fastHTTP()), dir, quietLogger())

	records := makeRecords(student.PlatformCodeChef,
		"s1", "chef1",
		"s2", "vanished",
		"s3", "chef3",
	)
	_, err := collector.Run(context.Background(), records)
	require.Error(t, err, "a vanished handle means a stale roster")
	assert.Equal(t, []string{"/chef1", "/vanished"}, requests, "students after the failure are not attempted")

	// Entries observed before the failure survive on disk.
	entries, readErr := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileCodeChef))
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Equal(t, student.Handle("s1"), entries[0].Handle)
}

func TestCodeChef_StripsWhitespaceFromHandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chefuser", r.URL.Path)
		w.Write([]byte(`{"currentRating": 1500}`))
	}))
	defer srv.Close()

	collector := NewCodeChef(codechef.NewClient(srv.URL, fastHTTP()), t.TempDir(), quietLogger())

	_, err := collector.Run(context.Background(), makeRecords(student.PlatformCodeChef, "s1", " chef user "))
	require.NoError(t, err)
}

func TestCodeChef_RerunWritesIdenticalArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chef1":
			w.Write([]byte(`{"currentRating": 1700}`))
		case "/chef2":
			w.Write([]byte(`{"currentRating": 1450}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewCodeChef(codechef.NewClient(srv.URL, fastHTTP()), dir, quietLogger())
	path := filepath.Join(dir, ratinglog.FileCodeChef)

	_, err := collector.Run(context.Background(), makeRecords(student.PlatformCodeChef, "s1", "chef1", "s2", "chef2"))
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = collector.Run(context.Background(), makeRecords(student.PlatformCodeChef, "s1", "chef1", "s2", "chef2"))
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-running against an unchanged upstream yields a byte-identical log")
}
