package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/leetcode"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

func TestLeetCode_NoContestHistoryLogsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if strings.Contains(query, `"lc1"`) {
			w.Write([]byte(`{"data":{"userContestRanking":{"rating":1888.76}}}`))
			return
		}
		w.Write([]byte(`{"data":{"userContestRanking":null}}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewLeetCode(leetcode.NewClient(srv.URL, fastHTTP()), dir, quietLogger())

	records := makeRecords(student.PlatformLeetCode, "s1", "lc1", "s2", "lc2")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err)

	r1, _ := records[0].Rating()
	r2, ok2 := records[1].Rating()
	assert.Equal(t, 1888, r1, "fractional rating is truncated")
	assert.True(t, ok2, "no contest history is observed as 0, not skipped")
	assert.Equal(t, 0, r2)

	entries, err := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileLeetCode))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[1].Rating)
}

func TestLeetCode_TransportFailureSkipsStudent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("query"), `"broken"`) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":{"userContestRanking":{"rating":1500.0}}}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	collector := NewLeetCode(leetcode.NewClient(srv.URL, fastHTTP()), dir, quietLogger())

	records := makeRecords(student.PlatformLeetCode, "s1", "broken", "s2", "lc2")
	records, err := collector.Run(context.Background(), records)
	require.NoError(t, err, "one failed lookup must not abort the run")

	_, ok := records[0].Rating()
	assert.False(t, ok)

	entries, err := ratinglog.ReadFile(filepath.Join(dir, ratinglog.FileLeetCode))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, student.Handle("s2"), entries[0].Handle)
}
