package ratinglog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

func TestWriter_AppendFormat(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, FileCodeforces)
	require.NoError(t, err)

	require.NoError(t, w.Append("s1", "cfuser1", 1500))
	require.NoError(t, w.Append("s2", "cfuser2", 0))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileCodeforces))
	require.NoError(t, err)
	assert.Equal(t, "s1,cfuser1,1500\ns2,cfuser2,0\n", string(data))
}

func TestWriter_TruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileCodeChef)
	require.NoError(t, os.WriteFile(path, []byte("stale,old,9999\n"), 0o644))

	w, err := NewWriter(dir, FileCodeChef)
	require.NoError(t, err)
	require.NoError(t, w.Append("s1", "chef1", 1700))
	require.NoError(t, w.Close())

	entries, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, student.Handle("s1"), entries[0].Handle)
	assert.Equal(t, 1700, entries[0].Rating)
}

func TestWriter_AppendRecordRequiresObservedRating(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, FileLeetCode)
	require.NoError(t, err)
	defer w.Close()

	rec := student.NewRecord("s1", student.PlatformLeetCode, "lcuser")
	assert.Error(t, w.AppendRecord(rec), "unrated record must not be written")

	rec.SetRating(0)
	assert.NoError(t, w.AppendRecord(rec), "rated 0 is a real observation")
	assert.Equal(t, 1, w.Count())
}

func TestWriter_AppendAfterClose(t *testing.T) {
	w, err := NewWriter(t.TempDir(), FileHackerRank)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Append("s1", "hr1", 10), ErrClosed)
}

func TestReadFile_RejectsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("s1,user1,abc\n"), 0o644))

	_, err := ReadFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("s1,user1\n"), 0o644))
	_, err = ReadFile(path)
	assert.Error(t, err)
}

func TestFileFor(t *testing.T) {
	file, err := FileFor(student.PlatformGeeksforGeeks)
	require.NoError(t, err)
	assert.Equal(t, FileGeeksforGeeks, file)

	_, err = FileFor(student.Platform("unknown"))
	assert.Error(t, err)
}
