// Package ratinglog implements the per-platform rating log artifacts.
// Each aggregation run produces one text file per platform with a line
// per observed rating:
//
//	student_handle,platform_handle,rating
//
// Downstream leaderboard tooling consumes these files, so the format is a
// stable contract. A writer truncates its file at open (each run is a full
// refresh) and syncs after every line, so every entry already written
// survives a crash of the remainder of the run.
package ratinglog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ARTIFACT FILE NAMES
// ══════════════════════════════════════════════════════════════════════════════

// File names of the rating log artifacts, relative to the log directory.
const (
	FileCodeChef      = "codechef_ratings.txt"
	FileCodeforces    = "codeforces_ratings.txt"
	FileLeetCode      = "leetcode_ratings.txt"
	FileGeeksforGeeks = "gfg_ratings.txt"
	FileGfgPractice   = "gfg_practice_ratings.txt"
	FileHackerRank    = "hackerrank_ratings.txt"
)

// FileFor returns the artifact file name for a platform's rating log.
func FileFor(p student.Platform) (string, error) {
	switch p {
	case student.PlatformCodeChef:
		return FileCodeChef, nil
	case student.PlatformCodeforces:
		return FileCodeforces, nil
	case student.PlatformLeetCode:
		return FileLeetCode, nil
	case student.PlatformGeeksforGeeks:
		return FileGeeksforGeeks, nil
	case student.PlatformHackerRank:
		return FileHackerRank, nil
	default:
		return "", fmt.Errorf("ratinglog: no artifact for platform %q", p)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrClosed is returned when appending to a closed writer.
	ErrClosed = errors.New("ratinglog: writer is closed")
)

// ══════════════════════════════════════════════════════════════════════════════
// WRITER
// ══════════════════════════════════════════════════════════════════════════════

// Writer appends rating entries to one artifact file.
type Writer struct {
	f      *os.File
	path   string
	count  int
	closed bool
}

// NewWriter opens (and truncates) the artifact file under dir.
func NewWriter(dir, file string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ratinglog: create log dir: %w", err)
	}

	path := filepath.Join(dir, file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ratinglog: open %s: %w", path, err)
	}

	return &Writer{f: f, path: path}, nil
}

// NewPlatformWriter opens the writer for a platform's rating artifact.
func NewPlatformWriter(dir string, p student.Platform) (*Writer, error) {
	file, err := FileFor(p)
	if err != nil {
		return nil, err
	}
	return NewWriter(dir, file)
}

// Append writes one entry and syncs it to disk before returning. The sync
// keeps already-written entries durable even if the rest of the run dies
// mid-flight.
func (w *Writer) Append(handle student.Handle, platformHandle string, rating int) error {
	if w.closed {
		return ErrClosed
	}

	line := fmt.Sprintf("%s,%s,%d\n", handle, platformHandle, rating)
	if _, err := w.f.WriteString(line); err != nil {
		return fmt.Errorf("ratinglog: write %s: %w", w.path, err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("ratinglog: sync %s: %w", w.path, err)
	}

	w.count++
	return nil
}

// AppendRecord writes the record's observed rating. Records without an
// observed rating are rejected; callers decide whether to zero-fill first.
func (w *Writer) AppendRecord(rec *student.Record) error {
	rating, ok := rec.Rating()
	if !ok {
		return fmt.Errorf("ratinglog: record %s has no observed rating", rec)
	}
	return w.Append(rec.Handle, rec.PlatformHandle, rating)
}

// Count returns the number of entries written so far.
func (w *Writer) Count() int {
	return w.count
}

// Path returns the absolute path of the artifact file.
func (w *Writer) Path() string {
	return w.path
}

// Close closes the underlying file. Safe to call twice.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}
