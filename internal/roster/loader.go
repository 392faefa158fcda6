// Package roster loads the student roster from its CSV export and feeds
// it into the roster store. The CSV is the single source of truth for who
// is tracked and under which platform usernames; a malformed row aborts
// the load before any collection runs against a half-loaded roster.
package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV LAYOUT
// ══════════════════════════════════════════════════════════════════════════════

// Column positions of the roster CSV export.
const (
	colHandle = iota
	colGfgHandle
	colCodeforcesHandle
	colLeetCodeHandle
	colCodeChefHandle
	colHackerRankHandle
	colGfgExists
	colCodeforcesExists
	colLeetCodeExists
	colCodeChefExists
	colHackerRankExists

	columnCount
)

// missingHandle is the sheet's sentinel for an account the student never
// registered. It is normalized to an absent handle for every platform
// except CodeChef, where downstream filtering matches it verbatim.
const missingHandle = "#N/A"

// platformColumns maps each platform to its handle and existence columns.
var platformColumns = map[student.Platform]struct{ handle, exists int }{
	student.PlatformGeeksforGeeks: {colGfgHandle, colGfgExists},
	student.PlatformCodeforces:    {colCodeforcesHandle, colCodeforcesExists},
	student.PlatformLeetCode:      {colLeetCodeHandle, colLeetCodeExists},
	student.PlatformCodeChef:      {colCodeChefHandle, colCodeChefExists},
	student.PlatformHackerRank:    {colHackerRankHandle, colHackerRankExists},
}

// ══════════════════════════════════════════════════════════════════════════════
// LOADER
// ══════════════════════════════════════════════════════════════════════════════

// Loader parses the roster CSV and upserts entries into the store.
type Loader struct {
	repo   student.RosterRepository
	logger *slog.Logger
}

// NewLoader creates a roster loader.
func NewLoader(repo student.RosterRepository, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{repo: repo, logger: logger}
}

// Load parses the CSV file at path into roster entries. The header row is
// skipped, as are placeholder rows whose handle starts with "None" or
// "TOTAL". Any other parse failure is fatal.
func Load(path string) ([]*student.RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	return entries, nil
}

// LoadAndStore loads the CSV and upserts every entry into the store.
// Returns the number of entries stored.
func (l *Loader) LoadAndStore(ctx context.Context, path string) (int, error) {
	entries, err := Load(path)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if err := l.repo.Upsert(ctx, entry); err != nil {
			return 0, fmt.Errorf("roster: store %s: %w", entry.Handle, err)
		}
	}

	l.logger.Info("roster loaded", "path", path, "students", len(entries))
	return len(entries), nil
}

func parse(r io.Reader) ([]*student.RosterEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columnCount

	var entries []*student.RosterEntry
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		handle := strings.TrimSpace(row[colHandle])
		if line == 1 && handle == "Handle" {
			continue
		}
		// Placeholder rows at the bottom of the sheet.
		if strings.HasPrefix(handle, "None") || strings.HasPrefix(handle, "TOTAL") {
			continue
		}
		if handle == "" {
			return nil, fmt.Errorf("line %d: empty student handle", line)
		}

		entry := student.NewRosterEntry(student.Handle(handle))
		for p, cols := range platformColumns {
			h := strings.TrimSpace(row[cols.handle])
			if h == missingHandle && p != student.PlatformCodeChef {
				h = ""
			}
			entry.PlatformHandles[p] = h

			exists, err := parseBool(row[cols.exists])
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, cols.exists+1, err)
			}
			entry.PlatformExists[p] = exists
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", v)
	}
}
