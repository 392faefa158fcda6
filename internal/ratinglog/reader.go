package ratinglog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// READER
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one parsed line of a rating log artifact.
type Entry struct {
	Handle         student.Handle
	PlatformHandle string
	Rating         int
}

// ReadFile parses a rating log artifact. The leaderboard builder uses this
// to validate its inputs; tests use it to assert on written artifacts.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ratinglog: open %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("ratinglog: %s:%d: want 3 fields, got %d", path, lineNo, len(parts))
		}

		rating, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("ratinglog: %s:%d: bad rating %q: %w", path, lineNo, parts[2], err)
		}

		entries = append(entries, Entry{
			Handle:         student.Handle(strings.TrimSpace(parts[0])),
			PlatformHandle: strings.TrimSpace(parts[1]),
			Rating:         rating,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ratinglog: read %s: %w", path, err)
	}

	return entries, nil
}
