// Package student contains the domain model of the rating pipeline.
// This is the core of the business logic - no external dependencies here.
package student

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Handle represents a student's roster handle (the college roll number).
type Handle string

// IsValid checks that the handle is non-empty and has no whitespace.
func (h Handle) IsValid() bool {
	s := string(h)
	return len(s) >= 2 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the handle.
func (h Handle) String() string {
	return string(h)
}

// ══════════════════════════════════════════════════════════════════════════════
// PLATFORMS
// ══════════════════════════════════════════════════════════════════════════════

// Platform identifies one of the supported competitive programming platforms.
type Platform string

const (
	PlatformCodeChef      Platform = "codechef"
	PlatformCodeforces    Platform = "codeforces"
	PlatformLeetCode      Platform = "leetcode"
	PlatformGeeksforGeeks Platform = "gfg"
	PlatformHackerRank    Platform = "hackerrank"
)

// AllPlatforms returns the supported platforms in the order they are
// processed during a full aggregation run.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformCodeChef,
		PlatformCodeforces,
		PlatformLeetCode,
		PlatformGeeksforGeeks,
		PlatformHackerRank,
	}
}

// IsValid checks that the platform is one of the supported ones.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformCodeChef, PlatformCodeforces, PlatformLeetCode,
		PlatformGeeksforGeeks, PlatformHackerRank:
		return true
	default:
		return false
	}
}

// String returns the platform identifier used in CLI modes and file names.
func (p Platform) String() string {
	return string(p)
}

// DisplayName returns the human-readable platform name for log output.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformCodeChef:
		return "CodeChef"
	case PlatformCodeforces:
		return "Codeforces"
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformGeeksforGeeks:
		return "GeeksforGeeks"
	case PlatformHackerRank:
		return "HackerRank"
	default:
		return string(p)
	}
}

// ParsePlatform parses a platform identifier as it appears on the CLI.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrUnknownPlatform is returned when a platform identifier is not recognized.
	ErrUnknownPlatform = errors.New("student: unknown platform")

	// ErrInvalidHandle is returned when a roster handle fails validation.
	ErrInvalidHandle = errors.New("student: invalid handle")

	// ErrEmptyPlatformHandle is returned when a record is built without a
	// platform handle.
	ErrEmptyPlatformHandle = errors.New("student: empty platform handle")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record represents one student on one platform during a single aggregation
// run. It is created from the roster at the start of a run, mutated by
// exactly one platform collector, and never persisted.
//
// The rating is optional: a record whose rating was never observed is
// distinct from a record rated 0. Use Rating to distinguish the two.
type Record struct {
	// Handle is the student's roster handle.
	Handle Handle

	// Platform is the platform this record belongs to.
	Platform Platform

	// PlatformHandle is the student's username on the platform.
	PlatformHandle string

	rating int
	rated  bool
}

// NewRecord creates a record with an unset rating.
func NewRecord(handle Handle, platform Platform, platformHandle string) *Record {
	return &Record{
		Handle:         handle,
		Platform:       platform,
		PlatformHandle: platformHandle,
	}
}

// Rating returns the observed rating and whether one was observed at all.
func (r *Record) Rating() (int, bool) {
	return r.rating, r.rated
}

// SetRating records an observed rating, replacing any previous value.
func (r *Record) SetRating(rating int) {
	r.rating = rating
	r.rated = true
}

// AddRating accumulates a score into the rating. The first call behaves
// like SetRating; later calls add to the running total. HackerRank uses
// this to sum scores across multiple contests.
func (r *Record) AddRating(score int) {
	if !r.rated {
		r.SetRating(score)
		return
	}
	r.rating += score
}

// ClearRating resets the record to the unrated state.
func (r *Record) ClearRating() {
	r.rating = 0
	r.rated = false
}

// String implements fmt.Stringer for debug logging.
func (r *Record) String() string {
	if r.rated {
		return fmt.Sprintf("%s/%s@%s=%d", r.Handle, r.PlatformHandle, r.Platform, r.rating)
	}
	return fmt.Sprintf("%s/%s@%s=unrated", r.Handle, r.PlatformHandle, r.Platform)
}
