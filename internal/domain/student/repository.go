package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// RosterEntry is one student's row in the roster store: the roster handle
// plus the per-platform usernames and the verified-existence flags produced
// by the username verifier.
type RosterEntry struct {
	// Handle is the student's roster handle (primary key).
	Handle Handle

	// PlatformHandles maps each platform to the student's username there.
	// A missing or empty entry means the student has no account on that
	// platform.
	PlatformHandles map[Platform]string

	// PlatformExists records whether the username was verified to exist.
	// Entries default to false until a verification run flips them.
	PlatformExists map[Platform]bool
}

// NewRosterEntry creates an empty roster entry for a handle.
func NewRosterEntry(handle Handle) *RosterEntry {
	return &RosterEntry{
		Handle:          handle,
		PlatformHandles: make(map[Platform]string),
		PlatformExists:  make(map[Platform]bool),
	}
}

// HandleFor returns the student's username on the platform, if any.
func (e *RosterEntry) HandleFor(p Platform) (string, bool) {
	h, ok := e.PlatformHandles[p]
	if !ok || h == "" {
		return "", false
	}
	return h, true
}

// ExistsOn reports whether the platform username was verified to exist.
func (e *RosterEntry) ExistsOn(p Platform) bool {
	return e.PlatformExists[p]
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract against the roster store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository defines the operations the run driver and the loaders
// need against the roster store.
type RosterRepository interface {
	// Upsert inserts or fully replaces a roster entry.
	Upsert(ctx context.Context, entry *RosterEntry) error

	// ListByPlatform returns entries that have a non-empty username on the
	// platform AND a true existence flag, ordered by handle.
	ListByPlatform(ctx context.Context, p Platform) ([]*RosterEntry, error)

	// ListAll returns every roster entry, ordered by handle.
	ListAll(ctx context.Context) ([]*RosterEntry, error)

	// SetExists updates the existence flag for one student on one platform.
	SetExists(ctx context.Context, handle Handle, p Platform, exists bool) error

	// Count returns the number of roster entries.
	Count(ctx context.Context) (int, error)
}
