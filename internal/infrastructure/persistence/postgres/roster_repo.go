// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// platformColumns maps each platform to its handle and existence columns
// of the roster table.
var platformColumns = map[student.Platform]struct{ handle, exists string }{
	student.PlatformGeeksforGeeks: {"gfg_handle", "gfg_exists"},
	student.PlatformCodeforces:    {"codeforces_handle", "codeforces_exists"},
	student.PlatformLeetCode:      {"leetcode_handle", "leetcode_exists"},
	student.PlatformCodeChef:      {"codechef_handle", "codechef_exists"},
	student.PlatformHackerRank:    {"hackerrank_handle", "hackerrank_exists"},
}

// RosterRepository implements student.RosterRepository for PostgreSQL.
// Queries run through the database retrier, so a briefly dropped pool
// connection does not abort the run that issued them.
type RosterRepository struct {
	db      Querier
	retrier *retry.Retrier
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{db: conn, retrier: retry.DatabaseRetrier()}
}

const rosterColumns = `handle,
	gfg_handle, codeforces_handle, leetcode_handle, codechef_handle, hackerrank_handle,
	gfg_exists, codeforces_exists, leetcode_exists, codechef_exists, hackerrank_exists`

// Upsert inserts or fully replaces a roster entry.
func (r *RosterRepository) Upsert(ctx context.Context, e *student.RosterEntry) error {
	query := `
		INSERT INTO roster (` + rosterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (handle) DO UPDATE SET
			gfg_handle = EXCLUDED.gfg_handle,
			codeforces_handle = EXCLUDED.codeforces_handle,
			leetcode_handle = EXCLUDED.leetcode_handle,
			codechef_handle = EXCLUDED.codechef_handle,
			hackerrank_handle = EXCLUDED.hackerrank_handle,
			gfg_exists = EXCLUDED.gfg_exists,
			codeforces_exists = EXCLUDED.codeforces_exists,
			leetcode_exists = EXCLUDED.leetcode_exists,
			codechef_exists = EXCLUDED.codechef_exists,
			hackerrank_exists = EXCLUDED.hackerrank_exists
	`

	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			e.Handle.String(),
			e.PlatformHandles[student.PlatformGeeksforGeeks],
			e.PlatformHandles[student.PlatformCodeforces],
			e.PlatformHandles[student.PlatformLeetCode],
			e.PlatformHandles[student.PlatformCodeChef],
			e.PlatformHandles[student.PlatformHackerRank],
			e.PlatformExists[student.PlatformGeeksforGeeks],
			e.PlatformExists[student.PlatformCodeforces],
			e.PlatformExists[student.PlatformLeetCode],
			e.PlatformExists[student.PlatformCodeChef],
			e.PlatformExists[student.PlatformHackerRank],
		)
		if err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert roster entry %s: %w", e.Handle, err)
	}

	return nil
}

// ListByPlatform returns entries with a non-empty username on the platform
// and a verified existence flag, ordered by handle.
func (r *RosterRepository) ListByPlatform(ctx context.Context, p student.Platform) ([]*student.RosterEntry, error) {
	cols, ok := platformColumns[p]
	if !ok {
		return nil, fmt.Errorf("postgres: %w: %q", student.ErrUnknownPlatform, p)
	}

	query := fmt.Sprintf(`
		SELECT `+rosterColumns+`
		FROM roster
		WHERE %s <> '' AND %s
		ORDER BY handle
	`, cols.handle, cols.exists)

	return r.list(ctx, query)
}

// ListAll returns every roster entry, ordered by handle.
func (r *RosterRepository) ListAll(ctx context.Context) ([]*student.RosterEntry, error) {
	query := `
		SELECT ` + rosterColumns + `
		FROM roster
		ORDER BY handle
	`
	return r.list(ctx, query)
}

// SetExists updates the existence flag for one student on one platform.
func (r *RosterRepository) SetExists(ctx context.Context, handle student.Handle, p student.Platform, exists bool) error {
	cols, ok := platformColumns[p]
	if !ok {
		return fmt.Errorf("postgres: %w: %q", student.ErrUnknownPlatform, p)
	}

	query := fmt.Sprintf("UPDATE roster SET %s = $1 WHERE handle = $2", cols.exists)

	return r.retrier.Do(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, exists, handle.String())
		if err != nil {
			return retry.Retryable(fmt.Errorf("failed to update existence flag for %s: %w", handle, err))
		}
		if tag.RowsAffected() == 0 {
			// An unknown handle stays unknown on retry.
			return retry.Permanent(fmt.Errorf("postgres: roster entry %s not found: %w", handle, ErrNoRows))
		}
		return nil
	})
}

// Count returns the number of roster entries.
func (r *RosterRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM roster").Scan(&count); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count roster entries: %w", err)
	}
	return count, nil
}

func (r *RosterRepository) list(ctx context.Context, query string) ([]*student.RosterEntry, error) {
	var entries []*student.RosterEntry

	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return retry.Retryable(fmt.Errorf("failed to query roster: %w", err))
		}
		defer rows.Close()

		var scanned []*student.RosterEntry
		for rows.Next() {
			var (
				handle                   string
				gfg, cf, lc, cc, hr      string
				gfgE, cfE, lcE, ccE, hrE bool
			)

			if err := rows.Scan(&handle, &gfg, &cf, &lc, &cc, &hr, &gfgE, &cfE, &lcE, &ccE, &hrE); err != nil {
				return retry.Retryable(fmt.Errorf("failed to scan roster row: %w", err))
			}

			entry := student.NewRosterEntry(student.Handle(handle))
			entry.PlatformHandles[student.PlatformGeeksforGeeks] = gfg
			entry.PlatformHandles[student.PlatformCodeforces] = cf
			entry.PlatformHandles[student.PlatformLeetCode] = lc
			entry.PlatformHandles[student.PlatformCodeChef] = cc
			entry.PlatformHandles[student.PlatformHackerRank] = hr
			entry.PlatformExists[student.PlatformGeeksforGeeks] = gfgE
			entry.PlatformExists[student.PlatformCodeforces] = cfE
			entry.PlatformExists[student.PlatformLeetCode] = lcE
			entry.PlatformExists[student.PlatformCodeChef] = ccE
			entry.PlatformExists[student.PlatformHackerRank] = hrE

			scanned = append(scanned, entry)
		}
		if err := rows.Err(); err != nil {
			return retry.Retryable(fmt.Errorf("failed to read roster rows: %w", err))
		}

		entries = scanned
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
