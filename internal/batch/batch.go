// Package batch provides chunking and page-scan helpers for the platform
// collectors. Codeforces caps the handles per request, and the leaderboard
// platforms paginate without a reliable end-of-data signal, so both loops
// need hard bounds.
package batch

import (
	"context"
	"errors"
)

// ErrStopScan signals a page callback wants to terminate the scan early.
// The scan returns nil in that case.
var ErrStopScan = errors.New("batch: stop scan")

// Chunk splits items into consecutive chunks of at most size elements.
// The last chunk carries the remainder. A non-positive size yields a
// single chunk with everything.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Scan drives a page loop from page 1 up to and including ceiling. The
// callback returns ErrStopScan to end the scan cleanly; any other error
// aborts it. The ceiling guarantees termination even when the server never
// signals the last page.
func Scan(ctx context.Context, ceiling int, fn func(page int) error) error {
	for page := 1; page <= ceiling; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(page); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}

// ScanOffsets drives an offset loop: 0, step, 2*step, ... while offset is
// below ceiling. Same stop semantics as Scan.
func ScanOffsets(ctx context.Context, step, ceiling int, fn func(offset int) error) error {
	if step <= 0 {
		return errors.New("batch: offset step must be positive")
	}
	for offset := 0; offset < ceiling; offset += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(offset); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}
