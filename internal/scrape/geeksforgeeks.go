package scrape

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coderank-hub/coderank/internal/batch"
	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/geeksforgeeks"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

// DefaultPageCeiling bounds the contest leaderboard scan. The leaderboard
// is sorted by score, so the scan normally ends long before this at the
// first zero-score row.
const DefaultPageCeiling = 10000

// GeeksforGeeks collects two artifacts in one run: the weekly contest
// score (scanned off the global leaderboard) and the practice coding score
// (fetched per profile). Only the contest score becomes the record's
// rating; the practice score goes to its own log file.
type GeeksforGeeks struct {
	client      *geeksforgeeks.Client
	pageCeiling int
	logDir      string
	logger      *slog.Logger
}

// NewGeeksforGeeks creates the GeeksforGeeks collector.
func NewGeeksforGeeks(client *geeksforgeeks.Client, pageCeiling int, logDir string, logger *slog.Logger) *GeeksforGeeks {
	if pageCeiling <= 0 {
		pageCeiling = DefaultPageCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeeksforGeeks{client: client, pageCeiling: pageCeiling, logDir: logDir, logger: logger}
}

// Platform implements Collector.
func (s *GeeksforGeeks) Platform() student.Platform {
	return student.PlatformGeeksforGeeks
}

// Run implements Collector.
func (s *GeeksforGeeks) Run(ctx context.Context, records []*student.Record) ([]*student.Record, error) {
	if err := s.runContestScan(ctx, records); err != nil {
		return records, err
	}
	if err := s.runPracticeScan(ctx, records); err != nil {
		return records, err
	}
	return records, nil
}

// runContestScan walks the weekly contest leaderboard page by page and
// resolves rows back to roster students. The first zero-score row ends
// the scan: everyone below it scored nothing. Students never seen on the
// leaderboard are zero-filled afterwards, exactly once each.
func (s *GeeksforGeeks) runContestScan(ctx context.Context, records []*student.Record) error {
	w, err := ratinglog.NewPlatformWriter(s.logDir, student.PlatformGeeksforGeeks)
	if err != nil {
		return err
	}
	defer w.Close()

	idx := student.NewIndex(records)
	total := len(records)
	done := 0

	var writeErr error
	err = batch.Scan(ctx, s.pageCeiling, func(page int) error {
		s.logger.Info("scanning contest leaderboard page", "page", page)

		entries, err := s.client.ContestPage(ctx, page)
		if err != nil {
			s.logger.Error("contest page fetch failed, skipping", "page", page, "error", err)
			return nil
		}

		for _, entry := range entries {
			if entry.UserScore == 0 {
				return batch.ErrStopScan
			}

			rec, ok := idx.Lookup(entry.UserHandle)
			if !ok {
				continue
			}

			score := int(entry.UserScore)
			rec.SetRating(score)
			if err := w.Append(rec.Handle, entry.UserHandle, score); err != nil {
				writeErr = err
				return batch.ErrStopScan
			}

			done++
			progress(s.logger, s.Platform(), done, total, rec, score)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	// Zero-fill the students the leaderboard never mentioned.
	for _, rec := range records {
		if _, rated := rec.Rating(); rated {
			continue
		}
		rec.SetRating(0)
		if err := w.AppendRecord(rec); err != nil {
			return err
		}
		done++
		progress(s.logger, s.Platform(), done, total, rec, 0)
	}

	s.logger.Info("gfg contest collection completed", "entries", w.Count())
	return nil
}

// runPracticeScan fetches the practice coding score per profile into the
// separate practice artifact. A missing profile or a profile without the
// score field is recorded as 0 so the artifact still covers the roster.
func (s *GeeksforGeeks) runPracticeScan(ctx context.Context, records []*student.Record) error {
	w, err := ratinglog.NewWriter(s.logDir, ratinglog.FileGfgPractice)
	if err != nil {
		return err
	}
	defer w.Close()

	total := len(records)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		handle := cleanHandle(rec.PlatformHandle)

		score, err := s.client.PracticeScore(ctx, handle)
		switch {
		case err == nil:
		case httpapi.IsClientError(err):
			s.logger.Warn("gfg profile not found, recording zero",
				"handle", rec.Handle.String(),
				"platform_handle", handle,
			)
			score = 0
		case errors.Is(err, geeksforgeeks.ErrScoreUnavailable):
			s.logger.Error("gfg profile has no coding score, recording zero",
				"handle", rec.Handle.String(),
				"platform_handle", handle,
			)
			score = 0
		default:
			s.logger.Error("gfg practice lookup failed, skipping",
				"handle", rec.Handle.String(),
				"platform_handle", handle,
				"error", err,
			)
			continue
		}

		if err := w.Append(rec.Handle, handle, score); err != nil {
			return err
		}

		s.logger.Info("collected practice score",
			"platform", s.Platform().String(),
			"progress", i+1,
			"total", total,
			"handle", rec.Handle.String(),
			"platform_handle", handle,
			"score", score,
		)
	}

	s.logger.Info("gfg practice collection completed", "entries", w.Count())
	return nil
}
