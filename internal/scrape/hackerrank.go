package scrape

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coderank-hub/coderank/internal/batch"
	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/hackerrank"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

// HackerRank pagination defaults.
const (
	// DefaultPageLimit is the rows requested per leaderboard page.
	DefaultPageLimit = 100

	// DefaultOffsetCeiling bounds the offset walk per contest.
	DefaultOffsetCeiling = 10000
)

// DefaultContests are the tracked contest slugs whose leaderboards feed
// the HackerRank score.
var DefaultContests = []string{
	"cmrit25-1-basics",
	"cmrit25-4-rbd",
	"cmrit25-3-iterables",
	"cmrit25-2-lpb",
	"cmrit25-5-ds",
	"1-basics-2025",
	"2-loops-2025",
	"3-bitpat-2025",
	"4-iterables-2025",
	"5-recursion-2025",
	"ds-2025",
	"codevita-2025",
}

// HackerRank collects contest scores by walking the leaderboards of the
// tracked contests and summing each student's scores across them. Only
// students who appeared on at least one leaderboard are written out; the
// rest stay unobserved.
type HackerRank struct {
	client        *hackerrank.Client
	contests      []string
	pageLimit     int
	offsetCeiling int
	logDir        string
	logger        *slog.Logger
}

// NewHackerRank creates the HackerRank collector.
func NewHackerRank(client *hackerrank.Client, contests []string, pageLimit, offsetCeiling int, logDir string, logger *slog.Logger) *HackerRank {
	if len(contests) == 0 {
		contests = DefaultContests
	}
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	if offsetCeiling <= 0 {
		offsetCeiling = DefaultOffsetCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HackerRank{
		client:        client,
		contests:      contests,
		pageLimit:     pageLimit,
		offsetCeiling: offsetCeiling,
		logDir:        logDir,
		logger:        logger,
	}
}

// Platform implements Collector.
func (s *HackerRank) Platform() student.Platform {
	return student.PlatformHackerRank
}

// Run implements Collector.
func (s *HackerRank) Run(ctx context.Context, records []*student.Record) ([]*student.Record, error) {
	w, err := ratinglog.NewPlatformWriter(s.logDir, student.PlatformHackerRank)
	if err != nil {
		return records, err
	}
	defer w.Close()

	idx := student.NewIndex(records)

	for _, contest := range s.contests {
		s.logger.Info("walking contest leaderboard", "contest", contest)

		err := batch.ScanOffsets(ctx, s.pageLimit, s.offsetCeiling, func(offset int) error {
			entries, err := s.client.LeaderboardPage(ctx, contest, offset, s.pageLimit)
			if err != nil {
				if errors.Is(err, hackerrank.ErrInvalidContest) {
					// Dead slug: every offset of it would answer the same.
					s.logger.Warn("contest no longer exists, abandoning", "contest", contest)
					return batch.ErrStopScan
				}
				s.logger.Error("leaderboard page failed, skipping",
					"contest", contest,
					"offset", offset,
					"error", err,
				)
				return nil
			}

			if len(entries) == 0 {
				return batch.ErrStopScan
			}

			for _, entry := range entries {
				rec, ok := idx.Lookup(entry.Hacker)
				if !ok {
					s.logger.Warn("leaderboard row not on roster", "platform_handle", entry.Hacker)
					continue
				}

				rec.AddRating(int(entry.Score))
				s.logger.Info("accumulated contest score",
					"contest", contest,
					"handle", rec.Handle.String(),
					"platform_handle", rec.PlatformHandle,
					"score", int(entry.Score),
				)
			}
			return nil
		})
		if err != nil {
			return records, err
		}
	}

	// One summed line per student who appeared anywhere; the rest are
	// omitted on purpose.
	for _, rec := range records {
		rating, ok := rec.Rating()
		if !ok {
			continue
		}
		if err := w.Append(rec.Handle, rec.PlatformHandle, rating); err != nil {
			return records, err
		}
	}

	s.logger.Info("hackerrank collection completed", "entries", w.Count())
	return records, nil
}
