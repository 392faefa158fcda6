package scrape

import (
	"context"
	"log/slog"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/leetcode"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

// LeetCode collects contest ratings one student at a time through the
// GraphQL endpoint. An account with no contest history is a real
// observation and is logged as rating 0.
type LeetCode struct {
	client *leetcode.Client
	logDir string
	logger *slog.Logger
}

// NewLeetCode creates the LeetCode collector.
func NewLeetCode(client *leetcode.Client, logDir string, logger *slog.Logger) *LeetCode {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeetCode{client: client, logDir: logDir, logger: logger}
}

// Platform implements Collector.
func (s *LeetCode) Platform() student.Platform {
	return student.PlatformLeetCode
}

// Run implements Collector.
func (s *LeetCode) Run(ctx context.Context, records []*student.Record) ([]*student.Record, error) {
	w, err := ratinglog.NewPlatformWriter(s.logDir, student.PlatformLeetCode)
	if err != nil {
		return records, err
	}
	defer w.Close()

	total := len(records)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		handle := cleanHandle(rec.PlatformHandle)

		rating, ok, err := s.client.ContestRating(ctx, handle)
		if err != nil {
			s.logger.Error("leetcode lookup failed, skipping",
				"handle", rec.Handle.String(),
				"platform_handle", handle,
				"error", err,
			)
			continue
		}
		if !ok {
			rating = 0
		}

		rec.SetRating(rating)
		if err := w.AppendRecord(rec); err != nil {
			return records, err
		}

		progress(s.logger, s.Platform(), i+1, total, rec, rating)
	}

	s.logger.Info("leetcode collection completed", "entries", w.Count())
	return records, nil
}
