package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/codechef"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

// CodeChef collects ratings one student at a time from the CodeChef
// profile API.
//
// This is the strict collector: the profile API answers 404/400 when a
// handle has vanished, and a vanished handle means the roster is stale, so
// the run is aborted rather than papered over. A profile that exists but
// carries no rating is an unrated account and is skipped quietly.
type CodeChef struct {
	client *codechef.Client
	logDir string
	logger *slog.Logger
}

// NewCodeChef creates the CodeChef collector.
func NewCodeChef(client *codechef.Client, logDir string, logger *slog.Logger) *CodeChef {
	if logger == nil {
		logger = slog.Default()
	}
	return &CodeChef{client: client, logDir: logDir, logger: logger}
}

// Platform implements Collector.
func (s *CodeChef) Platform() student.Platform {
	return student.PlatformCodeChef
}

// Run implements Collector.
func (s *CodeChef) Run(ctx context.Context, records []*student.Record) ([]*student.Record, error) {
	w, err := ratinglog.NewPlatformWriter(s.logDir, student.PlatformCodeChef)
	if err != nil {
		return records, err
	}
	defer w.Close()

	total := len(records)
	for i, rec := range records {
		handle := cleanHandle(rec.PlatformHandle)

		rating, err := s.client.Rating(ctx, handle)
		if err != nil {
			if errors.Is(err, codechef.ErrRatingUnavailable) {
				s.logger.Warn("skipping unrated codechef profile",
					"handle", rec.Handle.String(),
					"platform_handle", handle,
				)
				continue
			}
			if httpapi.IsClientError(err) {
				return records, fmt.Errorf("codechef handle %s for student %s does not exist: %w",
					handle, rec.Handle, err)
			}
			return records, fmt.Errorf("codechef collection aborted at student %s: %w", rec.Handle, err)
		}

		rec.SetRating(rating)
		if err := w.AppendRecord(rec); err != nil {
			return records, err
		}

		progress(s.logger, s.Platform(), i+1, total, rec, rating)
	}

	s.logger.Info("codechef collection completed", "entries", w.Count())
	return records, nil
}
