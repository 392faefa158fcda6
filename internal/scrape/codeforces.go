package scrape

import (
	"context"
	"log/slog"

	"github.com/coderank-hub/coderank/internal/batch"
	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/codeforces"
	"github.com/coderank-hub/coderank/internal/ratinglog"
)

// DefaultChunkSize is how many handles ride in one user.info request.
// The API accepts a few hundred; this stays safely under the URL length
// limit.
const DefaultChunkSize = 380

// Codeforces collects ratings in batches through the official user.info
// endpoint. A failed batch (one unknown handle poisons the whole request)
// is logged and skipped; the remaining batches still run.
type Codeforces struct {
	client    *codeforces.Client
	chunkSize int
	logDir    string
	logger    *slog.Logger
}

// NewCodeforces creates the Codeforces collector.
func NewCodeforces(client *codeforces.Client, chunkSize int, logDir string, logger *slog.Logger) *Codeforces {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codeforces{client: client, chunkSize: chunkSize, logDir: logDir, logger: logger}
}

// Platform implements Collector.
func (s *Codeforces) Platform() student.Platform {
	return student.PlatformCodeforces
}

// Run implements Collector.
func (s *Codeforces) Run(ctx context.Context, records []*student.Record) ([]*student.Record, error) {
	w, err := ratinglog.NewPlatformWriter(s.logDir, student.PlatformCodeforces)
	if err != nil {
		return records, err
	}
	defer w.Close()

	total := len(records)
	done := 0

	for _, chunk := range batch.Chunk(records, s.chunkSize) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		handles := make([]string, len(chunk))
		for i, rec := range chunk {
			handles[i] = cleanHandle(rec.PlatformHandle)
		}

		users, err := s.client.UserInfo(ctx, handles)
		if err != nil {
			s.logger.Error("codeforces batch failed, skipping",
				"batch_size", len(chunk),
				"error", err,
			)
			continue
		}

		// Resolve response rows back to records; the API may reorder and
		// re-case handles.
		idx := student.NewIndex(chunk)
		for _, u := range users {
			rec, ok := idx.Lookup(u.Handle)
			if !ok {
				s.logger.Warn("codeforces returned unknown handle", "platform_handle", u.Handle)
				continue
			}

			// Accounts that never entered a rated contest omit the field.
			rating := 0
			if u.Rating != nil {
				rating = *u.Rating
			}

			rec.SetRating(rating)
			if err := w.AppendRecord(rec); err != nil {
				return records, err
			}

			done++
			progress(s.logger, s.Platform(), done, total, rec, rating)
		}
	}

	s.logger.Info("codeforces collection completed", "entries", w.Count())
	return records, nil
}
