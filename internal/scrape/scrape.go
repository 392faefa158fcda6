// Package scrape implements the per-platform rating collectors. Each
// collector takes the run's records for its platform, walks the platform's
// endpoints sequentially, and appends every observed rating to the
// platform's rating log before touching the network again.
//
// Error policy: a problem with one student (or one chunk, or one page) is
// logged and skipped so the rest of the batch completes. The one deliberate
// exception is CodeChef, whose API answers 404/400 for vanished handles;
// there a client error aborts the remainder of the collector run.
package scrape

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

// Collector collects ratings for one platform.
type Collector interface {
	// Platform returns the platform this collector serves.
	Platform() student.Platform

	// Run fetches ratings for the given records, logging each observation
	// to the platform's rating artifact. The records are returned with
	// their observed ratings set; requests are strictly sequential.
	Run(ctx context.Context, records []*student.Record) ([]*student.Record, error)
}

// cleanHandle strips the whitespace roster spreadsheets accumulate.
func cleanHandle(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(h), " ", "")
}

// progress logs one "(i/n)" console line per collected student.
func progress(logger *slog.Logger, platform student.Platform, i, n int, rec *student.Record, rating int) {
	logger.Info("collected rating",
		"platform", platform.String(),
		"progress", i,
		"total", n,
		"handle", rec.Handle.String(),
		"platform_handle", rec.PlatformHandle,
		"rating", rating,
	)
}
