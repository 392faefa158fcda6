package scrape

import (
	"io"
	"log/slog"
	"time"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
)

// Shared helpers for the collector tests.

func fastHTTP() *httpapi.Client {
	cfg := httpapi.DefaultClientConfig()
	cfg.RateLimiterConfig = httpapi.RateLimiterConfig{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		WaitTimeout:       time.Second,
	}
	cfg.MaxRetries = 0
	return httpapi.NewClient(cfg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeRecords(platform student.Platform, pairs ...string) []*student.Record {
	// pairs alternate: roster handle, platform handle.
	records := make([]*student.Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		records = append(records, student.NewRecord(student.Handle(pairs[i]), platform, pairs[i+1]))
	}
	return records
}
