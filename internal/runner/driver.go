// Package runner drives aggregation runs: it selects the roster slice for
// the requested mode, hands it to the platform collectors, and publishes
// the results downstream.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/ratinglog"
	"github.com/coderank-hub/coderank/internal/scrape"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODES
// ══════════════════════════════════════════════════════════════════════════════

// Mode selects what a run does: one platform name runs that collector
// alone, "all" runs every collector, "build-leaderboard" checks the
// collected artifacts, "verify" re-checks roster usernames.
type Mode string

const (
	ModeCodeChef         Mode = "codechef"
	ModeCodeforces       Mode = "codeforces"
	ModeLeetCode         Mode = "leetcode"
	ModeGeeksforGeeks    Mode = "gfg"
	ModeHackerRank       Mode = "hackerrank"
	ModeAll              Mode = "all"
	ModeBuildLeaderboard Mode = "build-leaderboard"
	ModeVerify           Mode = "verify"
)

// ParseMode parses a mode argument.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeCodeChef, ModeCodeforces, ModeLeetCode, ModeGeeksforGeeks,
		ModeHackerRank, ModeAll, ModeBuildLeaderboard, ModeVerify:
		return m, nil
	default:
		return "", fmt.Errorf("runner: unknown mode %q", s)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATOR INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotPublisher receives the observed ratings of a finished collector
// run. Implemented by the Redis snapshot cache; nil disables publishing.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, p student.Platform, ratings map[string]int) error
}

// Verifier re-checks that roster usernames still exist on their platforms.
type Verifier interface {
	Run(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// DRIVER
// ══════════════════════════════════════════════════════════════════════════════

// Driver owns one aggregation run.
type Driver struct {
	repo       student.RosterRepository
	collectors map[student.Platform]scrape.Collector
	snapshots  SnapshotPublisher
	verifier   Verifier
	logDir     string
	logger     *slog.Logger
}

// New creates a run driver over the given collectors.
func New(repo student.RosterRepository, collectors []scrape.Collector, snapshots SnapshotPublisher, verifier Verifier, logDir string, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	byPlatform := make(map[student.Platform]scrape.Collector, len(collectors))
	for _, c := range collectors {
		byPlatform[c.Platform()] = c
	}

	return &Driver{
		repo:       repo,
		collectors: byPlatform,
		snapshots:  snapshots,
		verifier:   verifier,
		logDir:     logDir,
		logger:     logger,
	}
}

// Run executes one run in the given mode. Every log line of the run
// carries a fresh run ID.
func (d *Driver) Run(ctx context.Context, mode Mode) error {
	runID := uuid.New().String()
	log := d.logger.With("run_id", runID, "mode", string(mode))
	log.Info("run started")

	var err error
	switch mode {
	case ModeAll:
		err = d.runAll(ctx, log)
	case ModeBuildLeaderboard:
		err = d.buildLeaderboard(log)
	case ModeVerify:
		if d.verifier == nil {
			err = fmt.Errorf("runner: no verifier configured")
		} else {
			err = d.verifier.Run(ctx)
		}
	default:
		err = d.runPlatform(ctx, log, student.Platform(mode))
	}

	if err != nil {
		log.Error("run failed", "error", err)
		return err
	}
	log.Info("run completed")
	return nil
}

// runPlatform runs one collector over the verified roster slice for its
// platform: students with a non-empty username whose existence flag is set.
func (d *Driver) runPlatform(ctx context.Context, log *slog.Logger, p student.Platform) error {
	collector, ok := d.collectors[p]
	if !ok {
		return fmt.Errorf("runner: no collector for platform %q", p)
	}

	entries, err := d.repo.ListByPlatform(ctx, p)
	if err != nil {
		return fmt.Errorf("runner: list roster for %s: %w", p, err)
	}

	records := make([]*student.Record, 0, len(entries))
	for _, e := range entries {
		h, ok := e.HandleFor(p)
		if !ok {
			continue
		}
		records = append(records, student.NewRecord(e.Handle, p, h))
	}

	return d.collect(ctx, log, collector, records)
}

// runAll runs every collector in fixed order over the full roster,
// ignoring existence flags: a full run gives every listed username a
// chance. The CodeChef list additionally drops the sheet's #N/A sentinel,
// which that platform's roster column stores verbatim.
func (d *Driver) runAll(ctx context.Context, log *slog.Logger) error {
	entries, err := d.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("runner: list roster: %w", err)
	}

	for _, p := range student.AllPlatforms() {
		collector, ok := d.collectors[p]
		if !ok {
			return fmt.Errorf("runner: no collector for platform %q", p)
		}

		records := make([]*student.Record, 0, len(entries))
		for _, e := range entries {
			h, ok := e.HandleFor(p)
			if !ok {
				continue
			}
			if p == student.PlatformCodeChef && h == "#N/A" {
				continue
			}
			records = append(records, student.NewRecord(e.Handle, p, h))
		}

		if err := d.collect(ctx, log, collector, records); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) collect(ctx context.Context, log *slog.Logger, collector scrape.Collector, records []*student.Record) error {
	p := collector.Platform()
	log.Info("collector started", "platform", p.String(), "students", len(records))

	records, err := collector.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("runner: %s collector: %w", p, err)
	}

	d.publish(ctx, log, p, records)
	return nil
}

// publish pushes the observed ratings to the snapshot cache. Publishing is
// best effort: the artifact files are the contract, the cache is not.
func (d *Driver) publish(ctx context.Context, log *slog.Logger, p student.Platform, records []*student.Record) {
	if d.snapshots == nil {
		return
	}

	ratings := make(map[string]int)
	for _, rec := range records {
		if rating, ok := rec.Rating(); ok {
			ratings[rec.Handle.String()] = rating
		}
	}

	if err := d.snapshots.PublishSnapshot(ctx, p, ratings); err != nil {
		log.Warn("snapshot publish failed", "platform", p.String(), "error", err)
		return
	}
	log.Info("snapshot published", "platform", p.String(), "students", len(ratings))
}

// buildLeaderboard validates the collected artifacts. The ranking itself
// is produced by the downstream sheet tooling; this mode confirms the
// input contract holds and reports per-platform entry counts.
func (d *Driver) buildLeaderboard(log *slog.Logger) error {
	files := []string{
		ratinglog.FileCodeChef,
		ratinglog.FileCodeforces,
		ratinglog.FileLeetCode,
		ratinglog.FileGeeksforGeeks,
		ratinglog.FileGfgPractice,
		ratinglog.FileHackerRank,
	}

	for _, file := range files {
		path := filepath.Join(d.logDir, file)
		entries, err := ratinglog.ReadFile(path)
		if err != nil {
			return fmt.Errorf("runner: build-leaderboard: %w", err)
		}
		log.Info("artifact validated", "file", file, "entries", len(entries))
	}
	return nil
}
