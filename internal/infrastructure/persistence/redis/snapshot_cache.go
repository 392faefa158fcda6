package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/coderank-hub/coderank/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATING SNAPSHOT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the cached result of one collector run: the observed rating
// per student handle, stamped with the publish time.
type Snapshot struct {
	Platform    string         `json:"platform"`
	Ratings     map[string]int `json:"ratings"`
	PublishedAt time.Time      `json:"published_at"`
}

// SnapshotCache stores the latest rating snapshot per platform. It backs
// the run driver's optional publish step; readers that can tolerate
// day-old data use it instead of parsing the artifact files.
type SnapshotCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewSnapshotCache creates a snapshot cache with the default TTL.
func NewSnapshotCache(cache *Cache) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: TTLRatingSnapshot}
}

// NewSnapshotCacheWithTTL creates a snapshot cache with a custom TTL.
func NewSnapshotCacheWithTTL(cache *Cache, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: ttl}
}

// PublishSnapshot replaces the platform's snapshot with the given ratings.
func (s *SnapshotCache) PublishSnapshot(ctx context.Context, p student.Platform, ratings map[string]int) error {
	snap := Snapshot{
		Platform:    p.String(),
		Ratings:     ratings,
		PublishedAt: time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, RatingsKey(p.String()), snap, s.ttl); err != nil {
		return fmt.Errorf("snapshot cache: publish %s: %w", p, err)
	}
	return nil
}

// GetSnapshot returns the platform's latest snapshot.
// Returns ErrCacheMiss if no run has published one yet.
func (s *SnapshotCache) GetSnapshot(ctx context.Context, p student.Platform) (*Snapshot, error) {
	var snap Snapshot
	if err := s.cache.Get(ctx, RatingsKey(p.String()), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Invalidate drops the platform's snapshot.
func (s *SnapshotCache) Invalidate(ctx context.Context, p student.Platform) error {
	return s.cache.Delete(ctx, RatingsKey(p.String()))
}
