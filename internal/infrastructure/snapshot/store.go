package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/publisher"
	"go.uber.org/zap"
)

// defaultTTL bounds how long a stale snapshot survives an abandoned
// series before Redis reclaims the key on its own.
const defaultTTL = 24 * time.Hour

// Store persists the most recent SeriesSnapshot per seriesID, so a
// reconnecting subscriber can fetch current state instead of only
// receiving the next live push.
type Store struct {
	cache *Cache
}

// NewStore builds a Store over cache.
func NewStore(cache *Cache) *Store {
	return &Store{cache: cache}
}

func (s *Store) key(seriesID string) string {
	return fmt.Sprintf("series-snapshot:%s", seriesID)
}

// Save serializes snapshot as JSON and stores it under seriesID. Failures
// are logged and swallowed — the snapshot cache is a convenience, not a
// source of truth, so it follows the Publisher's best-effort contract.
func (s *Store) Save(ctx context.Context, seriesID string, snap publisher.SeriesSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.cache.log.LogError("failed to marshal series snapshot", err, zap.String("series_id", seriesID))
		return
	}
	if err := s.cache.Set(ctx, s.key(seriesID), data, defaultTTL); err != nil {
		s.cache.log.LogError("failed to cache series snapshot", err, zap.String("series_id", seriesID))
	}
}

// Load returns the last saved snapshot for seriesID, and false if none is
// cached (or the cached value could not be decoded).
func (s *Store) Load(ctx context.Context, seriesID string) (publisher.SeriesSnapshot, bool) {
	raw, err := s.cache.Get(ctx, s.key(seriesID))
	if err != nil || raw == "" {
		return publisher.SeriesSnapshot{}, false
	}
	var snap publisher.SeriesSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.cache.log.LogError("failed to decode cached series snapshot", err, zap.String("series_id", seriesID))
		return publisher.SeriesSnapshot{}, false
	}
	return snap, true
}
