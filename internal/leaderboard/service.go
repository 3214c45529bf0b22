// Package leaderboard serves the ranking of visible users.
package leaderboard

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
)

const cacheKey = "leaderboard"

// Store lists visible users ordered by highscore desc, then name asc.
type Store interface {
	ListLeaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

type Service struct {
	store Store
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time
}

// NewService builds the service. A ttl of zero disables caching.
func NewService(store Store, ttl time.Duration) (*Service, error) {
	s := &Service{store: store, ttl: ttl, now: time.Now}
	if ttl <= 0 {
		return s, nil
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 16
	cfg.MaxEntrySize = 64 << 10
	cfg.CleanWindow = ttl
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("leaderboard cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// List returns the full leaderboard, served from cache while fresh.
func (s *Service) List(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	if entries, ok := s.cached(); ok {
		return entries, nil
	}
	entries, err := s.store.ListLeaderboard(ctx, 0)
	if err != nil {
		return nil, err
	}
	s.remember(entries)
	return entries, nil
}

// Invalidate drops the cached ranking so the next List hits the store.
func (s *Service) Invalidate() {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(cacheKey)
}

// Close releases the cache.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// Cached values are an 8-byte big-endian unix-nano stamp followed by JSON.
// bigcache only evicts on its clean window, so freshness is checked here.
func (s *Service) cached() ([]entity.LeaderboardEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(cacheKey)
	if err != nil || len(raw) < 8 {
		return nil, false
	}
	stamp := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:8])))
	if s.now().Sub(stamp) >= s.ttl {
		return nil, false
	}
	var entries []entity.LeaderboardEntry
	if err := json.Unmarshal(raw[8:], &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *Service) remember(entries []entity.LeaderboardEntry) {
	if s.cache == nil {
		return
	}
	body, err := json.Marshal(entries)
	if err != nil {
		return
	}
	buf := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint64(buf, uint64(s.now().UnixNano()))
	_ = s.cache.Set(cacheKey, append(buf, body...))
}
