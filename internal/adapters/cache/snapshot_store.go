package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/analytics"
)

const snapshotTTL = 30 * time.Minute

// StreakSnapshotStore holds precomputed streak summaries in Redis. The TTL
// is a backstop; correctness comes from the invalidation contract: every
// submission writer deletes the key before it returns.
type StreakSnapshotStore struct {
	rdb *redis.Client
}

func NewStreakSnapshotStore(rdb *redis.Client) *StreakSnapshotStore {
	return &StreakSnapshotStore{rdb: rdb}
}

func (s *StreakSnapshotStore) key(habitID string) string {
	return fmt.Sprintf("streaks:%s", habitID)
}

// Get returns (nil, nil) on a cache miss. Corrupted payloads are treated as
// misses and evicted.
func (s *StreakSnapshotStore) Get(ctx context.Context, habitID string) (*analytics.StreakSummary, error) {
	val, err := s.rdb.Get(ctx, s.key(habitID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary analytics.StreakSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		log.Printf("[CACHE] Corrupted snapshot for habit %s, cleaning up key", habitID)
		s.rdb.Del(ctx, s.key(habitID))
		return nil, nil
	}

	return &summary, nil
}

func (s *StreakSnapshotStore) Set(ctx context.Context, habitID string, summary *analytics.StreakSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(habitID), data, snapshotTTL).Err()
}

func (s *StreakSnapshotStore) Invalidate(ctx context.Context, habitID string) error {
	return s.rdb.Del(ctx, s.key(habitID)).Err()
}
