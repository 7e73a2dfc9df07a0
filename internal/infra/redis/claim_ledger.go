// Package redis holds the Redis-backed stores: the shared claim ledger the
// contract writes and the advisory oracle reads, session snapshots, and the
// corpus cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/rewards"
)

// ClaimLedger implements rewards.ClaimLedger on Redis.
// Counts are stored as:     SET claims:{wallet}:{day}:count
// Last claim timestamps as: SET claims:{wallet}:{day}:last
// INCR is atomic, so concurrent claims serialize: the increment that lands
// past the cap is rolled back with DECR and rejected.
type ClaimLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClaimLedger builds the ledger. Keys expire after ttl (day-scoped keys
// make expiry housekeeping only; two days is plenty).
func NewClaimLedger(client *redis.Client, ttl time.Duration) *ClaimLedger {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &ClaimLedger{client: client, ttl: ttl}
}

func (l *ClaimLedger) Info(ctx context.Context, wallet string, day uint64) (domain.ClaimInfo, error) {
	count, err := l.client.Get(ctx, l.countKey(wallet, day)).Uint64()
	if err == redis.Nil {
		return domain.ClaimInfo{}, nil
	}
	if err != nil {
		return domain.ClaimInfo{}, fmt.Errorf("read claim count: %w", err)
	}

	last, err := l.client.Get(ctx, l.lastKey(wallet, day)).Int64()
	if err != nil && err != redis.Nil {
		return domain.ClaimInfo{}, fmt.Errorf("read last claim: %w", err)
	}
	return domain.ClaimInfo{Count: count, LastClaimTimestamp: last}, nil
}

func (l *ClaimLedger) Record(ctx context.Context, wallet string, day uint64, timestamp int64, max uint64) (uint64, error) {
	countKey := l.countKey(wallet, day)

	// Increment and expire in one transaction so the count key can never be
	// created without a TTL.
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, countKey)
	pipe.Expire(ctx, countKey, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment claim count: %w", err)
	}
	count := incr.Val()
	if uint64(count) > max {
		_ = l.client.Decr(ctx, countKey).Err()
		return max, rewards.ErrDailyLimitReached
	}

	if err := l.client.Set(ctx, l.lastKey(wallet, day), timestamp, l.ttl).Err(); err != nil {
		return uint64(count), fmt.Errorf("record claim timestamp: %w", err)
	}
	return uint64(count), nil
}

func (l *ClaimLedger) countKey(wallet string, day uint64) string {
	return fmt.Sprintf("claims:%s:%d:count", wallet, day)
}

func (l *ClaimLedger) lastKey(wallet string, day uint64) string {
	return fmt.Sprintf("claims:%s:%d:last", wallet, day)
}
