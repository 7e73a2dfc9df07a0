package memory

import (
	"context"
	"fmt"
	"sync"

	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/rewards"
)

// ClaimLedger is an in-memory implementation of rewards.ClaimLedger. The
// mutex stands in for the chain's transaction serialization: check and
// increment happen under one lock, so the daily cap cannot be raced past.
type ClaimLedger struct {
	mu     sync.Mutex
	claims map[string]domain.ClaimInfo
}

func NewClaimLedger() *ClaimLedger {
	return &ClaimLedger{claims: make(map[string]domain.ClaimInfo)}
}

func (l *ClaimLedger) Info(_ context.Context, wallet string, day uint64) (domain.ClaimInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claims[claimKey(wallet, day)], nil
}

func (l *ClaimLedger) Record(_ context.Context, wallet string, day uint64, timestamp int64, max uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := claimKey(wallet, day)
	info := l.claims[key]
	if info.Count >= max {
		return info.Count, rewards.ErrDailyLimitReached
	}
	info.Count++
	info.LastClaimTimestamp = timestamp
	l.claims[key] = info
	return info.Count, nil
}

func claimKey(wallet string, day uint64) string {
	return fmt.Sprintf("%s:%d", wallet, day)
}
