package rewards

import (
	"context"
	"fmt"
	"time"
)

// EligibilityOracle answers "can this wallet claim right now". The Contract
// is the authoritative implementation; AdvisoryOracle is the read-only
// variant the API uses for its pre-flight check. Both read the same ledger,
// so they agree up to staleness; only the contract rejects for real.
type EligibilityOracle interface {
	CanClaim(ctx context.Context, wallet string) (bool, error)
	TodayClaimCount(ctx context.Context, wallet string) (uint64, error)
}

// AdvisoryOracle reads the claim ledger without ever writing it. A failed
// read means "cannot confirm eligibility", never "eligible".
type AdvisoryOracle struct {
	ledger ClaimLedger
	now    func() time.Time
}

// AdvisoryOption customizes an AdvisoryOracle.
type AdvisoryOption func(*AdvisoryOracle)

// WithAdvisoryClock injects a deterministic clock.
func WithAdvisoryClock(now func() time.Time) AdvisoryOption {
	return func(o *AdvisoryOracle) { o.now = now }
}

// NewAdvisoryOracle builds the read-only oracle over the shared ledger.
func NewAdvisoryOracle(ledger ClaimLedger, opts ...AdvisoryOption) *AdvisoryOracle {
	o := &AdvisoryOracle{ledger: ledger, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CanClaim reports whether the wallet is under today's cap.
func (o *AdvisoryOracle) CanClaim(ctx context.Context, wallet string) (bool, error) {
	count, err := o.TodayClaimCount(ctx, wallet)
	if err != nil {
		return false, err
	}
	return count < MaxDailyClaims, nil
}

// TodayClaimCount reads the wallet's count for the current UTC day bucket.
func (o *AdvisoryOracle) TodayClaimCount(ctx context.Context, wallet string) (uint64, error) {
	day := uint64(o.now().Unix() / SecondsPerDay)
	info, err := o.ledger.Info(ctx, normalizeAddress(wallet), day)
	if err != nil {
		return 0, fmt.Errorf("read claim ledger: %w", err)
	}
	return info.Count, nil
}
