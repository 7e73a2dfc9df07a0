package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"awsprep-assessment-service/internal/rewards"
)

func TestClaimLedgerEnforcesCap(t *testing.T) {
	ctx := context.Background()
	ledger := NewClaimLedger()

	for i := uint64(1); i <= 3; i++ {
		count, err := ledger.Record(ctx, "0xabc", 20000, int64(1000+i), 3)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}

	if _, err := ledger.Record(ctx, "0xabc", 20000, 2000, 3); !errors.Is(err, rewards.ErrDailyLimitReached) {
		t.Fatalf("expected limit error, got %v", err)
	}

	info, err := ledger.Info(ctx, "0xabc", 20000)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Count != 3 || info.LastClaimTimestamp != 1003 {
		t.Fatalf("unexpected info %+v", info)
	}

	// A new day index starts clean.
	if info, _ := ledger.Info(ctx, "0xabc", 20001); info.Count != 0 {
		t.Fatalf("expected clean next day, got %+v", info)
	}
}

func TestClaimLedgerConcurrentClaimsNeverExceedCap(t *testing.T) {
	ctx := context.Background()
	ledger := NewClaimLedger()

	var wg sync.WaitGroup
	successes := make(chan uint64, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if count, err := ledger.Record(ctx, "0xabc", 20000, 1000, 3); err == nil {
				successes <- count
			}
		}()
	}
	wg.Wait()
	close(successes)

	var n int
	for range successes {
		n++
	}
	if n != 3 {
		t.Fatalf("expected exactly 3 winners, got %d", n)
	}
}
