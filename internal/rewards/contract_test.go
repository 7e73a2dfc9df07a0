package rewards_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"awsprep-assessment-service/internal/infra/memory"
	"awsprep-assessment-service/internal/rewards"
)

const (
	deployer     = "0xdeployer"
	contractAddr = "0xrewards"
	wallet1      = "0x1111111111111111111111111111111111111111"
	wallet2      = "0x2222222222222222222222222222222222222222"
)

// fakeClock lets tests advance the chain's day.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestContract(t *testing.T) (*rewards.Contract, *rewards.Token, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_750_000_000, 0)}
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)
	contract := rewards.NewContract(contractAddr, token, memory.NewClaimLedger(), rewards.WithClock(clock.Now))
	if err := token.TransferOwnership(deployer, contractAddr); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	return contract, token, clock
}

func TestClaimRewardMintsOneTokenPerPass(t *testing.T) {
	ctx := context.Background()
	contract, token, _ := newTestContract(t)

	receipt, err := contract.ClaimReward(ctx, wallet1, 750, "0xhash1", "CLF-C02")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if receipt.DailyCount != 1 {
		t.Fatalf("expected daily count 1, got %d", receipt.DailyCount)
	}
	if token.BalanceOf(wallet1).Cmp(rewards.TokensPerPass) != 0 {
		t.Fatalf("expected 1e18 minted, got %s", token.BalanceOf(wallet1))
	}
}

func TestClaimRewardRejectsFailingScore(t *testing.T) {
	ctx := context.Background()
	contract, token, _ := newTestContract(t)

	_, err := contract.ClaimReward(ctx, wallet1, 650, "0xhash1", "CLF-C02")
	if !errors.Is(err, rewards.ErrScoreBelowThreshold) {
		t.Fatalf("expected score error, got %v", err)
	}
	if token.BalanceOf(wallet1).Sign() != 0 {
		t.Fatalf("no tokens should be minted on revert, got %s", token.BalanceOf(wallet1))
	}
	if count, _ := contract.TodayClaimCount(ctx, wallet1); count != 0 {
		t.Fatalf("failed claim must not consume quota, count=%d", count)
	}
}

func TestDailyLimitEnforcedOnFourthClaim(t *testing.T) {
	ctx := context.Background()
	contract, token, _ := newTestContract(t)

	events, cancel := contract.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		if _, err := contract.ClaimReward(ctx, wallet1, 800, "0xhash", "CLF-C02"); err != nil {
			t.Fatalf("claim %d: %v", i+1, err)
		}
	}

	_, err := contract.ClaimReward(ctx, wallet1, 800, "0xhash", "CLF-C02")
	if !errors.Is(err, rewards.ErrDailyLimitReached) {
		t.Fatalf("expected daily limit error, got %v", err)
	}

	want := new(big.Int).Mul(rewards.TokensPerPass, big.NewInt(3))
	if token.BalanceOf(wallet1).Cmp(want) != 0 {
		t.Fatalf("expected 3 tokens total, got %s", token.BalanceOf(wallet1))
	}

	// Three rewardClaimed events plus one dailyLimitReached on the third.
	var claimed, limit int
	for i := 0; i < 4; i++ {
		ev := <-events
		switch ev.Type {
		case rewards.EventRewardClaimed:
			claimed++
		case rewards.EventDailyLimitReached:
			limit++
			if ev.ClaimCount != rewards.MaxDailyClaims {
				t.Fatalf("limit event at count %d", ev.ClaimCount)
			}
		}
	}
	if claimed != 3 || limit != 1 {
		t.Fatalf("expected 3 claim events and 1 limit event, got %d/%d", claimed, limit)
	}
}

func TestDayBoundaryResetsQuota(t *testing.T) {
	ctx := context.Background()
	contract, _, clock := newTestContract(t)

	for i := 0; i < 3; i++ {
		if _, err := contract.ClaimReward(ctx, wallet1, 800, "0xhash", "CLF-C02"); err != nil {
			t.Fatalf("claim %d: %v", i+1, err)
		}
	}
	if ok, _ := contract.CanClaim(ctx, wallet1); ok {
		t.Fatalf("expected canClaim=false at limit")
	}

	day := contract.CurrentDay()
	clock.now = clock.now.Add(24 * time.Hour)
	if contract.CurrentDay() != day+1 {
		t.Fatalf("expected day to advance, got %d -> %d", day, contract.CurrentDay())
	}

	if ok, _ := contract.CanClaim(ctx, wallet1); !ok {
		t.Fatalf("expected quota reset on new day")
	}
	if count, _ := contract.TodayClaimCount(ctx, wallet1); count != 0 {
		t.Fatalf("expected fresh count 0, got %d", count)
	}

	// Yesterday's ledger entry is still readable by day index.
	info, err := contract.ClaimInfo(ctx, wallet1, day)
	if err != nil {
		t.Fatalf("claim info: %v", err)
	}
	if info.Count != 3 {
		t.Fatalf("expected yesterday count 3, got %d", info.Count)
	}
}

func TestWalletsTrackedIndependently(t *testing.T) {
	ctx := context.Background()
	contract, token, _ := newTestContract(t)

	for i := 0; i < 3; i++ {
		if _, err := contract.ClaimReward(ctx, wallet1, 900, "0xh1", "CLF-C02"); err != nil {
			t.Fatalf("wallet1 claim %d: %v", i+1, err)
		}
		if _, err := contract.ClaimReward(ctx, wallet2, 900, "0xh2", "CLF-C02"); err != nil {
			t.Fatalf("wallet2 claim %d: %v", i+1, err)
		}
	}

	want := new(big.Int).Mul(rewards.TokensPerPass, big.NewInt(3))
	if token.BalanceOf(wallet1).Cmp(want) != 0 || token.BalanceOf(wallet2).Cmp(want) != 0 {
		t.Fatalf("expected 3 tokens each, got %s and %s", token.BalanceOf(wallet1), token.BalanceOf(wallet2))
	}
	c1, _ := contract.TodayClaimCount(ctx, wallet1)
	c2, _ := contract.TodayClaimCount(ctx, wallet2)
	if c1 != 3 || c2 != 3 {
		t.Fatalf("expected independent counts of 3, got %d and %d", c1, c2)
	}
}

func TestClaimRewardRejectsZeroWallet(t *testing.T) {
	contract, _, _ := newTestContract(t)
	_, err := contract.ClaimReward(context.Background(), "0x0000000000000000000000000000000000000000", 800, "0xh", "CLF-C02")
	if !errors.Is(err, rewards.ErrInvalidWallet) {
		t.Fatalf("expected invalid wallet error, got %v", err)
	}
}

func TestAdvisoryOracleAgreesWithContract(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_750_000_000, 0)}
	ledger := memory.NewClaimLedger()
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)
	contract := rewards.NewContract(contractAddr, token, ledger, rewards.WithClock(clock.Now))
	if err := token.TransferOwnership(deployer, contractAddr); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	advisory := rewards.NewAdvisoryOracle(ledger, rewards.WithAdvisoryClock(clock.Now))

	for i := 0; i < 3; i++ {
		authoritative, _ := contract.CanClaim(ctx, wallet1)
		advised, err := advisory.CanClaim(ctx, wallet1)
		if err != nil {
			t.Fatalf("advisory read: %v", err)
		}
		if authoritative != advised {
			t.Fatalf("oracles disagree before claim %d: %v vs %v", i+1, authoritative, advised)
		}
		if _, err := contract.ClaimReward(ctx, wallet1, 800, "0xh", "CLF-C02"); err != nil {
			t.Fatalf("claim %d: %v", i+1, err)
		}
	}

	if advised, _ := advisory.CanClaim(ctx, wallet1); advised {
		t.Fatalf("advisory oracle should see the cap")
	}
	if count, _ := advisory.TodayClaimCount(ctx, wallet1); count != 3 {
		t.Fatalf("advisory count should be 3, got %d", count)
	}
}
