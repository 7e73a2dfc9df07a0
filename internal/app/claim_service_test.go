package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"awsprep-assessment-service/internal/app"
	"awsprep-assessment-service/internal/infra/memory"
	"awsprep-assessment-service/internal/rewards"
)

const (
	testWallet   = "0x1111111111111111111111111111111111111111"
	testDeployer = "0xdeployer"
	testContract = "0xrewards"
)

func newClaimFixture(t *testing.T) (*app.ClaimService, *rewards.Contract) {
	t.Helper()
	clock := func() time.Time { return time.Unix(1_750_000_000, 0) }
	ledger := memory.NewClaimLedger()
	token := rewards.NewToken("AWS Practice Reward", "AWSP", testDeployer)
	contract := rewards.NewContract(testContract, token, ledger, rewards.WithClock(clock))
	if err := token.TransferOwnership(testDeployer, testContract); err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	service := app.NewClaimService(rewards.NewAdvisoryOracle(ledger, rewards.WithAdvisoryClock(clock)))
	return service, contract
}

func TestEligibilityReasonOrdering(t *testing.T) {
	ctx := context.Background()
	service, contract := newClaimFixture(t)

	// Score is checked first, even when the course is also bad.
	res, err := service.CheckEligibility(ctx, app.ClaimRequest{
		AssessmentID: "a1", CandidateAddress: testWallet, Score: 650, CourseID: "nope",
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.CanClaim || res.Reason != app.ReasonScoreBelowThreshold {
		t.Fatalf("expected score reason, got %+v", res)
	}

	res, _ = service.CheckEligibility(ctx, app.ClaimRequest{
		AssessmentID: "a1", CandidateAddress: testWallet, Score: 800, CourseID: "nope",
	})
	if res.CanClaim || res.Reason != app.ReasonCourseNotFound {
		t.Fatalf("expected course-not-found reason, got %+v", res)
	}

	res, _ = service.CheckEligibility(ctx, app.ClaimRequest{
		AssessmentID: "a1", CandidateAddress: testWallet, Score: 800, CourseID: "aws-basics",
	})
	if res.CanClaim || res.Reason != app.ReasonCourseInactive {
		t.Fatalf("expected course-inactive reason, got %+v", res)
	}

	// Exhaust the daily quota on-chain, then the limit reason surfaces.
	for i := 0; i < 3; i++ {
		if _, err := contract.ClaimReward(ctx, testWallet, 800, "0xh", "CLF-C02"); err != nil {
			t.Fatalf("claim %d: %v", i+1, err)
		}
	}
	res, _ = service.CheckEligibility(ctx, app.ClaimRequest{
		AssessmentID: "a1", CandidateAddress: testWallet, Score: 800, CourseID: "ccp",
	})
	if res.CanClaim || res.Reason != app.ReasonDailyLimitReached {
		t.Fatalf("expected daily limit reason, got %+v", res)
	}
	if res.DailyCount != 3 || res.MaxDailyClaims != 3 {
		t.Fatalf("expected counts 3/3, got %d/%d", res.DailyCount, res.MaxDailyClaims)
	}
}

func TestEligibilityReturnsClaimData(t *testing.T) {
	ctx := context.Background()
	service, _ := newClaimFixture(t)

	res, err := service.CheckEligibility(ctx, app.ClaimRequest{
		AssessmentID: "a1", CandidateAddress: testWallet, Score: 820, CourseID: "ccp",
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.CanClaim || res.ClaimData == nil {
		t.Fatalf("expected positive result with claim data, got %+v", res)
	}
	cd := res.ClaimData
	if cd.AssessmentID != "a1" || cd.Score != 820 || cd.CourseID != "ccp" || cd.CourseCode != "CLF-C02" {
		t.Fatalf("unexpected claim data %+v", cd)
	}
	if !strings.HasPrefix(cd.AssessmentIDHash, "0x") || len(cd.AssessmentIDHash) != 66 {
		t.Fatalf("expected 32-byte hex hash, got %q", cd.AssessmentIDHash)
	}
}

func TestAssessmentIDHashIsStableAndCaseInsensitive(t *testing.T) {
	a := app.AssessmentIDHash("a1", testWallet, 820)
	b := app.AssessmentIDHash("a1", strings.ToUpper(testWallet), 820)
	if a != b {
		t.Fatalf("hash must normalize the wallet address: %s != %s", a, b)
	}
	if a == app.AssessmentIDHash("a2", testWallet, 820) {
		t.Fatalf("different assessments must hash differently")
	}
	if a == app.AssessmentIDHash("a1", testWallet, 821) {
		t.Fatalf("different scores must hash differently")
	}
}
