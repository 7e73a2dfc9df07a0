package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/rewards"
)

// ClaimRequest is the claim-eligibility boundary input.
type ClaimRequest struct {
	AssessmentID     string `json:"assessmentId"`
	CandidateAddress string `json:"candidateAddress"`
	Score            int    `json:"score"`
	CourseID         string `json:"courseId"`
}

// Eligibility denial reasons, in the order they are checked.
const (
	ReasonScoreBelowThreshold = "score is below passing threshold"
	ReasonCourseNotFound      = "course not found"
	ReasonCourseInactive      = "course is not active"
	ReasonDailyLimitReached   = "daily claim limit exceeded"
)

// ClaimService runs the advisory pre-flight check before the client spends
// gas. It only reads chain state; the contract remains the gate.
type ClaimService struct {
	oracle rewards.EligibilityOracle
}

// NewClaimService wires the service to an eligibility oracle.
func NewClaimService(oracle rewards.EligibilityOracle) *ClaimService {
	return &ClaimService{oracle: oracle}
}

// CheckEligibility evaluates the denial reasons in priority order: failing
// score, then course status, then the on-chain daily cap. A negative answer
// is data, not an error; only a failed chain read errors, and that must be
// treated as "not yet confirmed eligible".
func (s *ClaimService) CheckEligibility(ctx context.Context, req ClaimRequest) (domain.ClaimEligibility, error) {
	if req.AssessmentID == "" || req.CandidateAddress == "" {
		return domain.ClaimEligibility{}, domain.ErrMissingField
	}

	if req.Score < int(rewards.PassingScore) {
		return domain.ClaimEligibility{
			CanClaim:       false,
			Reason:         ReasonScoreBelowThreshold,
			MaxDailyClaims: rewards.MaxDailyClaims,
		}, nil
	}

	course, ok := domain.CourseByID(req.CourseID)
	if !ok {
		return domain.ClaimEligibility{
			CanClaim:       false,
			Reason:         ReasonCourseNotFound,
			MaxDailyClaims: rewards.MaxDailyClaims,
		}, nil
	}
	if !course.IsActive || course.IsComingSoon {
		return domain.ClaimEligibility{
			CanClaim:       false,
			Reason:         ReasonCourseInactive,
			MaxDailyClaims: rewards.MaxDailyClaims,
		}, nil
	}

	canClaim, err := s.oracle.CanClaim(ctx, req.CandidateAddress)
	if err != nil {
		return domain.ClaimEligibility{}, fmt.Errorf("eligibility read: %w", err)
	}
	count, err := s.oracle.TodayClaimCount(ctx, req.CandidateAddress)
	if err != nil {
		return domain.ClaimEligibility{}, fmt.Errorf("eligibility read: %w", err)
	}

	if !canClaim {
		return domain.ClaimEligibility{
			CanClaim:       false,
			Reason:         ReasonDailyLimitReached,
			DailyCount:     count,
			MaxDailyClaims: rewards.MaxDailyClaims,
		}, nil
	}

	log.Info().Str("assessmentId", req.AssessmentID).Str("candidate", req.CandidateAddress).
		Uint64("dailyCount", count).Msg("claim pre-check passed")
	return domain.ClaimEligibility{
		CanClaim:       true,
		DailyCount:     count,
		MaxDailyClaims: rewards.MaxDailyClaims,
		ClaimData: &domain.ClaimData{
			AssessmentID:     req.AssessmentID,
			AssessmentIDHash: AssessmentIDHash(req.AssessmentID, req.CandidateAddress, req.Score),
			Score:            req.Score,
			CandidateAddress: req.CandidateAddress,
			CourseID:         course.ID,
			CourseCode:       course.CertificationCode,
		},
	}, nil
}

// AssessmentIDHash derives the opaque per-claim identifier carried on-chain
// for off-chain auditability. The contract does not deduplicate by it.
func AssessmentIDHash(assessmentID, candidateAddress string, score int) string {
	payload := fmt.Sprintf("%s|%s|%d", assessmentID, strings.ToLower(candidateAddress), score)
	sum := sha256.Sum256([]byte(payload))
	return "0x" + hex.EncodeToString(sum[:])
}
