package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/questions"
	"awsprep-assessment-service/internal/scoring"
)

// SessionRepository abstracts how live assessment sessions are stored
// (in-memory, Redis, etc).
type SessionRepository interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, assessmentID string) (*Session, bool, error)
	Delete(ctx context.Context, assessmentID string) error
}

// CorpusRepository loads the question corpus (from cache/backing store).
type CorpusRepository interface {
	GetCorpus(ctx context.Context) ([]domain.Question, error)
}

// StartedAssessment is the start-boundary output.
type StartedAssessment struct {
	AssessmentID string            `json:"assessmentId"`
	Questions    []domain.Question `json:"questions"`
}

// Submission is the submit-boundary input: the client sends the question set
// and answer sheet wholesale, so scoring does not depend on server state.
type Submission struct {
	AssessmentID     string            `json:"assessmentId"`
	CandidateAddress string            `json:"candidateAddress"`
	Questions        []domain.Question `json:"questions"`
	Answers          []domain.Answer   `json:"answers"`
}

// SubmissionResult pairs the scored result with per-question correctness for
// the review screen.
type SubmissionResult struct {
	Result      domain.AssessmentResult `json:"result"`
	Correctness map[string]bool         `json:"correctness"`
}

// AssessmentService contains the assessment lifecycle use cases.
type AssessmentService struct {
	corpus   CorpusRepository
	sessions SessionRepository
	setSize  int
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// AssessmentOption customizes an AssessmentService.
type AssessmentOption func(*AssessmentService)

// WithSetSize overrides the default 50-question draw.
func WithSetSize(n int) AssessmentOption {
	return func(s *AssessmentService) { s.setSize = n }
}

// WithAssessmentClock injects a deterministic clock.
func WithAssessmentClock(now func() time.Time) AssessmentOption {
	return func(s *AssessmentService) { s.now = now }
}

// WithRand injects a seeded random source for deterministic draws.
func WithRand(rnd *rand.Rand) AssessmentOption {
	return func(s *AssessmentService) { s.rnd = rnd }
}

// NewAssessmentService wires the service to its stores.
func NewAssessmentService(corpus CorpusRepository, sessions SessionRepository, opts ...AssessmentOption) *AssessmentService {
	s := &AssessmentService{
		corpus:   corpus,
		sessions: sessions,
		setSize:  questions.DefaultSetSize,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start draws a domain-balanced question set and opens a session for it.
func (s *AssessmentService) Start(ctx context.Context, candidateAddress string) (StartedAssessment, error) {
	corpus, err := s.corpus.GetCorpus(ctx)
	if err != nil {
		return StartedAssessment{}, fmt.Errorf("load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return StartedAssessment{}, domain.ErrCorpusEmpty
	}

	s.mu.Lock()
	drawn := questions.SelectBalanced(corpus, s.setSize, s.rnd)
	s.mu.Unlock()

	assessmentID := uuid.NewString()
	session := NewSession(assessmentID, candidateAddress, drawn, s.now())
	if err := s.sessions.Put(ctx, session); err != nil {
		return StartedAssessment{}, fmt.Errorf("store session: %w", err)
	}

	log.Info().Str("assessmentId", assessmentID).Str("candidate", candidateAddress).
		Int("questions", len(drawn)).Msg("assessment started")
	return StartedAssessment{AssessmentID: assessmentID, Questions: drawn}, nil
}

// RecordAnswer stores an answer on the live session. Later writes for the
// same question overwrite earlier ones.
func (s *AssessmentService) RecordAnswer(ctx context.Context, assessmentID string, ans domain.Answer) error {
	session, ok, err := s.sessions.Get(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	if err := session.RecordAnswer(ans); err != nil {
		return err
	}
	return s.sessions.Put(ctx, session)
}

// Submit validates and scores a submission, then consumes the session if one
// is live. Scoring works off the submitted payload, so a submission that
// never touched RecordAnswer still scores; the session is bookkeeping.
func (s *AssessmentService) Submit(ctx context.Context, sub Submission) (SubmissionResult, error) {
	if sub.AssessmentID == "" || sub.CandidateAddress == "" {
		return SubmissionResult{}, domain.ErrMissingField
	}
	if len(sub.Questions) != len(sub.Answers) {
		return SubmissionResult{}, domain.ErrAnswerCountMismatch
	}

	answers := RepairAnswers(sub.Questions, sub.Answers)
	result := scoring.Result(sub.Questions, answers, sub.CandidateAddress, sub.AssessmentID, s.now())
	correctness := scoring.CorrectnessByQuestion(sub.Questions, answers)

	if session, ok, err := s.sessions.Get(ctx, sub.AssessmentID); err == nil && ok {
		_ = session.Complete(s.now())
		if err := s.sessions.Delete(ctx, sub.AssessmentID); err != nil {
			log.Warn().Err(err).Str("assessmentId", sub.AssessmentID).Msg("failed to discard session")
		}
	}

	log.Info().Str("assessmentId", sub.AssessmentID).Int("scaledScore", result.ScaledScore).
		Str("passFail", string(result.PassFail)).Msg("assessment submitted")
	return SubmissionResult{Result: result, Correctness: correctness}, nil
}
