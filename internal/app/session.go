package app

import (
	"sync"
	"time"

	"awsprep-assessment-service/internal/domain"
)

// Session wraps one in-progress assessment with its own lock. Created on
// start, mutated on each answer, consumed and discarded on submit.
type Session struct {
	mu   sync.RWMutex
	data domain.AssessmentSession
}

// NewSession draws a fresh session around a fixed question set.
func NewSession(assessmentID, candidateAddress string, qs []domain.Question, startedAt time.Time) *Session {
	return &Session{data: domain.AssessmentSession{
		AssessmentID:     assessmentID,
		CandidateAddress: candidateAddress,
		Questions:        qs,
		Answers:          make(map[string]domain.Answer, len(qs)),
		StartedAt:        startedAt,
	}}
}

// RestoreSession rebuilds a session from a persisted snapshot.
func RestoreSession(snapshot domain.AssessmentSession) *Session {
	if snapshot.Answers == nil {
		snapshot.Answers = make(map[string]domain.Answer)
	}
	return &Session{data: snapshot}
}

// ID returns the assessment id.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AssessmentID
}

// RecordAnswer stores an answer, overwriting any earlier one for the same
// question. Answers for questions outside the drawn set are rejected.
func (s *Session) RecordAnswer(ans domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.CompletedAt != nil {
		return domain.ErrSessionCompleted
	}
	for _, q := range s.data.Questions {
		if q.ID == ans.QuestionID {
			s.data.Answers[ans.QuestionID] = ans
			return nil
		}
	}
	return domain.ErrQuestionNotInSession
}

// Complete marks the session consumed; further answers are rejected.
func (s *Session) Complete(at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.CompletedAt != nil {
		return domain.ErrSessionCompleted
	}
	s.data.CompletedAt = &at
	return nil
}

// Snapshot returns a copy of the session state safe to serialize.
func (s *Session) Snapshot() domain.AssessmentSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.data
	snap.Questions = append([]domain.Question(nil), s.data.Questions...)
	snap.Answers = make(map[string]domain.Answer, len(s.data.Answers))
	for id, ans := range s.data.Answers {
		snap.Answers[id] = ans
	}
	return snap
}

// AnswerSheet returns the recorded answers ordered by the question sequence,
// with the transient one-of-two multiple-response state cleared so scoring
// only sees terminal selections.
func (s *Session) AnswerSheet() []domain.Answer {
	snap := s.Snapshot()
	answers := make([]domain.Answer, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		answers = append(answers, snap.Answers[q.ID])
	}
	return RepairAnswers(snap.Questions, answers)
}

// RepairAnswers clears multiple-response selections of size 1: the session
// layer's terminal-answer rule says a pick-two answer is either empty or
// complete when it reaches scoring.
func RepairAnswers(questions []domain.Question, answers []domain.Answer) []domain.Answer {
	types := make(map[string]domain.QuestionType, len(questions))
	for _, q := range questions {
		types[q.ID] = q.Type
	}
	repaired := make([]domain.Answer, len(answers))
	for i, ans := range answers {
		if types[ans.QuestionID] == domain.MultipleResponse &&
			ans.Selected.Kind == domain.MultiSelection && len(ans.Selected.Letters) == 1 {
			ans.Selected = domain.Selection{Kind: domain.NoSelection}
		}
		repaired[i] = ans
	}
	return repaired
}
