// Package scoring implements the CLF-C02 scoring methodology: exact-match
// correctness for both question types, the 100-1000 scaled score, and the
// per-domain competency breakdown.
package scoring

import (
	"math"
	"sort"
	"time"

	"awsprep-assessment-service/internal/domain"
)

const (
	// MinScore is the scaled-score floor; an empty sheet still scores 100.
	MinScore = 100
	// ScoreRange spans the scaled scale up to 1000.
	ScoreRange = 900
	// PassingScore matches the on-chain PASSING_SCORE constant.
	PassingScore = 700
	// CompetencyThreshold is the per-domain MEETS cutoff.
	CompetencyThreshold = 0.70
)

// IsCorrect classifies a single answer. Multiple-choice requires a single
// selection whose letter equals the correct letter exactly; a letter-set
// selection never matches, even one holding only the correct letter.
// Multiple-response
// requires exact set equality with the correct pair; partial credit is never
// given, so one-of-two, an extra letter, or a superset all score incorrect.
func IsCorrect(q domain.Question, ans domain.Answer) bool {
	if ans.Selected.IsEmpty() {
		return false
	}

	if q.Type == domain.MultipleChoice {
		// Strict equality: an array-shaped selection is the wrong answer type
		// even when it holds the correct letter.
		if ans.Selected.Kind != domain.SingleSelection {
			return false
		}
		if len(q.CorrectAnswers) != 1 || len(ans.Selected.Letters) != 1 {
			return false
		}
		return ans.Selected.Letters[0] == q.CorrectAnswers[0]
	}

	selected := ans.Selected.Letters
	if len(selected) != len(q.CorrectAnswers) {
		return false
	}
	sortedCorrect := append([]string(nil), q.CorrectAnswers...)
	sortedSelected := append([]string(nil), selected...)
	sort.Strings(sortedCorrect)
	sort.Strings(sortedSelected)
	for i := range sortedCorrect {
		if sortedSelected[i] != sortedCorrect[i] {
			return false
		}
	}
	return true
}

// ScaledScore maps raw percent-correct onto [100, 1000] linearly.
func ScaledScore(rawPercentage float64) int {
	return int(math.Round(MinScore + rawPercentage*ScoreRange))
}

// DomainCompetency classifies a domain's correct/total ratio. An empty domain
// is NEEDS_IMPROVEMENT by convention rather than a division by zero.
func DomainCompetency(correct, total int) domain.Competency {
	if total == 0 {
		return domain.CompetencyNeedsImprovement
	}
	if float64(correct)/float64(total) >= CompetencyThreshold {
		return domain.CompetencyMeets
	}
	return domain.CompetencyNeedsImprovement
}

// CorrectnessByQuestion scores each question against the answer keyed by its
// id. Questions with no matching answer are incorrect.
func CorrectnessByQuestion(questions []domain.Question, answers []domain.Answer) map[string]bool {
	byQuestion := make(map[string]domain.Answer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}
	correctness := make(map[string]bool, len(questions))
	for _, q := range questions {
		correctness[q.ID] = IsCorrect(q, byQuestion[q.ID])
	}
	return correctness
}

// Result computes the full assessment outcome. It is deterministic for a
// given question set and answer sheet.
func Result(questions []domain.Question, answers []domain.Answer, candidateAddress, assessmentID string, examDate time.Time) domain.AssessmentResult {
	correctness := CorrectnessByQuestion(questions, answers)

	correctCount := 0
	for _, ok := range correctness {
		if ok {
			correctCount++
		}
	}

	rawPercentage := 0.0
	if len(questions) > 0 {
		rawPercentage = float64(correctCount) / float64(len(questions))
	}
	scaled := ScaledScore(rawPercentage)

	verdict := domain.Fail
	if scaled >= PassingScore {
		verdict = domain.Pass
	}

	performance := make([]domain.DomainPerformance, 0, len(domain.ExamDomains))
	for _, d := range domain.ExamDomains {
		correct, total := 0, 0
		for _, q := range questions {
			if q.Domain != d {
				continue
			}
			total++
			if correctness[q.ID] {
				correct++
			}
		}
		performance = append(performance, domain.DomainPerformance{
			Domain:     d,
			DomainName: domain.DomainNames[d],
			Percentage: domain.DomainWeights[d],
			Correct:    correct,
			Total:      total,
			Competency: DomainCompetency(correct, total),
		})
	}

	return domain.AssessmentResult{
		CandidateAddress:  candidateAddress,
		ExamDate:          examDate,
		ScaledScore:       scaled,
		PassFail:          verdict,
		PassingScore:      PassingScore,
		DomainPerformance: performance,
		TotalQuestions:    len(questions),
		CorrectAnswers:    correctCount,
		AssessmentID:      assessmentID,
	}
}
