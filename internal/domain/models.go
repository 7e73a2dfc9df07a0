package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ExamDomain is one of the four fixed CLF-C02 content areas.
type ExamDomain int

const (
	CloudConcepts ExamDomain = iota + 1
	SecurityCompliance
	CloudTechServices
	BillingPricingSupport
)

// ExamDomains lists all content areas in exam order.
var ExamDomains = []ExamDomain{CloudConcepts, SecurityCompliance, CloudTechServices, BillingPricingSupport}

// DomainWeights are the fixed exam weights; they sum to 1.0.
var DomainWeights = map[ExamDomain]float64{
	CloudConcepts:         0.24,
	SecurityCompliance:    0.30,
	CloudTechServices:     0.34,
	BillingPricingSupport: 0.12,
}

// DomainNames maps content areas to their exam-guide names.
var DomainNames = map[ExamDomain]string{
	CloudConcepts:         "Cloud Concepts",
	SecurityCompliance:    "Security and Compliance",
	CloudTechServices:     "Cloud Technology and Services",
	BillingPricingSupport: "Billing, Pricing, and Support",
}

// QuestionType distinguishes single-answer from pick-two questions.
type QuestionType string

const (
	MultipleChoice   QuestionType = "multiple-choice"
	MultipleResponse QuestionType = "multiple-response"
)

// Question is an immutable corpus record. CorrectAnswers holds exactly one
// option letter for multiple-choice and exactly two for multiple-response.
type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options"`
	CorrectAnswers []string     `json:"correctAnswers"`
	Source         string       `json:"source"`
	Domain         ExamDomain   `json:"domain"`
	Explanation    string       `json:"explanation,omitempty"`
}

// SelectionKind tags the answer value shape.
type SelectionKind int

const (
	NoSelection SelectionKind = iota
	SingleSelection
	MultiSelection
)

// Selection is the tagged union behind an answer: nothing selected, a single
// option letter, or a set of letters. A MultiSelection of size 1 is a valid
// but incomplete state for multiple-response questions; the session layer
// clears it before scoring.
type Selection struct {
	Kind    SelectionKind
	Letters []string
}

// SelectSingle builds a single-letter selection.
func SelectSingle(letter string) Selection {
	return Selection{Kind: SingleSelection, Letters: []string{letter}}
}

// SelectMany builds a letter-set selection.
func SelectMany(letters ...string) Selection {
	return Selection{Kind: MultiSelection, Letters: letters}
}

// IsEmpty reports whether nothing is effectively selected.
func (s Selection) IsEmpty() bool {
	return s.Kind == NoSelection || len(s.Letters) == 0
}

// UnmarshalJSON accepts the wire forms null, "A", and ["A","C"].
func (s *Selection) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = Selection{Kind: NoSelection}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var letters []string
		if err := json.Unmarshal(trimmed, &letters); err != nil {
			return err
		}
		*s = Selection{Kind: MultiSelection, Letters: letters}
		return nil
	}
	var letter string
	if err := json.Unmarshal(trimmed, &letter); err != nil {
		return err
	}
	*s = Selection{Kind: SingleSelection, Letters: []string{letter}}
	return nil
}

// MarshalJSON emits the same wire forms UnmarshalJSON accepts.
func (s Selection) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SingleSelection:
		if len(s.Letters) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(s.Letters[0])
	case MultiSelection:
		return json.Marshal(s.Letters)
	default:
		return []byte("null"), nil
	}
}

// Answer records a candidate's selection for one question.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Selected   Selection `json:"selected"`
}

// AssessmentSession is one attempt: a fixed question set drawn at start and
// the answers recorded so far. Discarded after submission.
type AssessmentSession struct {
	AssessmentID     string            `json:"assessmentId"`
	CandidateAddress string            `json:"candidateAddress"`
	Questions        []Question        `json:"questions"`
	Answers          map[string]Answer `json:"answers"`
	StartedAt        time.Time         `json:"startedAt"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
}

// Competency classifies per-domain performance.
type Competency string

const (
	CompetencyMeets            Competency = "MEETS"
	CompetencyNeedsImprovement Competency = "NEEDS_IMPROVEMENT"
)

// PassFail is the overall verdict.
type PassFail string

const (
	Pass PassFail = "PASS"
	Fail PassFail = "FAIL"
)

// DomainPerformance breaks the result down by content area. Percentage is the
// fixed exam weight, not the candidate's score share.
type DomainPerformance struct {
	Domain     ExamDomain `json:"domain"`
	DomainName string     `json:"domainName"`
	Percentage float64    `json:"percentage"`
	Correct    int        `json:"correct"`
	Total      int        `json:"total"`
	Competency Competency `json:"competency"`
}

// AssessmentResult is the immutable outcome of one submission.
type AssessmentResult struct {
	CandidateAddress  string              `json:"candidateAddress"`
	ExamDate          time.Time           `json:"examDate"`
	ScaledScore       int                 `json:"scaledScore"`
	PassFail          PassFail            `json:"passFail"`
	PassingScore      int                 `json:"passingScore"`
	DomainPerformance []DomainPerformance `json:"domainPerformance"`
	TotalQuestions    int                 `json:"totalQuestions"`
	CorrectAnswers    int                 `json:"correctAnswers"`
	AssessmentID      string              `json:"assessmentId"`
}

// ClaimInfo is the per-(wallet, day) ledger entry.
type ClaimInfo struct {
	Count              uint64 `json:"count"`
	LastClaimTimestamp int64  `json:"lastClaimTimestamp"`
}

// ClaimData is everything the client needs to submit the reward transaction.
type ClaimData struct {
	AssessmentID     string `json:"assessmentId"`
	AssessmentIDHash string `json:"assessmentIdHash"`
	Score            int    `json:"score"`
	CandidateAddress string `json:"candidateAddress"`
	CourseID         string `json:"courseId"`
	CourseCode       string `json:"courseCode"`
}

// ClaimEligibility is the advisory pre-check outcome. A negative answer is
// normal data, not an error.
type ClaimEligibility struct {
	CanClaim       bool       `json:"canClaim"`
	Reason         string     `json:"reason,omitempty"`
	DailyCount     uint64     `json:"dailyCount"`
	MaxDailyClaims uint64     `json:"maxDailyClaims"`
	ClaimData      *ClaimData `json:"claimData,omitempty"`
}
