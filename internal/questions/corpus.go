// Package questions holds the question corpus model and the domain-balanced
// selection used to draw an assessment's question set.
package questions

import (
	"encoding/json"
	"fmt"

	"awsprep-assessment-service/internal/domain"
)

// Metadata describes the corpus document produced by the offline ETL.
type Metadata struct {
	TotalQuestions int                `json:"totalQuestions"`
	LastUpdated    string             `json:"lastUpdated"`
	Sources        []string           `json:"sources"`
	DomainWeights  map[string]float64 `json:"domainWeights"`
	DomainCounts   map[string]int     `json:"domainCounts"`
}

// Corpus is the full, read-only question bank.
type Corpus struct {
	Questions []domain.Question `json:"questions"`
	Metadata  Metadata          `json:"metadata"`
}

// ParseCorpus decodes a corpus JSON document and drops records that violate
// the answer-shape invariants (one letter for multiple-choice, two for
// multiple-response) so a bad ETL row cannot poison scoring.
func ParseCorpus(data []byte) (Corpus, error) {
	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return Corpus{}, fmt.Errorf("parse corpus: %w", err)
	}

	valid := corpus.Questions[:0]
	for _, q := range corpus.Questions {
		if !validShape(q) {
			continue
		}
		valid = append(valid, q)
	}
	corpus.Questions = valid

	if len(corpus.Questions) == 0 {
		return Corpus{}, domain.ErrCorpusEmpty
	}
	return corpus, nil
}

func validShape(q domain.Question) bool {
	if q.ID == "" || q.Domain < domain.CloudConcepts || q.Domain > domain.BillingPricingSupport {
		return false
	}
	switch q.Type {
	case domain.MultipleChoice:
		return len(q.CorrectAnswers) == 1
	case domain.MultipleResponse:
		return len(q.CorrectAnswers) == 2
	default:
		return false
	}
}
