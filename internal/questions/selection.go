package questions

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/domain"
)

// DefaultSetSize is the standard assessment length.
const DefaultSetSize = 50

// SelectBalanced draws a domain-balanced random subset of the corpus. Each
// domain contributes round(target * weight) questions, sampled without
// replacement; the combined set is shuffled again so domain grouping is not
// visible. A domain with fewer questions than its target contributes what it
// has, so the result can be shorter than target. Pure over (corpus, rnd).
func SelectBalanced(corpus []domain.Question, target int, rnd *rand.Rand) []domain.Question {
	byDomain := make(map[domain.ExamDomain][]domain.Question, len(domain.ExamDomains))
	for _, q := range corpus {
		byDomain[q.Domain] = append(byDomain[q.Domain], q)
	}

	selected := make([]domain.Question, 0, target)
	for _, d := range domain.ExamDomains {
		domainTarget := int(math.Round(float64(target) * domain.DomainWeights[d]))
		available := byDomain[d]
		if len(available) == 0 {
			log.Warn().Int("domain", int(d)).Str("domainName", domain.DomainNames[d]).
				Msg("no questions available for domain, set will shrink")
			continue
		}
		if len(available) < domainTarget {
			log.Warn().Int("domain", int(d)).Int("target", domainTarget).Int("available", len(available)).
				Msg("domain under-represented in corpus, set will shrink")
		}

		shuffled := shuffle(available, rnd)
		take := domainTarget
		if take > len(shuffled) {
			take = len(shuffled)
		}
		selected = append(selected, shuffled[:take]...)
	}

	return shuffle(selected, rnd)
}

// shuffle returns a Fisher-Yates shuffled copy.
func shuffle(questions []domain.Question, rnd *rand.Rand) []domain.Question {
	out := append([]domain.Question(nil), questions...)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
