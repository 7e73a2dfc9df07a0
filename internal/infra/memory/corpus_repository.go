package memory

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/questions"
)

// CorpusLoader fetches the question corpus from a backing store (file,
// Postgres, etc).
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) ([]domain.Question, error)
}

// CorpusRepository caches the corpus with a TTL to avoid repeated store hits.
type CorpusRepository struct {
	loader CorpusLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Question
	expiresAt time.Time
}

func NewCorpusRepository(loader CorpusLoader, ttl time.Duration) *CorpusRepository {
	return &CorpusRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CorpusRepository) GetCorpus(ctx context.Context) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		cached := r.cached
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("corpus", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			cached := r.cached
			r.mu.RUnlock()
			return cached, nil
		}
		r.mu.RUnlock()

		corpus, err := r.loader.LoadCorpus(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = corpus
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *CorpusRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCorpusLoader serves a fixed question slice (useful for tests/demos).
type StaticCorpusLoader struct {
	corpus []domain.Question
}

func NewStaticCorpusLoader(corpus []domain.Question) *StaticCorpusLoader {
	return &StaticCorpusLoader{corpus: corpus}
}

func (l *StaticCorpusLoader) LoadCorpus(_ context.Context) ([]domain.Question, error) {
	if len(l.corpus) == 0 {
		return nil, domain.ErrCorpusEmpty
	}
	return l.corpus, nil
}

// FileCorpusLoader reads the ETL-produced corpus JSON document from disk.
type FileCorpusLoader struct {
	path string
}

func NewFileCorpusLoader(path string) *FileCorpusLoader {
	return &FileCorpusLoader{path: path}
}

func (l *FileCorpusLoader) LoadCorpus(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	corpus, err := questions.ParseCorpus(data)
	if err != nil {
		return nil, err
	}
	return corpus.Questions, nil
}
