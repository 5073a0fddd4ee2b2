package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/temporal"
)

const (
	// defaultLimit caps result count when the caller passes limit <= 0.
	defaultLimit = 10

	// recencyWindowDays is the span over which the recency boost decays to
	// zero.
	recencyWindowDays = 365

	// recencyBoostWeight is the maximum additive boost for brand-new content.
	recencyBoostWeight = 0.1
)

// Searcher provides hybrid semantic and temporal search over encrypted
// chunks. Candidates are decrypted and scored concurrently on a worker pool.
type Searcher struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	keys     *crypto.KeyManager
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent candidate scoring.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// NewSearcher creates a new searcher over the given vector index.
func NewSearcher(
	index storage.VectorIndex,
	provider ai.AIProvider,
	keys *crypto.KeyManager,
	opts ...Option,
) (*Searcher, error) {
	if index == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if keys == nil {
		return nil, ErrKeyManagerRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		index:    index,
		embedder: provider.Embedder(),
		keys:     keys,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Search runs the full query pipeline for a user and returns up to limit
// results ranked by final score. A limit <= 0 means the default of 10.
func (s *Searcher) Search(ctx context.Context, query, userID string, limit int) ([]*core.RankedResult, error) {
	return s.SearchWithMonitor(ctx, query, userID, limit, nil)
}

// SearchWithMonitor runs the query pipeline with stage callbacks.
//
// Stages: parse and strip temporal expressions, embed the cleaned query,
// scan the user's candidates, apply the date filter, then decrypt and score
// each surviving candidate concurrently. A candidate that fails decryption
// or scoring is dropped and logged; only a query embedding failure aborts
// the search.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query, userID string, limit int, monitor SearchMonitor) ([]*core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	monitor.Start(query)

	dateRange := temporal.Parse(query)
	cleaned := temporal.Strip(query)
	monitor.AfterTemporalParse(dateRange, cleaned)

	queryVector, err := s.embedder.EmbedText(ctx, cleaned)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	candidates, err := s.index.FetchCandidates(ctx, userID)
	if err != nil {
		s.logger.Error("error scanning candidates", "err", err)
		return nil, err
	}
	monitor.AfterCandidateScan(len(candidates))

	if dateRange != nil {
		candidates = filterByDateRange(candidates, dateRange)
		s.logger.Debug("applied date filter", "remaining", len(candidates))
	}
	monitor.AfterDateFilter(len(candidates))

	if len(candidates) == 0 {
		results := []*core.RankedResult{}
		monitor.Finish(results)
		return results, nil
	}

	// Derive once per query, not per candidate.
	key := s.keys.DeriveKey(userID)
	now := time.Now().UTC()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*core.RankedResult, 0, len(candidates))
	)

	for _, candidate := range candidates {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()

			result, err := s.scoreCandidate(candidate, queryVector, key, now)
			if err != nil {
				s.logger.Warn("dropping candidate",
					"chunk", candidate.Chunk.Id, "document", candidate.Document.Id, "err", err)
				mu.Lock()
				monitor.CandidateDropped(candidate.Chunk.Id, err)
				mu.Unlock()
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return nil, submitErr
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	return results, nil
}

// Release releases the worker pool.
// The searcher should not be used after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// scoreCandidate decrypts one chunk and computes its final score: cosine
// similarity to the query plus a recency boost that decays linearly over a
// year of document age.
func (s *Searcher) scoreCandidate(candidate *core.Candidate, queryVector []float32, key []byte, now time.Time) (*core.RankedResult, error) {
	similarity, err := CosineSimilarity(queryVector, candidate.Embedding.Vector)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(candidate.Chunk.ContentEncrypted, key)
	if err != nil {
		return nil, err
	}

	days := now.Sub(candidate.Document.CreatedAt).Hours() / 24
	boost := math.Max(0, 1-days/recencyWindowDays) * recencyBoostWeight

	title := candidate.Document.Title
	if title == "" {
		title = "Untitled"
	}

	return &core.RankedResult{
		DocumentId:    candidate.Document.Id,
		DocumentTitle: title,
		ChunkId:       candidate.Chunk.Id,
		Content:       string(plaintext),
		Score:         similarity + boost,
		CreatedAt:     candidate.Document.CreatedAt,
	}, nil
}

// filterByDateRange keeps candidates whose document was created inside the
// range or mentions a date inside it.
func filterByDateRange(candidates []*core.Candidate, dateRange *temporal.DateRange) []*core.Candidate {
	filtered := make([]*core.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if dateRange.Contains(candidate.Document.CreatedAt) {
			filtered = append(filtered, candidate)
			continue
		}
		for _, contentDate := range candidate.Document.Metadata.ContentDates {
			if dateRange.Contains(contentDate) {
				filtered = append(filtered, candidate)
				break
			}
		}
	}
	return filtered
}
