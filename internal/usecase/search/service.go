package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
	"github.com/kailas-cloud/fashionsearch/internal/logger"
	"github.com/kailas-cloud/fashionsearch/internal/metrics"
)

// DefaultCandidatePool is how many neighbours are fetched per vector field.
const DefaultCandidatePool = 100

// Response is the outcome of one search.
type Response struct {
	Hits      []result.ScoredItem
	Filters   filter.Filters
	Mode      mode.Mode
	StyleText string
}

// Service is the search facade: plan, retrieve candidates, rank, truncate.
type Service struct {
	planner Planner
	index   Index
	ranker  Ranker
	pool    int
}

// New creates a search service. pool <= 0 uses DefaultCandidatePool.
func New(planner Planner, index Index, ranker Ranker, pool int) *Service {
	if pool <= 0 {
		pool = DefaultCandidatePool
	}
	return &Service{planner: planner, index: index, ranker: ranker, pool: pool}
}

// Search runs the full pipeline for req.
func (s *Service) Search(ctx context.Context, req request.Request) (Response, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	q, err := s.planner.Plan(ctx, req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("none", "error").Inc()
		return Response{}, fmt.Errorf("plan: %w", err)
	}
	m := q.Mode()

	k := max(s.pool, req.Limit())
	candidates, err := s.index.Candidates(ctx, q.Filters(), q.Embeddings(), k)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(m), "error").Inc()
		return Response{}, fmt.Errorf("candidates: %w", err)
	}

	hits := s.ranker.Rank(ctx, q, candidates)
	if len(hits) > req.Limit() {
		hits = hits[:req.Limit()]
	}

	duration := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues(string(m), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(m)).Observe(duration.Seconds())
	metrics.SearchResults.WithLabelValues(string(m)).Observe(float64(len(hits)))
	metrics.SearchCandidates.Observe(float64(len(candidates)))

	log.Info("search",
		zap.String("mode", string(m)),
		zap.String("filters", q.Filters().String()),
		zap.String("style_text", q.StyleText()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(hits)),
		zap.Int("limit", req.Limit()),
		zap.Duration("duration", duration),
	)

	return Response{
		Hits:      hits,
		Filters:   q.Filters(),
		Mode:      m,
		StyleText: q.StyleText(),
	}, nil
}
