package search

import (
	"context"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
)

// Planner turns a request into a Query.
type Planner interface {
	Plan(ctx context.Context, req request.Request) (query.Query, error)
}

// Index retrieves filtered candidate items near the query vectors.
type Index interface {
	Candidates(ctx context.Context, filters filter.Filters, vecs query.Embeddings, k int) ([]catalog.Item, error)
}

// Ranker scores and orders candidates.
type Ranker interface {
	Rank(ctx context.Context, q query.Query, corpus []catalog.Item) []result.ScoredItem
}
