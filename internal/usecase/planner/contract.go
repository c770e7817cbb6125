package planner

import (
	"context"

	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
)

// FilterExtractor reads structured filters and the style text out of a query.
type FilterExtractor interface {
	Extract(ctx context.Context, raw string) (filter.Filters, string)
}
