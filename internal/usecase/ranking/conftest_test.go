package ranking

import (
	"testing"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

func floatPtr(f float64) *float64 { return &f }

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustQuery(t *testing.T, f filter.Filters, emb query.Embeddings) query.Query {
	t.Helper()
	q, err := query.New("", f, emb)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func mustFilters(t *testing.T, brand, category, color string, lo, hi *float64) filter.Filters {
	t.Helper()
	f, err := filter.New(brand, category, color, lo, hi)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}

func item(id string, attrs catalog.Attributes, vecs catalog.Vectors) catalog.Item {
	return catalog.Reconstruct(id, attrs, vecs)
}

func ids(items []result.ScoredItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}

func joint(v ...float32) vector.Joint { return vector.Joint(v) }

func text(v ...float32) vector.Text { return vector.Text(v) }
