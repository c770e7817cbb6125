package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// --- Mocks ---

type mockPlanner struct {
	planFn func(ctx context.Context, req request.Request) (query.Query, error)
}

func (m *mockPlanner) Plan(ctx context.Context, req request.Request) (query.Query, error) {
	return m.planFn(ctx, req)
}

type mockIndex struct {
	items   []catalog.Item
	err     error
	calls   int
	lastK   int
	lastF   filter.Filters
	lastVec query.Embeddings
}

func (m *mockIndex) Candidates(
	_ context.Context, f filter.Filters, vecs query.Embeddings, k int,
) ([]catalog.Item, error) {
	m.calls++
	m.lastK, m.lastF, m.lastVec = k, f, vecs
	return m.items, m.err
}

type mockRanker struct {
	rankFn func(ctx context.Context, q query.Query, corpus []catalog.Item) []result.ScoredItem
}

func (m *mockRanker) Rank(ctx context.Context, q query.Query, corpus []catalog.Item) []result.ScoredItem {
	return m.rankFn(ctx, q, corpus)
}

// --- Helpers ---

func textQuery(t *testing.T, f filter.Filters) *mockPlanner {
	t.Helper()
	q, err := query.New("dress", f, query.Embeddings{TextJoint: vector.Joint{1, 0}})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &mockPlanner{planFn: func(context.Context, request.Request) (query.Query, error) { return q, nil }}
}

// scoreInOrder ranks candidates in the order given, with descending scores.
func scoreInOrder() *mockRanker {
	return &mockRanker{rankFn: func(_ context.Context, _ query.Query, corpus []catalog.Item) []result.ScoredItem {
		out := make([]result.ScoredItem, len(corpus))
		for i, it := range corpus {
			s := 1 - float64(i)/100
			out[i] = result.New(it, result.Scores{ClipText: &s}, &s, nil, s)
		}
		return out
	}}
}

func corpus(n int) []catalog.Item {
	out := make([]catalog.Item, n)
	for i := range out {
		out[i] = catalog.Reconstruct(string(rune('a'+i)), catalog.Attributes{}, catalog.Vectors{})
	}
	return out
}

func mustRequest(t *testing.T, text string, limit int) request.Request {
	t.Helper()
	r, err := request.New(text, nil, limit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

// --- Tests ---

func TestSearch_TruncatesToLimit(t *testing.T) {
	f, _ := filter.New("zara", "", "", nil, nil)
	idx := &mockIndex{items: corpus(12)}
	svc := New(textQuery(t, f), idx, scoreInOrder(), 50)

	resp, err := svc.Search(context.Background(), mustRequest(t, "zara dress", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Hits) != request.DefaultLimit {
		t.Errorf("expected %d hits, got %d", request.DefaultLimit, len(resp.Hits))
	}
	if resp.Mode != mode.Text {
		t.Errorf("expected mode %q, got %q", mode.Text, resp.Mode)
	}
	if resp.Filters.Brand() != "zara" {
		t.Errorf("expected applied filters in response, got %s", resp.Filters)
	}
	if idx.lastF.Brand() != "zara" {
		t.Errorf("expected filters pushed to index, got %s", idx.lastF)
	}
	if idx.lastK != 50 {
		t.Errorf("expected candidate pool 50, got %d", idx.lastK)
	}
	if len(idx.lastVec.TextJoint) == 0 {
		t.Error("expected query vectors passed to index")
	}
}

func TestSearch_PoolAtLeastLimit(t *testing.T) {
	idx := &mockIndex{}
	svc := New(textQuery(t, filter.None()), idx, scoreInOrder(), 5)

	if _, err := svc.Search(context.Background(), mustRequest(t, "dress", 40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.lastK != 40 {
		t.Errorf("expected pool raised to limit 40, got %d", idx.lastK)
	}
}

func TestSearch_DefaultPool(t *testing.T) {
	idx := &mockIndex{}
	svc := New(textQuery(t, filter.None()), idx, scoreInOrder(), 0)

	if _, err := svc.Search(context.Background(), mustRequest(t, "dress", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.lastK != DefaultCandidatePool {
		t.Errorf("expected default pool, got %d", idx.lastK)
	}
}

func TestSearch_EmptyResultIsNotError(t *testing.T) {
	svc := New(textQuery(t, filter.None()), &mockIndex{}, scoreInOrder(), 0)

	resp, err := svc.Search(context.Background(), mustRequest(t, "dress", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Hits) != 0 {
		t.Errorf("expected no hits, got %d", len(resp.Hits))
	}
}

func TestSearch_PlanError(t *testing.T) {
	planner := &mockPlanner{planFn: func(context.Context, request.Request) (query.Query, error) {
		return query.Query{}, &domain.NoModalityError{Causes: []error{domain.ErrEmbedding}}
	}}
	idx := &mockIndex{}
	svc := New(planner, idx, scoreInOrder(), 0)

	_, err := svc.Search(context.Background(), mustRequest(t, "dress", 0))
	if !errors.Is(err, domain.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	if idx.calls != 0 {
		t.Error("index must not be queried without a plan")
	}
}

func TestSearch_StorageError(t *testing.T) {
	idx := &mockIndex{err: domain.ErrStorageUnavailable}
	svc := New(textQuery(t, filter.None()), idx, scoreInOrder(), 0)

	_, err := svc.Search(context.Background(), mustRequest(t, "dress", 0))
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSearch_EmptyRequest(t *testing.T) {
	_, err := request.New("  ", nil, 0)
	if !errors.Is(err, domain.ErrQuery) {
		t.Fatalf("expected ErrQuery for empty request, got %v", err)
	}
}
