package catalog

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/kailas-cloud/fashionsearch/internal/db"
)

// mockStore implements the consumer interface for tests. SearchKNN is called
// concurrently, so recorded queries are guarded.
type mockStore struct {
	mu      sync.Mutex
	queries []db.KNNQuery

	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	tagValuesFn    func(ctx context.Context, index, field string) ([]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, *q)
	m.mu.Unlock()
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) TagValues(ctx context.Context, index, field string) ([]string, error) {
	if m.tagValuesFn != nil {
		return m.tagValuesFn(ctx, index, field)
	}
	return nil, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) fields() map[string]db.KNNQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]db.KNNQuery, len(m.queries))
	for _, q := range m.queries {
		out[q.VectorField] = q
	}
	return out
}

func blob(v ...float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
