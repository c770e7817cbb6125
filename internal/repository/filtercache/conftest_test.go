package filtercache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/db"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
)

type mockExtractor struct {
	result intent.Intent
	err    error
	calls  int
}

func (m *mockExtractor) Extract(context.Context, string, catalog.Vocabulary) (intent.Intent, error) {
	m.calls++
	return m.result, m.err
}

// memStore is an in-memory KV store recording TTLs.
type memStore struct {
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCache(t *testing.T, inner intent.Extractor) (*CachedExtractor, *memStore) {
	t.Helper()
	ms := newMemStore()
	c := New(inner, ms, Config{KeyPrefix: "fs:", Model: "gpt-4o-mini", PromptVersion: "v1", TTL: time.Hour}, nil, zap.NewNop())
	return c, ms
}
