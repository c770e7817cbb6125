package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
)

func TestVocabularyCache_TTL(t *testing.T) {
	src := staticVocabulary(catalog.Vocabulary{Brands: []string{"nike"}})
	c := newVocabularyCache(src, time.Minute, time.Second)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Get(context.Background())
	c.Get(context.Background())
	if src.calls != 1 {
		t.Fatalf("expected 1 fetch within TTL, got %d", src.calls)
	}

	now = now.Add(2 * time.Minute)
	v := c.Get(context.Background())
	if src.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d", src.calls)
	}
	if !v.HasBrand("nike") {
		t.Errorf("unexpected vocabulary %+v", v)
	}
}

func TestVocabularyCache_ServesStaleOnError(t *testing.T) {
	fail := false
	src := &mockVocabulary{vocabFn: func(context.Context) (catalog.Vocabulary, error) {
		if fail {
			return catalog.Vocabulary{}, errors.New("redis down")
		}
		return catalog.Vocabulary{Brands: []string{"zara"}}, nil
	}}
	c := newVocabularyCache(src, time.Minute, time.Second)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Get(context.Background())
	fail = true
	now = now.Add(time.Hour)

	v := c.Get(context.Background())
	if len(v.Brands) != 1 || v.Brands[0] != "zara" {
		t.Errorf("expected stale vocabulary, got %+v", v)
	}

	c.Get(context.Background())
	if src.calls != 2 {
		t.Errorf("expected failure to be remembered, got %d calls", src.calls)
	}

	now = now.Add(vocabularyRetry)
	c.Get(context.Background())
	if src.calls != 3 {
		t.Errorf("expected retry after %s, got %d calls", vocabularyRetry, src.calls)
	}
}

func TestVocabularyCache_CallerDeadlineDoesNotWaitForStore(t *testing.T) {
	release := make(chan struct{})
	src := &mockVocabulary{vocabFn: func(ctx context.Context) (catalog.Vocabulary, error) {
		select {
		case <-release:
			return catalog.Vocabulary{Brands: []string{"mango"}}, nil
		case <-ctx.Done():
			return catalog.Vocabulary{}, ctx.Err()
		}
	}}
	c := newVocabularyCache(src, time.Minute, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	if v := c.Get(ctx); !v.IsEmpty() {
		t.Errorf("expected empty vocabulary, got %+v", v)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Get blocked for %s", elapsed)
	}

	// The shared fetch outlives the abandoned caller and fills the cache.
	close(release)
	v := c.Get(context.Background())
	if !v.HasBrand("mango") {
		t.Errorf("expected fetched vocabulary, got %+v", v)
	}
	if src.calls != 1 {
		t.Errorf("expected a single fetch, got %d", src.calls)
	}
}

func TestVocabularyCache_NilSource(t *testing.T) {
	c := newVocabularyCache(nil, time.Minute, time.Second)
	if v := c.Get(context.Background()); !v.IsEmpty() {
		t.Errorf("expected empty vocabulary, got %+v", v)
	}
}
