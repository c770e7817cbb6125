package extraction

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/logger"
)

// vocabularyRetry is how long a failed vocabulary fetch is remembered before
// the store is asked again.
const vocabularyRetry = 30 * time.Second

// vocabularyCache keeps the catalog vocabulary in memory for ttl.
// Concurrent misses share one fetch. A caller whose context ends first gets
// the previous value (or an empty vocabulary) while the fetch carries on
// within fetchTimeout. A failed fetch is retried after retry.
type vocabularyCache struct {
	src          VocabularySource
	ttl          time.Duration
	retry        time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	value catalog.Vocabulary
	next  time.Time
}

func newVocabularyCache(src VocabularySource, ttl, fetchTimeout time.Duration) *vocabularyCache {
	return &vocabularyCache{
		src:          src,
		ttl:          ttl,
		retry:        min(ttl, vocabularyRetry),
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

func (c *vocabularyCache) Get(ctx context.Context) catalog.Vocabulary {
	if c.src == nil {
		return catalog.Vocabulary{}
	}

	c.mu.Lock()
	cached, fresh := c.value, c.now().Before(c.next)
	c.mu.Unlock()
	if fresh {
		return cached
	}

	ch := c.group.DoChan("vocabulary", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			logger.FromContext(ctx).Warn("Catalog vocabulary unavailable", zap.Error(res.Err))
			return cached
		}
		return res.Val.(catalog.Vocabulary)
	case <-ctx.Done():
		logger.FromContext(ctx).Warn("Catalog vocabulary fetch outlived the request", zap.Error(ctx.Err()))
		return cached
	}
}

func (c *vocabularyCache) refresh(ctx context.Context) (catalog.Vocabulary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	v, err := c.src.Vocabulary(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.next = c.now().Add(c.retry)
		return catalog.Vocabulary{}, err
	}
	c.value = v
	c.next = c.now().Add(c.ttl)
	return v, nil
}
