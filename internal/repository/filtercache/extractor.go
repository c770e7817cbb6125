// Package filtercache caches language-model intent extraction in a key-value store.
package filtercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/db"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
)

// store is the consumer interface for the extraction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config scopes and bounds cache entries.
type Config struct {
	KeyPrefix     string
	Model         string
	PromptVersion string
	TTL           time.Duration
}

// CachedExtractor caches successful extractions. Failures are never cached.
type CachedExtractor struct {
	inner      intent.Extractor
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	inner intent.Extractor, s store, cfg Config,
	cacheTotal *prometheus.CounterVec, logger *zap.Logger,
) *CachedExtractor {
	return &CachedExtractor{
		inner:      inner,
		store:      s,
		keyPrefix:  fmt.Sprintf("%sfilter_cache:%s:%s:", cfg.KeyPrefix, cfg.Model, cfg.PromptVersion),
		ttl:        cfg.TTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Extract returns a cached intent or calls the inner extractor.
func (c *CachedExtractor) Extract(
	ctx context.Context, text string, vocab catalog.Vocabulary,
) (intent.Intent, error) {
	key := c.cacheKey(text, vocab)

	if in, ok := c.get(ctx, key); ok {
		c.inc("hit")
		return in, nil
	}
	c.inc("miss")

	in, err := c.inner.Extract(ctx, text, vocab)
	if err != nil {
		return intent.Intent{}, fmt.Errorf("extract: %w", err)
	}

	c.put(ctx, key, in)
	return in, nil
}

// cacheKey covers the vocabulary too: the prompt lists it, so a catalog
// change can change the answer.
func (c *CachedExtractor) cacheKey(text string, vocab catalog.Vocabulary) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, list := range [][]string{vocab.Brands, vocab.Categories, vocab.Colors} {
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(list, "\x1f")))
	}
	return c.keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedExtractor) get(ctx context.Context, key string) (intent.Intent, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached extraction", zap.String("key", key), zap.Error(err))
		}
		return intent.Intent{}, false
	}

	var d intentDTO
	if err := json.Unmarshal(data, &d); err != nil {
		c.logger.Warn("Failed to parse cached extraction", zap.String("key", key), zap.Error(err))
		return intent.Intent{}, false
	}
	return d.toDomain(), true
}

func (c *CachedExtractor) put(ctx context.Context, key string, in intent.Intent) {
	data, err := json.Marshal(fromDomain(in))
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache extraction", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedExtractor) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
