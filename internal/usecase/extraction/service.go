package extraction

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/domain/palette"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
	"github.com/kailas-cloud/fashionsearch/internal/logger"
	"github.com/kailas-cloud/fashionsearch/internal/metrics"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultTimeout       = 3 * time.Second
	DefaultMinConfidence = 0.5
	DefaultVocabularyTTL = 10 * time.Minute
)

const (
	outcomeOK            = "ok"
	outcomeError         = "error"
	outcomeTimeout       = "timeout"
	outcomeLowConfidence = "low_confidence"
)

// Config tunes the extraction degrade policy.
type Config struct {
	Timeout       time.Duration
	MinConfidence float64
	VocabularyTTL time.Duration
}

// Service turns query text into Filters and the style text to embed.
// It never fails: any extractor problem yields no filters and the raw text.
type Service struct {
	extractor intent.Extractor
	colors    *ColorMatcher
	vocab     *vocabularyCache
	cfg       Config
}

// New creates the extraction service. vocab and colors may be nil; without
// a color matcher only exact palette names survive.
func New(extractor intent.Extractor, vocab VocabularySource, colors *ColorMatcher, cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.VocabularyTTL <= 0 {
		cfg.VocabularyTTL = DefaultVocabularyTTL
	}
	return &Service{
		extractor: extractor,
		colors:    colors,
		vocab:     newVocabularyCache(vocab, cfg.VocabularyTTL, cfg.Timeout),
		cfg:       cfg,
	}
}

// Extract returns the structured filters found in raw and the style text.
func (s *Service) Extract(ctx context.Context, raw string) (filter.Filters, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return filter.None(), ""
	}
	log := logger.FromContext(ctx)

	// The vocabulary fetch and the extractor call share one deadline.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	vocab := s.vocab.Get(ctx)

	in, err := s.extractor.Extract(ctx, raw, vocab)
	if err != nil {
		outcome := outcomeError
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = outcomeTimeout
		}
		metrics.ExtractionTotal.WithLabelValues(outcome).Inc()
		log.Warn("Filter extraction failed, searching without filters",
			zap.String("outcome", outcome), zap.Error(err))
		return filter.None(), raw
	}

	if in.Confidence < s.cfg.MinConfidence {
		metrics.ExtractionTotal.WithLabelValues(outcomeLowConfidence).Inc()
		log.Info("Filter extraction below confidence threshold",
			zap.Float64("confidence", in.Confidence),
			zap.Float64("min_confidence", s.cfg.MinConfidence))
		return filter.None(), raw
	}

	brand := filter.NormalizeTag(in.Brand)
	if brand != "" && !vocab.HasBrand(brand) {
		log.Debug("Dropping unknown brand", zap.String("brand", brand))
		brand = ""
	}
	category := filter.NormalizeTag(in.Category)
	if category != "" && !vocab.HasCategory(category) {
		log.Debug("Dropping unknown category", zap.String("category", category))
		category = ""
	}

	color := s.matchColor(ctx, in.Color)

	minPrice, maxPrice := in.MinPrice, in.MaxPrice
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		log.Debug("Dropping inverted price range",
			zap.Float64("min_price", *minPrice), zap.Float64("max_price", *maxPrice))
		minPrice, maxPrice = nil, nil
	}

	f, err := filter.New(brand, category, color, minPrice, maxPrice)
	if err != nil {
		// Only the price range can be rejected here.
		log.Debug("Dropping invalid price range", zap.Error(err))
		f, _ = filter.New(brand, category, color, nil, nil)
	}

	metrics.ExtractionTotal.WithLabelValues(outcomeOK).Inc()
	return f, in.StyleText(raw)
}

// matchColor normalizes color onto the palette; failure drops the color.
func (s *Service) matchColor(ctx context.Context, color string) string {
	if strings.TrimSpace(color) == "" {
		return ""
	}
	if s.colors == nil {
		if c, ok := palette.Lookup(color); ok {
			return c
		}
		return ""
	}
	c, err := s.colors.Match(ctx, color)
	if err != nil {
		logger.FromContext(ctx).Warn("Color normalization failed, dropping color filter",
			zap.String("color", color), zap.Error(err))
		return ""
	}
	return c
}
