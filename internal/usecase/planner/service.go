package planner

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
	"github.com/kailas-cloud/fashionsearch/internal/logger"
)

// Modality names used in ModalityError and logs.
const (
	ModalityTextJoint = "text_joint"
	ModalityText      = "text"
	ModalityImage     = "image"
)

// Service assembles a Query from a Request.
type Service struct {
	extractor FilterExtractor
	embed     vector.Provider
}

// New creates a planner.
func New(extractor FilterExtractor, embed vector.Provider) *Service {
	return &Service{extractor: extractor, embed: embed}
}

// Plan extracts filters and embeds every available modality. Filter
// extraction runs alongside the image embedding; the two text embeddings of
// the style text run alongside each other. A modality that fails to embed is
// dropped; when none is left Plan returns *domain.NoModalityError.
func (s *Service) Plan(ctx context.Context, req request.Request) (query.Query, error) {
	var (
		mu      sync.Mutex
		causes  []error
		filters = filter.None()
		style   string
		emb     query.Embeddings
	)
	fail := func(modality string, err error) {
		mu.Lock()
		causes = append(causes, &domain.ModalityError{Modality: modality, Err: err})
		mu.Unlock()
	}

	var g errgroup.Group

	if req.HasText() {
		g.Go(func() error {
			filters, style = s.extractor.Extract(ctx, req.Text())
			if style == "" {
				return nil
			}

			var tg errgroup.Group
			tg.Go(func() error {
				v, err := s.embed.EmbedJointText(ctx, style)
				if err != nil {
					fail(ModalityTextJoint, err)
					return nil
				}
				emb.TextJoint = v
				return nil
			})
			tg.Go(func() error {
				v, err := s.embed.EmbedText(ctx, style)
				if err != nil {
					fail(ModalityText, err)
					return nil
				}
				emb.TextOnly = v
				return nil
			})
			return tg.Wait()
		})
	}

	if req.HasImage() {
		g.Go(func() error {
			v, err := s.embed.EmbedJointImage(ctx, req.Image())
			if err != nil {
				fail(ModalityImage, err)
				return nil
			}
			emb.ImageJoint = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return query.Query{}, err
	}
	if err := ctx.Err(); err != nil {
		return query.Query{}, fmt.Errorf("plan: %w", err)
	}

	if len(emb.TextJoint) == 0 && len(emb.TextOnly) == 0 && len(emb.ImageJoint) == 0 {
		return query.Query{}, &domain.NoModalityError{Causes: causes}
	}
	if len(causes) > 0 {
		logger.FromContext(ctx).Warn("Planning dropped modalities", zap.Errors("causes", causes))
	}

	q, err := query.New(style, filters, emb)
	if err != nil {
		return query.Query{}, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}
