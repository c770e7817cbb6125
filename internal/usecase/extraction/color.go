package extraction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/fashionsearch/internal/domain/palette"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// ColorMatcher maps free-form color names onto the canonical palette.
// Exact palette names pass through; anything else is matched zero-shot to
// the nearest palette prompt in the joint space.
type ColorMatcher struct {
	embedder PromptEmbedder
	group    singleflight.Group

	mu      sync.Mutex
	palette []vector.Joint
}

// paletteEmbedTimeout bounds the shared palette embedding, which outlives
// the request that started it.
const paletteEmbedTimeout = 30 * time.Second

// NewColorMatcher creates a matcher. embedder must render colors through
// palette.PromptTemplate so query and palette prompts are comparable.
func NewColorMatcher(embedder PromptEmbedder) *ColorMatcher {
	return &ColorMatcher{embedder: embedder}
}

// Warm embeds the palette ahead of the first query.
func (m *ColorMatcher) Warm(ctx context.Context) error {
	_, err := m.paletteVectors(ctx)
	return err
}

// Match returns the palette color closest to color.
func (m *ColorMatcher) Match(ctx context.Context, color string) (string, error) {
	if c, ok := palette.Lookup(color); ok {
		return c, nil
	}
	c := palette.Normalize(color)
	if c == "" {
		return "", fmt.Errorf("empty color")
	}

	vecs, err := m.paletteVectors(ctx)
	if err != nil {
		return "", err
	}

	res, err := m.embedder.Embed(ctx, c)
	if err != nil {
		return "", fmt.Errorf("embed color %q: %w", c, err)
	}
	q := vector.Joint(vector.Normalize(res.Embedding))

	best, bestSim := -1, 0.0
	for i, pv := range vecs {
		sim, ok := vector.Cosine(q, pv)
		if !ok {
			continue
		}
		if best < 0 || sim > bestSim {
			best, bestSim = i, sim
		}
	}
	if best < 0 {
		return "", fmt.Errorf("color %q: no comparable palette vector", c)
	}
	return palette.Colors[best], nil
}

// paletteVectors embeds the palette once; a failed attempt is retried on the
// next call. Concurrent callers share one attempt and each stops waiting when
// its own context ends.
func (m *ColorMatcher) paletteVectors(ctx context.Context) ([]vector.Joint, error) {
	m.mu.Lock()
	vecs := m.palette
	m.mu.Unlock()
	if vecs != nil {
		return vecs, nil
	}

	ch := m.group.DoChan("palette", func() (any, error) {
		return m.embedPalette(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]vector.Joint), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("embed palette: %w", ctx.Err())
	}
}

func (m *ColorMatcher) embedPalette(ctx context.Context) ([]vector.Joint, error) {
	ctx, cancel := context.WithTimeout(ctx, paletteEmbedTimeout)
	defer cancel()

	res, err := m.embedder.BatchEmbed(ctx, palette.Colors)
	if err != nil {
		return nil, fmt.Errorf("embed palette: %w", err)
	}
	if len(res.Embeddings) != len(palette.Colors) {
		return nil, fmt.Errorf("embed palette: expected %d vectors, got %d",
			len(palette.Colors), len(res.Embeddings))
	}

	vecs := make([]vector.Joint, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vecs[i] = vector.Joint(vector.Normalize(e))
	}

	m.mu.Lock()
	m.palette = vecs
	m.mu.Unlock()
	return vecs, nil
}
