package extraction

import (
	"context"
	"sync"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/palette"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
)

// --- Mocks ---

type mockExtractor struct {
	extractFn func(ctx context.Context, text string, vocab catalog.Vocabulary) (intent.Intent, error)
	lastVocab catalog.Vocabulary
}

func (m *mockExtractor) Extract(ctx context.Context, text string, vocab catalog.Vocabulary) (intent.Intent, error) {
	m.lastVocab = vocab
	return m.extractFn(ctx, text, vocab)
}

type mockVocabulary struct {
	mu      sync.Mutex
	calls   int
	vocabFn func(ctx context.Context) (catalog.Vocabulary, error)
}

func (m *mockVocabulary) Vocabulary(ctx context.Context) (catalog.Vocabulary, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.vocabFn(ctx)
}

type mockPromptEmbedder struct {
	embedFn    func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	batchFn    func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
	batchCalls int
}

func (m *mockPromptEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

func (m *mockPromptEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	return m.batchFn(ctx, texts)
}

// --- Helpers ---

func floatPtr(f float64) *float64 { return &f }

// oneHot returns a unit vector along the palette index of color.
func oneHot(color string) []float32 {
	v := make([]float32, len(palette.Colors))
	for i, c := range palette.Colors {
		if c == color {
			v[i] = 1
		}
	}
	return v
}

// paletteEmbedder embeds palette colors one-hot and maps aliases onto a palette color.
func paletteEmbedder(aliases map[string]string) *mockPromptEmbedder {
	return &mockPromptEmbedder{
		embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{Embedding: oneHot(aliases[text])}, nil
		},
		batchFn: func(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
			out := make([][]float32, len(texts))
			for i, t := range texts {
				out[i] = oneHot(t)
			}
			return domain.BatchEmbeddingResult{Embeddings: out}, nil
		},
	}
}

func staticVocabulary(v catalog.Vocabulary) *mockVocabulary {
	return &mockVocabulary{vocabFn: func(context.Context) (catalog.Vocabulary, error) { return v, nil }}
}

func staticIntent(in intent.Intent) *mockExtractor {
	return &mockExtractor{extractFn: func(context.Context, string, catalog.Vocabulary) (intent.Intent, error) {
		return in, nil
	}}
}
