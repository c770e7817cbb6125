package domain

import (
	"context"
	"fmt"
	"strings"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// ImageEmbedder vectorizes an encoded image (JPEG/PNG/GIF bytes).
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, image []byte) (EmbeddingResult, error)
}

// JointEmbedder embeds text and images into one shared space.
type JointEmbedder interface {
	Embedder
	ImageEmbedder
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// BatchFallback calls Embed once per text, for providers without native batching.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	var totalPrompt, totalTokens int

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
		totalPrompt += res.PromptTokens
		totalTokens += res.TotalTokens
	}

	return BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: totalPrompt,
		TotalTokens:  totalTokens,
	}, nil
}

// TemplateEmbedder renders each input through a prompt template before embedding.
// The template must contain exactly one %s verb.
type TemplateEmbedder struct {
	inner    Embedder
	template string
}

// NewTemplateEmbedder creates a decorator that formats input with template.
func NewTemplateEmbedder(inner Embedder, template string) (*TemplateEmbedder, error) {
	if strings.Count(template, "%s") != 1 {
		return nil, fmt.Errorf("prompt template %q: want exactly one %%s", template)
	}
	return &TemplateEmbedder{inner: inner, template: template}, nil
}

// Embed renders the prompt and delegates to the inner embedder.
func (e *TemplateEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, fmt.Sprintf(e.template, text))
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("template embed: %w", err)
	}
	return result, nil
}

// BatchEmbed renders every prompt and delegates to the inner BatchEmbedder,
// falling back to one Embed call per text when the inner embedder cannot batch.
func (e *TemplateEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	prompts := make([]string, len(texts))
	for i, t := range texts {
		prompts[i] = fmt.Sprintf(e.template, t)
	}

	if be, ok := e.inner.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, prompts)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("template batch embed: %w", err)
		}
		return res, nil
	}

	res, err := BatchFallback(ctx, e.inner, prompts)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("template batch embed fallback: %w", err)
	}
	return res, nil
}
