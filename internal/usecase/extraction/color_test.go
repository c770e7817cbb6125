package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
)

func TestColorMatcher_ExactPaletteName(t *testing.T) {
	emb := paletteEmbedder(nil)
	m := NewColorMatcher(emb)

	c, err := m.Match(context.Background(), "  Royal   Blue ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != "royal blue" {
		t.Errorf("expected %q, got %q", "royal blue", c)
	}
	if emb.batchCalls != 0 {
		t.Errorf("exact match must not embed the palette")
	}
}

func TestColorMatcher_NearestPrompt(t *testing.T) {
	emb := paletteEmbedder(map[string]string{"crimson": "dark red", "sky": "light blue"})
	m := NewColorMatcher(emb)

	for in, want := range map[string]string{"Crimson": "dark red", "sky": "light blue"} {
		got, err := m.Match(context.Background(), in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: expected %q, got %q", in, want, got)
		}
	}
	if emb.batchCalls != 1 {
		t.Errorf("expected palette embedded once, got %d", emb.batchCalls)
	}
}

func TestColorMatcher_RetriesPaletteAfterFailure(t *testing.T) {
	emb := paletteEmbedder(map[string]string{"emerald": "green"})
	ok := emb.batchFn
	emb.batchFn = func(context.Context, []string) (domain.BatchEmbeddingResult, error) {
		return domain.BatchEmbeddingResult{}, errors.New("provider down")
	}
	m := NewColorMatcher(emb)

	if err := m.Warm(context.Background()); err == nil {
		t.Fatal("expected warm error")
	}

	emb.batchFn = ok
	c, err := m.Match(context.Background(), "emerald")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != "green" {
		t.Errorf("expected green, got %q", c)
	}
	if emb.batchCalls != 2 {
		t.Errorf("expected 2 palette attempts, got %d", emb.batchCalls)
	}
}

func TestColorMatcher_PaletteSizeMismatch(t *testing.T) {
	emb := paletteEmbedder(nil)
	emb.batchFn = func(context.Context, []string) (domain.BatchEmbeddingResult, error) {
		return domain.BatchEmbeddingResult{Embeddings: [][]float32{{1}}}, nil
	}
	m := NewColorMatcher(emb)

	if _, err := m.Match(context.Background(), "emerald"); err == nil {
		t.Fatal("expected error")
	}
}

func TestColorMatcher_EmbedError(t *testing.T) {
	emb := paletteEmbedder(nil)
	emb.embedFn = func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, errors.New("timeout")
	}
	m := NewColorMatcher(emb)

	if _, err := m.Match(context.Background(), "emerald"); err == nil {
		t.Fatal("expected error")
	}
}

func TestColorMatcher_CallerDeadlineDoesNotWaitForPalette(t *testing.T) {
	release := make(chan struct{})
	emb := paletteEmbedder(map[string]string{"emerald": "green"})
	ok := emb.batchFn
	emb.batchFn = func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
		<-release
		return ok(ctx, texts)
	}
	m := NewColorMatcher(emb)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := m.Match(ctx, "emerald"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Match blocked for %s", elapsed)
	}

	close(release)
	c, err := m.Match(context.Background(), "emerald")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != "green" {
		t.Errorf("expected green, got %q", c)
	}
	if emb.batchCalls != 1 {
		t.Errorf("expected one shared palette embedding, got %d", emb.batchCalls)
	}
}
