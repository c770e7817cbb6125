package planner

import (
	"context"

	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// --- Mocks ---

type mockExtractor struct {
	extractFn func(ctx context.Context, raw string) (filter.Filters, string)
}

func (m *mockExtractor) Extract(ctx context.Context, raw string) (filter.Filters, string) {
	return m.extractFn(ctx, raw)
}

type mockProvider struct {
	jointTextFn  func(ctx context.Context, text string) (vector.Joint, error)
	jointImageFn func(ctx context.Context, image []byte) (vector.Joint, error)
	textFn       func(ctx context.Context, text string) (vector.Text, error)
}

func (m *mockProvider) EmbedJointText(ctx context.Context, text string) (vector.Joint, error) {
	return m.jointTextFn(ctx, text)
}

func (m *mockProvider) EmbedJointImage(ctx context.Context, image []byte) (vector.Joint, error) {
	return m.jointImageFn(ctx, image)
}

func (m *mockProvider) EmbedText(ctx context.Context, text string) (vector.Text, error) {
	return m.textFn(ctx, text)
}

// --- Helpers ---

func okProvider() *mockProvider {
	return &mockProvider{
		jointTextFn: func(context.Context, string) (vector.Joint, error) {
			return vector.Joint{1, 0}, nil
		},
		jointImageFn: func(context.Context, []byte) (vector.Joint, error) {
			return vector.Joint{0, 1}, nil
		},
		textFn: func(context.Context, string) (vector.Text, error) {
			return vector.Text{1, 0, 0}, nil
		},
	}
}

func passthroughExtractor() *mockExtractor {
	return &mockExtractor{extractFn: func(_ context.Context, raw string) (filter.Filters, string) {
		return filter.None(), raw
	}}
}
