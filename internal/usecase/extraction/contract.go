package extraction

import (
	"context"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
)

// VocabularySource reads the distinct tag values present in the catalog.
type VocabularySource interface {
	Vocabulary(ctx context.Context) (catalog.Vocabulary, error)
}

// PromptEmbedder embeds palette colors through the color prompt template.
type PromptEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
}
