// Package intent holds the structured reading of a free-text query.
package intent

import (
	"context"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
)

// Intent is what a language model extracted from a query, before the
// extractor validates it against the catalog vocabulary and palette.
type Intent struct {
	Brand    string
	Category string
	Color    string
	MinPrice *float64
	MaxPrice *float64
	// StyleQuery is the descriptive remainder with filter phrases removed.
	StyleQuery string
	// CleanQuery is the query with only the price phrases removed.
	CleanQuery string
	Confidence float64
}

// Extractor reads an Intent out of query text. Vocabulary lists known values
// the model should prefer; it may be empty.
type Extractor interface {
	Extract(ctx context.Context, text string, vocab catalog.Vocabulary) (Intent, error)
}

// StyleText picks the text to embed: style query, else clean query, else raw.
func (i Intent) StyleText(raw string) string {
	switch {
	case i.StyleQuery != "":
		return i.StyleQuery
	case i.CleanQuery != "":
		return i.CleanQuery
	default:
		return raw
	}
}
