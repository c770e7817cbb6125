package query

import (
	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// Query is the planned, per-request unit the ranking engine scores against.
type Query struct {
	styleText  string
	filters    filter.Filters
	textJoint  vector.Joint
	textOnly   vector.Text
	imageJoint vector.Joint
}

// Embeddings holds whatever query-side vectors planning managed to compute.
type Embeddings struct {
	TextJoint  vector.Joint
	TextOnly   vector.Text
	ImageJoint vector.Joint
}

// New creates a Query. It fails with domain.ErrQuery when no embedding is present.
func New(styleText string, filters filter.Filters, emb Embeddings) (Query, error) {
	q := Query{
		styleText:  styleText,
		filters:    filters,
		textJoint:  emb.TextJoint,
		textOnly:   emb.TextOnly,
		imageJoint: emb.ImageJoint,
	}
	if q.Mode() == "" {
		return Query{}, domain.ErrQuery
	}
	return q, nil
}

// StyleText returns the descriptive text that was embedded.
func (q *Query) StyleText() string { return q.styleText }

// Filters returns the structured predicates.
func (q *Query) Filters() filter.Filters { return q.filters }

// TextJoint returns the joint-space embedding of the style text, nil if absent.
func (q *Query) TextJoint() vector.Joint { return q.textJoint }

// TextOnly returns the text-only embedding of the style text, nil if absent.
func (q *Query) TextOnly() vector.Text { return q.textOnly }

// ImageJoint returns the joint-space embedding of the query image, nil if absent.
func (q *Query) ImageJoint() vector.Joint { return q.imageJoint }

// HasText reports whether any text embedding is attached.
func (q *Query) HasText() bool { return len(q.textJoint) > 0 || len(q.textOnly) > 0 }

// HasImage reports whether the image embedding is attached.
func (q *Query) HasImage() bool { return len(q.imageJoint) > 0 }

// Mode derives the ranking mode from the attached embeddings.
func (q *Query) Mode() mode.Mode { return mode.From(q.HasText(), q.HasImage()) }

// Embeddings returns the query vectors.
func (q *Query) Embeddings() Embeddings {
	return Embeddings{TextJoint: q.textJoint, TextOnly: q.textOnly, ImageJoint: q.imageJoint}
}
