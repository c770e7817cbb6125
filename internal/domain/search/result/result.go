package result

import "github.com/kailas-cloud/fashionsearch/internal/domain/catalog"

// Scores holds the per-modality cosine similarities. Nil means not computed
// because either side lacked the embedding.
type Scores struct {
	ClipText *float64 // query text vs item text, joint space
	STText   *float64 // query text vs item text, text-only space
	Packshot *float64 // query image vs packshot photo
	OnPerson *float64 // query image vs on-person photo
}

// ScoredItem pairs an item with its similarity breakdown and final score.
type ScoredItem struct {
	item   catalog.Item
	scores Scores
	text   *float64
	image  *float64
	final  float64
}

// New creates a scored item.
func New(item catalog.Item, scores Scores, text, image *float64, final float64) ScoredItem {
	return ScoredItem{item: item, scores: scores, text: text, image: image, final: final}
}

// Item returns the catalog item.
func (s *ScoredItem) Item() catalog.Item { return s.item }

// ID returns the item identifier.
func (s *ScoredItem) ID() string { return s.item.ID() }

// Scores returns the per-modality similarities.
func (s *ScoredItem) Scores() Scores { return s.scores }

// TextScore returns the fused text score, nil when the text modality was not used.
func (s *ScoredItem) TextScore() *float64 { return s.text }

// ImageScore returns the best-presentation image score, nil when the image modality was not used.
func (s *ScoredItem) ImageScore() *float64 { return s.image }

// Score returns the final fused score.
func (s *ScoredItem) Score() float64 { return s.final }
