package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
	"github.com/kailas-cloud/fashionsearch/internal/logger"
)

// Config holds the fusion weights.
type Config struct {
	Text     TextWeights
	Modality ModalityWeights
}

// DefaultConfig returns equal weights everywhere.
func DefaultConfig() Config {
	return Config{Text: DefaultTextWeights(), Modality: DefaultModalityWeights()}
}

// Engine scores and orders candidate items against a planned query.
// It is stateless after construction and safe for concurrent use.
type Engine struct {
	text     TextWeights
	modality ModalityWeights
}

// New validates the weights and creates an Engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Text.Validate(); err != nil {
		return nil, fmt.Errorf("text weights: %w", err)
	}
	if err := cfg.Modality.Validate(); err != nil {
		return nil, fmt.Errorf("modality weights: %w", err)
	}
	return &Engine{text: cfg.Text, modality: cfg.Modality}, nil
}

// Rank filters the corpus, scores every remaining item in the query's mode
// and orders by final score descending, then by item ID ascending. Items with
// no score in the query's mode are left out. An empty result is not an error.
func (e *Engine) Rank(ctx context.Context, q query.Query, corpus []catalog.Item) []result.ScoredItem {
	m := q.Mode()
	items := ApplyFilters(q.Filters(), corpus)
	out := make([]result.ScoredItem, 0, len(items))
	mm := make(mismatches)
	defer mm.log(ctx)

	for i := range items {
		it := &items[i]
		vecs := it.Vectors()

		var (
			scores      result.Scores
			text, image *float64
		)
		if m == mode.Text || m == mode.Combined {
			field, joint := jointTextTarget(vecs)
			scores.ClipText = similarity(mm, it.ID(), field, q.TextJoint(), joint)
			scores.STText = similarity(mm, it.ID(), "st_text", q.TextOnly(), vecs.STText)
			text = FuseText(scores.ClipText, scores.STText, e.text)
		}
		if m == mode.Image || m == mode.Combined {
			scores.Packshot = similarity(mm, it.ID(), "clip_packshot", q.ImageJoint(), vecs.Packshot)
			scores.OnPerson = similarity(mm, it.ID(), "clip_on_person", q.ImageJoint(), vecs.OnPerson)
			image = BestPresentationMatch(scores.Packshot, scores.OnPerson)
		}

		var final *float64
		switch m {
		case mode.Text:
			final = text
		case mode.Image:
			final = image
		case mode.Combined:
			final = FuseCombined(text, image, e.modality)
		}
		if final == nil {
			continue
		}
		out = append(out, result.New(*it, scores, text, image, *final))
	}

	slices.SortFunc(out, func(a, b result.ScoredItem) int {
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

// jointTextTarget picks the item vector a joint-space text query is compared
// with: the item's own text embedding, or its packshot when that is missing.
func jointTextTarget(vecs catalog.Vectors) (string, vector.Joint) {
	if len(vecs.ClipText) > 0 {
		return "clip_text", vecs.ClipText
	}
	return "clip_packshot", vecs.Packshot
}

// mismatch is the first dimension mismatch seen on a field plus a count.
type mismatch struct {
	itemID    string
	queryDims int
	itemDims  int
	count     int
}

// mismatches collects dimension mismatches per field for one Rank call.
type mismatches map[string]*mismatch

func (mm mismatches) record(field, id string, queryDims, itemDims int) {
	if m, ok := mm[field]; ok {
		m.count++
		return
	}
	mm[field] = &mismatch{itemID: id, queryDims: queryDims, itemDims: itemDims, count: 1}
}

// log writes one warning per mismatched field.
func (mm mismatches) log(ctx context.Context) {
	if len(mm) == 0 {
		return
	}
	fields := make([]string, 0, len(mm))
	for f := range mm {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	log := logger.FromContext(ctx)
	for _, f := range fields {
		m := mm[f]
		log.Warn("Embedding dimension mismatch, treating as absent",
			zap.String("field", f),
			zap.String("first_item_id", m.itemID),
			zap.Int("query_dims", m.queryDims),
			zap.Int("item_dims", m.itemDims),
			zap.Int("items", m.count),
		)
	}
}

// similarity is the cosine of two same-space vectors, nil when either side
// is absent or unusable.
func similarity[V vector.Joint | vector.Text](mm mismatches, id, field string, q, item V) *float64 {
	if len(q) == 0 || len(item) == 0 {
		return nil
	}
	if len(q) != len(item) {
		mm.record(field, id, len(q), len(item))
		return nil
	}
	sim, ok := vector.Cosine(q, item)
	if !ok {
		return nil
	}
	return &sim
}
