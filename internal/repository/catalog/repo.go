package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fashionsearch/internal/db"
	"github.com/kailas-cloud/fashionsearch/internal/domain"
	domcat "github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/query"
)

// store is the consumer interface for catalog reads (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	TagValues(ctx context.Context, index, field string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo is the search Index over a Redis/Valkey FT index of item hashes.
type Repo struct {
	store     store
	keyPrefix string
	indexName string
}

// New creates a catalog repository. Item keys are "<prefix>item:<sku>",
// the index is "<prefix>items:idx".
func New(s store, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		keyPrefix: keyPrefix + "item:",
		indexName: keyPrefix + "items:idx",
	}
}

type knnSearch struct {
	field string
	vec   []float32
}

// Candidates returns up to k nearest items per supplied (non-nil) vector and vector field,
// restricted by filters. The union is deduplicated and keeps first-seen order;
// scoring happens above this layer.
func (r *Repo) Candidates(
	ctx context.Context, filters filter.Filters, vecs query.Embeddings, k int,
) ([]domcat.Item, error) {
	searches := plan(vecs)
	if len(searches) == 0 || k <= 0 {
		return nil, nil
	}

	expr := filters.Expression()
	hits := make([][]string, len(searches))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range searches {
		g.Go(func() error {
			sr, err := r.store.SearchKNN(gctx, &db.KNNQuery{
				IndexName:   r.indexName,
				VectorField: s.field,
				Filters:     expr,
				Vector:      s.vec,
				K:           k,
			})
			if err != nil {
				return fmt.Errorf("%w: knn %s: %w", domain.ErrStorageUnavailable, s.field, err)
			}
			keys := make([]string, 0, len(sr.Entries))
			for _, e := range sr.Entries {
				keys = append(keys, e.Key)
			}
			hits[i] = keys
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	keys := union(hits)
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch items: %w", domain.ErrStorageUnavailable, err)
	}

	items := make([]domcat.Item, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue // deleted between search and fetch
		}
		it, err := itemFromHash(strings.TrimPrefix(keys[i], r.keyPrefix), h)
		if err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Vocabulary lists the distinct brands, categories and color groups in the index.
func (r *Repo) Vocabulary(ctx context.Context) (domcat.Vocabulary, error) {
	var v domcat.Vocabulary
	targets := []struct {
		field string
		dst   *[]string
	}{
		{filter.FieldBrand, &v.Brands},
		{filter.FieldCategory, &v.Categories},
		{filter.FieldColor, &v.Colors},
	}
	for _, t := range targets {
		vals, err := r.store.TagValues(ctx, r.indexName, t.field)
		if err != nil {
			return domcat.Vocabulary{}, fmt.Errorf("%w: tag values %s: %w", domain.ErrStorageUnavailable, t.field, err)
		}
		*t.dst = vals
	}
	return v, nil
}

func plan(vecs query.Embeddings) []knnSearch {
	var out []knnSearch
	if len(vecs.TextJoint) > 0 {
		// Items without a text-side joint vector are matched on their packshot.
		out = append(out,
			knnSearch{field: fieldClipText, vec: vecs.TextJoint},
			knnSearch{field: fieldPackshot, vec: vecs.TextJoint},
		)
	}
	if len(vecs.TextOnly) > 0 {
		out = append(out, knnSearch{field: fieldSTText, vec: vecs.TextOnly})
	}
	if len(vecs.ImageJoint) > 0 {
		out = append(out,
			knnSearch{field: fieldPackshot, vec: vecs.ImageJoint},
			knnSearch{field: fieldOnPerson, vec: vecs.ImageJoint},
		)
	}
	return out
}

func union(lists [][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, k := range l {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
