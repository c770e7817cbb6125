package catalog

import "slices"

// Vocabulary is the set of distinct tag values present in the catalog.
// Values are lower-case, as stored in the index.
type Vocabulary struct {
	Brands     []string
	Categories []string
	Colors     []string
}

// IsEmpty reports whether no values are known at all.
func (v Vocabulary) IsEmpty() bool {
	return len(v.Brands) == 0 && len(v.Categories) == 0 && len(v.Colors) == 0
}

// HasBrand reports whether brand is known. An empty brand list knows nothing
// and accepts everything.
func (v Vocabulary) HasBrand(brand string) bool {
	return len(v.Brands) == 0 || slices.Contains(v.Brands, brand)
}

// HasCategory reports whether category is known, with the same empty-list rule as HasBrand.
func (v Vocabulary) HasCategory(category string) bool {
	return len(v.Categories) == 0 || slices.Contains(v.Categories, category)
}
