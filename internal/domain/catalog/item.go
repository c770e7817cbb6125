package catalog

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// Attributes holds the structured, filterable fields of a catalog item.
type Attributes struct {
	Title      string
	Brand      string
	Category   string
	Color      string // as scraped
	ColorGroup string // palette-normalized, written by the offline job
	Price      float64
	URL        string
	ImageURL   string
}

// Vectors holds the precomputed item embeddings. Any of them may be absent.
type Vectors struct {
	ClipText vector.Joint // joint space, text side of the item
	STText   vector.Text  // text-only space
	Packshot vector.Joint // joint space, neutral-background photo
	OnPerson vector.Joint // joint space, photo of the item worn
}

// Item is a read-only catalog entry.
type Item struct {
	id    string
	attrs Attributes
	vecs  Vectors
}

// New validates and creates an Item.
func New(id string, attrs Attributes, vecs Vectors) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if attrs.Price < 0 {
		return Item{}, fmt.Errorf("item %s: price must not be negative", id)
	}
	return Reconstruct(id, attrs, vecs), nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(id string, attrs Attributes, vecs Vectors) Item {
	return Item{id: id, attrs: attrs, vecs: vecs}
}

// ID returns the item identifier (SKU).
func (i *Item) ID() string { return i.id }

// Attributes returns the structured fields.
func (i *Item) Attributes() Attributes { return i.attrs }

// Vectors returns the precomputed embeddings.
func (i *Item) Vectors() Vectors { return i.vecs }

// Title returns the product title.
func (i *Item) Title() string { return i.attrs.Title }

// Brand returns the brand.
func (i *Item) Brand() string { return i.attrs.Brand }

// Category returns the category.
func (i *Item) Category() string { return i.attrs.Category }

// Color returns the raw color.
func (i *Item) Color() string { return i.attrs.Color }

// ColorGroup returns the palette color; falls back to the raw color when unset.
func (i *Item) ColorGroup() string {
	if i.attrs.ColorGroup != "" {
		return i.attrs.ColorGroup
	}
	return i.attrs.Color
}

// Price returns the price.
func (i *Item) Price() float64 { return i.attrs.Price }

// HasImageEmbedding reports whether the item can take part in image ranking.
func (i *Item) HasImageEmbedding() bool {
	return len(i.vecs.Packshot) > 0 || len(i.vecs.OnPerson) > 0
}

// HasTextEmbedding reports whether the item can take part in text ranking.
func (i *Item) HasTextEmbedding() bool {
	return len(i.vecs.ClipText) > 0 || len(i.vecs.STText) > 0
}
