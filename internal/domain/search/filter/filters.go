package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
)

// Field names shared with the catalog index schema.
const (
	FieldBrand    = "brand"
	FieldCategory = "category"
	FieldColor    = "color_group"
	FieldPrice    = "price"
)

// Filters is the structured predicate set extracted from a query.
// Present fields are conjunctive; absent fields impose no constraint.
type Filters struct {
	brand    string
	category string
	color    string
	price    *Range
}

// None returns Filters with every field absent.
func None() Filters { return Filters{} }

// New normalizes and creates Filters. Empty strings and nil bounds mean "absent".
func New(brand, category, color string, minPrice, maxPrice *float64) (Filters, error) {
	f := Filters{
		brand:    NormalizeTag(brand),
		category: NormalizeTag(category),
		color:    NormalizeTag(color),
	}
	if minPrice != nil || maxPrice != nil {
		r, err := NewRangeFilter(minPrice, maxPrice)
		if err != nil {
			return Filters{}, fmt.Errorf("price: %w", err)
		}
		f.price = &r
	}
	return f, nil
}

// NormalizeTag lower-cases and collapses whitespace so tag comparison is case-insensitive.
func NormalizeTag(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Brand returns the brand constraint, empty when absent.
func (f Filters) Brand() string { return f.brand }

// Category returns the category constraint, empty when absent.
func (f Filters) Category() string { return f.category }

// Color returns the palette color constraint, empty when absent.
func (f Filters) Color() string { return f.color }

// Price returns the price range, nil when absent.
func (f Filters) Price() *Range {
	if f.price == nil {
		return nil
	}
	r := *f.price
	return &r
}

// IsEmpty reports whether no field is present.
func (f Filters) IsEmpty() bool {
	return f.brand == "" && f.category == "" && f.color == "" && f.price == nil
}

// Matches reports whether the item satisfies every present field.
func (f Filters) Matches(it *catalog.Item) bool {
	if f.brand != "" && NormalizeTag(it.Brand()) != f.brand {
		return false
	}
	if f.category != "" && NormalizeTag(it.Category()) != f.category {
		return false
	}
	if f.color != "" && NormalizeTag(it.ColorGroup()) != f.color {
		return false
	}
	if f.price != nil && !f.price.Contains(it.Price()) {
		return false
	}
	return true
}

// Expression lowers the filters into the storage filter language for pushdown.
func (f Filters) Expression() Expression {
	var must []Condition
	for _, kv := range [...]struct{ key, val string }{
		{FieldBrand, f.brand},
		{FieldCategory, f.category},
		{FieldColor, f.color},
	} {
		if kv.val == "" {
			continue
		}
		must = append(must, Condition{key: kv.key, match: kv.val})
	}
	if f.price != nil {
		r := *f.price
		must = append(must, Condition{key: FieldPrice, rangeExpr: &r})
	}
	return Expression{must: must}
}

// String renders the present fields for logs and cache keys.
func (f Filters) String() string {
	var parts []string
	if f.brand != "" {
		parts = append(parts, "brand="+f.brand)
	}
	if f.category != "" {
		parts = append(parts, "category="+f.category)
	}
	if f.color != "" {
		parts = append(parts, "color="+f.color)
	}
	if f.price != nil {
		lo, hi := "-inf", "+inf"
		if f.price.min != nil {
			lo = fmt.Sprintf("%g", *f.price.min)
		}
		if f.price.max != nil {
			hi = fmt.Sprintf("%g", *f.price.max)
		}
		parts = append(parts, "price=["+lo+","+hi+"]")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
