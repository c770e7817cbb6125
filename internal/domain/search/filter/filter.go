package filter

import "fmt"

// Expression is a conjunction of conditions in the storage filter language.
type Expression struct {
	must []Condition
}

// Must returns the conditions that all have to hold.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition is a single filter clause: either a tag match or a numeric range.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is an inclusive numeric range; either bound may be open.
type Range struct {
	min *float64
	max *float64
}

// NewRangeFilter validates and creates a Range.
// At least one bound is required and min must not exceed max.
func NewRangeFilter(lo, hi *float64) (Range, error) {
	if lo == nil && hi == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if lo != nil && hi != nil && *lo > *hi {
		return Range{}, fmt.Errorf("range minimum %g exceeds maximum %g", *lo, *hi)
	}
	r := Range{}
	if lo != nil {
		v := *lo
		r.min = &v
	}
	if hi != nil {
		v := *hi
		r.max = &v
	}
	return r, nil
}

// Min returns the inclusive lower bound, nil when open.
func (r Range) Min() *float64 { return r.min }

// Max returns the inclusive upper bound, nil when open.
func (r Range) Max() *float64 { return r.max }

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}
