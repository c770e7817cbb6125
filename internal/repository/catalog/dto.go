package catalog

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	domcat "github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// Hash field names written by the offline ingestion job.
const (
	fieldTitle      = "title"
	fieldBrand      = "brand"
	fieldCategory   = "category"
	fieldColor      = "color"
	fieldColorGroup = "color_group"
	fieldPrice      = "price"
	fieldURL        = "url"
	fieldImageURL   = "image_url"

	fieldClipText = "clip_text"
	fieldSTText   = "st_text"
	fieldPackshot = "clip_packshot"
	fieldOnPerson = "clip_on_person"
)

// itemFromHash hydrates an item from its hash fields. id is the SKU.
func itemFromHash(id string, h map[string]string) (domcat.Item, error) {
	var price float64
	if raw := h[fieldPrice]; raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domcat.Item{}, fmt.Errorf("item %s: parse price %q: %w", id, raw, err)
		}
		price = p
	}

	attrs := domcat.Attributes{
		Title:      h[fieldTitle],
		Brand:      strings.ToLower(h[fieldBrand]),
		Category:   strings.ToLower(h[fieldCategory]),
		Color:      h[fieldColor],
		ColorGroup: strings.ToLower(h[fieldColorGroup]),
		Price:      price,
		URL:        h[fieldURL],
		ImageURL:   h[fieldImageURL],
	}

	vecs := domcat.Vectors{
		ClipText: vector.Joint(bytesToVector(h[fieldClipText])),
		STText:   vector.Text(bytesToVector(h[fieldSTText])),
		Packshot: vector.Joint(bytesToVector(h[fieldPackshot])),
		OnPerson: vector.Joint(bytesToVector(h[fieldOnPerson])),
	}

	it, err := domcat.New(id, attrs, vecs)
	if err != nil {
		return domcat.Item{}, fmt.Errorf("hydrate item: %w", err)
	}
	return it, nil
}

// bytesToVector deserializes a little-endian float32 blob.
// An empty or malformed blob is an absent vector.
func bytesToVector(s string) []float32 {
	if s == "" || len(s)%4 != 0 {
		return nil
	}
	b := []byte(s)
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
