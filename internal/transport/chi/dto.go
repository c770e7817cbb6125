package chi

import (
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/fashionsearch/internal/usecase/search"
)

type searchRequestJSON struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	Limit       *int   `json:"limit"`
}

type searchResponseJSON struct {
	Mode      string      `json:"mode"`
	Filters   filtersJSON `json:"applied_filters"`
	StyleText string      `json:"style_text,omitempty"`
	Items     []hitJSON   `json:"items"`
	Total     int         `json:"total"`
}

type filtersJSON struct {
	Brand    string   `json:"brand,omitempty"`
	Category string   `json:"category,omitempty"`
	Color    string   `json:"color,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

type hitJSON struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Brand      string     `json:"brand,omitempty"`
	Category   string     `json:"category,omitempty"`
	Color      string     `json:"color,omitempty"`
	Price      float64    `json:"price"`
	URL        string     `json:"url,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	Score      float64    `json:"score"`
	TextScore  *float64   `json:"text_score,omitempty"`
	ImageScore *float64   `json:"image_score,omitempty"`
	Scores     scoresJSON `json:"scores"`
}

type scoresJSON struct {
	ClipText *float64 `json:"clip_text,omitempty"`
	STText   *float64 `json:"st_text,omitempty"`
	Packshot *float64 `json:"clip_packshot,omitempty"`
	OnPerson *float64 `json:"clip_on_person,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func searchResponseToJSON(resp searchuc.Response) searchResponseJSON {
	items := make([]hitJSON, len(resp.Hits))
	for i := range resp.Hits {
		items[i] = hitToJSON(&resp.Hits[i])
	}
	return searchResponseJSON{
		Mode:      string(resp.Mode),
		Filters:   filtersToJSON(resp.Filters),
		StyleText: resp.StyleText,
		Items:     items,
		Total:     len(items),
	}
}

func filtersToJSON(f filter.Filters) filtersJSON {
	out := filtersJSON{
		Brand:    f.Brand(),
		Category: f.Category(),
		Color:    f.Color(),
	}
	if p := f.Price(); p != nil {
		out.MinPrice = p.Min()
		out.MaxPrice = p.Max()
	}
	return out
}

func hitToJSON(h *result.ScoredItem) hitJSON {
	it := h.Item()
	attrs := it.Attributes()
	sc := h.Scores()
	return hitJSON{
		ID:         it.ID(),
		Title:      attrs.Title,
		Brand:      attrs.Brand,
		Category:   attrs.Category,
		Color:      it.ColorGroup(),
		Price:      attrs.Price,
		URL:        attrs.URL,
		ImageURL:   attrs.ImageURL,
		Score:      h.Score(),
		TextScore:  h.TextScore(),
		ImageScore: h.ImageScore(),
		Scores: scoresJSON{
			ClipText: sc.ClipText,
			STText:   sc.STText,
			Packshot: sc.Packshot,
			OnPerson: sc.OnPerson,
		},
	}
}
