package filtercache

import "github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"

type intentDTO struct {
	Brand      string   `json:"brand,omitempty"`
	Category   string   `json:"category,omitempty"`
	Color      string   `json:"color,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	StyleQuery string   `json:"style_query,omitempty"`
	CleanQuery string   `json:"clean_query,omitempty"`
	Confidence float64  `json:"confidence"`
}

func fromDomain(in intent.Intent) intentDTO {
	return intentDTO{
		Brand:      in.Brand,
		Category:   in.Category,
		Color:      in.Color,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		StyleQuery: in.StyleQuery,
		CleanQuery: in.CleanQuery,
		Confidence: in.Confidence,
	}
}

func (d intentDTO) toDomain() intent.Intent {
	return intent.Intent{
		Brand:      d.Brand,
		Category:   d.Category,
		Color:      d.Color,
		MinPrice:   d.MinPrice,
		MaxPrice:   d.MaxPrice,
		StyleQuery: d.StyleQuery,
		CleanQuery: d.CleanQuery,
		Confidence: d.Confidence,
	}
}
