package ranking

import (
	"fmt"
	"math"
)

const weightTolerance = 1e-6

// TextWeights balances the joint-space and text-only similarities of a text query.
type TextWeights struct {
	Clip float64
	Text float64
}

// DefaultTextWeights weighs both text spaces equally.
func DefaultTextWeights() TextWeights { return TextWeights{Clip: 0.5, Text: 0.5} }

// Validate checks each weight is in [0,1] and that they sum to 1.
func (w TextWeights) Validate() error {
	return validatePair("clip_weight", w.Clip, "text_weight", w.Text)
}

// ModalityWeights balances text and image scores in combined mode.
type ModalityWeights struct {
	Text  float64
	Image float64
}

// DefaultModalityWeights weighs text and image equally.
func DefaultModalityWeights() ModalityWeights { return ModalityWeights{Text: 0.5, Image: 0.5} }

// Validate checks each weight is in [0,1] and that they sum to 1.
func (w ModalityWeights) Validate() error {
	return validatePair("text_weight", w.Text, "image_weight", w.Image)
}

func validatePair(an string, a float64, bn string, b float64) error {
	for _, p := range [...]struct {
		name string
		v    float64
	}{{an, a}, {bn, b}} {
		if math.IsNaN(p.v) || p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", p.name, p.v)
		}
	}
	if math.Abs(a+b-1) > weightTolerance {
		return fmt.Errorf("%s + %s must equal 1, got %g", an, bn, a+b)
	}
	return nil
}
