// Package vector defines the two embedding spaces the engine works with.
//
// Joint vectors come from the image–text model, Text vectors from the
// text-only model. They are distinct types so a similarity between the two
// spaces cannot be expressed.
package vector

import (
	"context"
	"math"
)

// Joint is an embedding in the shared image–text space.
type Joint []float32

// Text is an embedding in the text-only space.
type Text []float32

// Space names an embedding space for logging, metrics and cache keys.
type Space string

const (
	// SpaceJoint is the image–text space.
	SpaceJoint Space = "joint"
	// SpaceText is the text-only space.
	SpaceText Space = "text"
)

// Provider exposes both spaces behind one contract. Implementations must be
// safe for concurrent use.
type Provider interface {
	EmbedJointText(ctx context.Context, text string) (Joint, error)
	EmbedJointImage(ctx context.Context, image []byte) (Joint, error)
	EmbedText(ctx context.Context, text string) (Text, error)
}

// Cosine returns the cosine similarity of two vectors from the same space.
// ok is false when either vector is empty, the dimensions differ or a norm is zero.
func Cosine[V Joint | Text](a, b V) (sim float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

// Normalize scales v to unit length. A zero vector is returned as a zero vector.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
