package embedding

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

// Dimensions pins the expected vector sizes; 0 accepts any size.
type Dimensions struct {
	Joint int
	Text  int
}

// Provider implements vector.Provider over a joint image-text embedder and a
// text-only embedder. Every returned vector is L2-normalized. Errors wrap
// domain.ErrEmbedding.
type Provider struct {
	joint domain.JointEmbedder
	text  domain.Embedder
	dims  Dimensions
}

var _ vector.Provider = (*Provider)(nil)

// NewProvider creates the two-space provider.
func NewProvider(joint domain.JointEmbedder, text domain.Embedder, dims Dimensions) *Provider {
	return &Provider{joint: joint, text: text, dims: dims}
}

// EmbedJointText embeds text in the joint space.
func (p *Provider) EmbedJointText(ctx context.Context, text string) (vector.Joint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: joint text: empty input", domain.ErrEmbedding)
	}
	res, err := p.joint.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: joint text: %w", domain.ErrEmbedding, err)
	}
	v, err := finish(res.Embedding, p.dims.Joint)
	if err != nil {
		return nil, fmt.Errorf("%w: joint text: %w", domain.ErrEmbedding, err)
	}
	return vector.Joint(v), nil
}

// EmbedJointImage embeds an encoded JPEG, PNG or GIF image in the joint space.
func (p *Provider) EmbedJointImage(ctx context.Context, img []byte) (vector.Joint, error) {
	if err := validateImage(img); err != nil {
		return nil, fmt.Errorf("%w: joint image: %w", domain.ErrEmbedding, err)
	}
	res, err := p.joint.EmbedImage(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: joint image: %w", domain.ErrEmbedding, err)
	}
	v, err := finish(res.Embedding, p.dims.Joint)
	if err != nil {
		return nil, fmt.Errorf("%w: joint image: %w", domain.ErrEmbedding, err)
	}
	return vector.Joint(v), nil
}

// EmbedText embeds text in the text-only space.
func (p *Provider) EmbedText(ctx context.Context, text string) (vector.Text, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text: empty input", domain.ErrEmbedding)
	}
	res, err := p.text.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", domain.ErrEmbedding, err)
	}
	v, err := finish(res.Embedding, p.dims.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", domain.ErrEmbedding, err)
	}
	return vector.Text(v), nil
}

// finish checks the size and normalizes.
func finish(v []float32, dims int) ([]float32, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("empty vector")
	}
	if dims > 0 && len(v) != dims {
		return nil, fmt.Errorf("expected %d dimensions, got %d", dims, len(v))
	}
	n := vector.Normalize(v)
	for _, x := range n {
		if x != 0 {
			return n, nil
		}
	}
	return nil, fmt.Errorf("zero vector")
}

// validateImage decodes only the image header.
func validateImage(img []byte) error {
	if len(img) == 0 {
		return fmt.Errorf("empty input")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return fmt.Errorf("undecodable image: %w", err)
	}
	return nil
}
