package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query text length in bytes.
	MaxQueryLength = 4096
	// MaxImageBytes is the largest accepted query image.
	MaxImageBytes = 10 << 20
	DefaultLimit  = 9
	MaxLimit      = 100
)

// Request is a validated search request: text and/or image plus a result limit.
type Request struct {
	text  string
	image []byte
	limit int
}

// New validates and normalizes search parameters.
// At least one of text or image is required. limit<=0 means DefaultLimit; it is clamped to MaxLimit.
func New(text string, image []byte, limit int) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return Request{}, fmt.Errorf("%w: text or image is required", domain.ErrQuery)
	}
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if len(image) > MaxImageBytes {
		return Request{}, fmt.Errorf("%w: image too large (max %d bytes)", domain.ErrInvalidRequest, MaxImageBytes)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{text: text, image: image, limit: limit}, nil
}

// Text returns the raw query text (trimmed), empty when absent.
func (r *Request) Text() string { return r.text }

// Image returns the raw query image bytes, nil when absent.
func (r *Request) Image() []byte { return r.image }

// HasText reports whether text was supplied.
func (r *Request) HasText() bool { return r.text != "" }

// HasImage reports whether an image was supplied.
func (r *Request) HasImage() bool { return len(r.image) > 0 }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }
