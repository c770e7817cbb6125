package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuery signals that a search request carries no usable modality.
	ErrQuery = errors.New("no usable modality")
	// ErrInvalidRequest signals a malformed search request (oversized text, bad limit).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbedding signals that one modality could not be embedded.
	ErrEmbedding = errors.New("embedding error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrFilterExtraction signals a failed or low-confidence filter extraction.
	// It is always recovered inside the extractor.
	ErrFilterExtraction = errors.New("filter extraction failed")
	// ErrStorageUnavailable signals that the vector index could not be queried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ModalityError records why a single modality was dropped during planning.
type ModalityError struct {
	Modality string
	Err      error
}

func (e *ModalityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Modality, e.Err)
}

func (e *ModalityError) Unwrap() error { return e.Err }

// NoModalityError wraps ErrQuery with the per-modality causes.
type NoModalityError struct {
	Causes []error
}

func (e *NoModalityError) Error() string {
	if len(e.Causes) == 0 {
		return ErrQuery.Error()
	}
	return fmt.Sprintf("%s: %v", ErrQuery.Error(), errors.Join(e.Causes...))
}

// Unwrap exposes ErrQuery and every cause to errors.Is / errors.As.
func (e *NoModalityError) Unwrap() []error {
	return append([]error{ErrQuery}, e.Causes...)
}
