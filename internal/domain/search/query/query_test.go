package query

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/fashionsearch/internal/domain/vector"
)

func TestNew_NoEmbeddings(t *testing.T) {
	_, err := New("satin", filter.None(), Embeddings{})
	if !errors.Is(err, domain.ErrQuery) {
		t.Fatalf("err = %v, want ErrQuery", err)
	}
}

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		name string
		emb  Embeddings
		want mode.Mode
	}{
		{"joint text only", Embeddings{TextJoint: vector.Joint{1}}, mode.Text},
		{"text-only space only", Embeddings{TextOnly: vector.Text{1}}, mode.Text},
		{"image", Embeddings{ImageJoint: vector.Joint{1}}, mode.Image},
		{"combined", Embeddings{TextOnly: vector.Text{1}, ImageJoint: vector.Joint{1}}, mode.Combined},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := New("", filter.None(), tc.emb)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Mode() != tc.want {
				t.Errorf("Mode() = %q, want %q", q.Mode(), tc.want)
			}
		})
	}
}
