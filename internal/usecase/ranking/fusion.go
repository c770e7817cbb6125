package ranking

import (
	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/filter"
)

// ApplyFilters returns the items satisfying every present filter field,
// in corpus order. It runs before any similarity is computed.
func ApplyFilters(f filter.Filters, corpus []catalog.Item) []catalog.Item {
	if f.IsEmpty() {
		return corpus
	}
	out := make([]catalog.Item, 0, len(corpus))
	for i := range corpus {
		if f.Matches(&corpus[i]) {
			out = append(out, corpus[i])
		}
	}
	return out
}

// FuseText combines the joint-space and text-only similarities. When one is
// missing the other is used alone; nil means the item has no text score.
func FuseText(jointSim, textSim *float64, w TextWeights) *float64 {
	return fuse(jointSim, w.Clip, textSim, w.Text)
}

// BestPresentationMatch returns the higher of the packshot and on-person
// similarities, or the one that is present. Packshots are not preferred.
func BestPresentationMatch(packshot, onPerson *float64) *float64 {
	switch {
	case packshot == nil && onPerson == nil:
		return nil
	case packshot == nil:
		return ptr(*onPerson)
	case onPerson == nil:
		return ptr(*packshot)
	default:
		return ptr(max(*packshot, *onPerson))
	}
}

// FuseCombined combines text and image scores. An item scored on one side
// only is ranked by that side, with no penalty for the missing one.
func FuseCombined(text, image *float64, w ModalityWeights) *float64 {
	return fuse(text, w.Text, image, w.Image)
}

func fuse(a *float64, wa float64, b *float64, wb float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return ptr(*b)
	case b == nil:
		return ptr(*a)
	default:
		return ptr(wa**a + wb**b)
	}
}

func ptr(f float64) *float64 { return &f }
