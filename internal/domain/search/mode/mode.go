package mode

// Mode is the ranking strategy, derived from the modalities a query carries.
type Mode string

// Search mode constants.
const (
	// Text ranks by the fused joint-text and text-only similarities.
	Text Mode = "text"
	// Image ranks by the best of packshot and on-person similarity.
	Image Mode = "image"
	// Combined blends the text and image scores.
	Combined Mode = "combined"
)

// From derives the mode from the available modalities.
// Returns "" when neither is present.
func From(hasText, hasImage bool) Mode {
	switch {
	case hasText && hasImage:
		return Combined
	case hasImage:
		return Image
	case hasText:
		return Text
	default:
		return ""
	}
}
