// Package palette holds the canonical color set items and filters are normalized to.
package palette

import (
	"fmt"
	"strings"
)

// Colors is the canonical palette, grouped by hue.
var Colors = []string{
	// neutrals
	"white", "ivory", "light gray", "gray", "dark gray", "black",
	"silver", "gold", "beige", "tan", "brown", "dark brown",
	// reds and pinks
	"light pink", "pink", "hot pink", "red", "dark red", "burgundy",
	// oranges
	"peach", "coral", "orange", "rust",
	// yellows
	"light yellow", "yellow", "mustard",
	// greens
	"mint", "light green", "green", "olive", "dark green",
	// blues
	"light blue", "blue", "royal blue", "navy",
	// purples
	"lavender", "purple", "dark purple",
	"multicolor",
}

var index = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Colors))
	for _, c := range Colors {
		m[c] = struct{}{}
	}
	return m
}()

// Normalize lower-cases and collapses whitespace.
func Normalize(color string) string {
	return strings.Join(strings.Fields(strings.ToLower(color)), " ")
}

// Lookup returns the palette entry for color if it is one verbatim.
func Lookup(color string) (string, bool) {
	c := Normalize(color)
	_, ok := index[c]
	return c, ok
}

// PromptTemplate renders a color into the text embedded for zero-shot color matching.
const PromptTemplate = "A piece of clothing in %s color."

// Prompt is the text embedded in the joint space for zero-shot color matching.
func Prompt(color string) string {
	return fmt.Sprintf(PromptTemplate, Normalize(color))
}
