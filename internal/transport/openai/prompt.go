package openai

import (
	"strings"

	"github.com/kailas-cloud/fashionsearch/internal/domain/catalog"
)

// PromptVersion identifies the system prompt below. Bump it on any wording
// change so cached extractions are not reused across prompt revisions.
const PromptVersion = "v1"

const promptHeader = `You extract structured search filters from fashion shopping queries.
All values are case-insensitive; answer in lower case.
`

const promptRules = `
Fields:
- brand: the brand named in the query. Pick a value from the known brands when one
  matches (prefer the main brand over a sub-brand). Empty string when none matches.
- category: the garment category, singular or plural as listed in the known
  categories ("shoe" -> "shoes"). Empty string when none matches.
- color: the dominant color, with degree modifiers dropped ("reddish" -> "red",
  "reddish orange" -> "orange"). Empty string when no color is named.
- min_price / max_price: numeric bounds in the catalog currency, 0 when absent.
  "under 50" -> max_price 50; "over 100" -> min_price 100;
  "between 50 and 100" or "50 to 100" -> min_price 50, max_price 100.
- clean_query: the query with only price phrases removed
  ("Nike shoes under 50" -> "Nike shoes"). The original query when there are none.
- style_query: the query with price, brand, category and color removed, keeping
  pattern, material, texture and silhouette words
  ("Short velvet dress by Ralph Lauren" -> "short velvet",
  "Emerald floral mini dress" -> "floral mini", "Dress with polka dots" -> "polka dots").
  Empty string when nothing descriptive remains.
- confidence: 0 to 1, how sure you are the fields reflect the query.
`

// systemPrompt renders the extraction instructions with the known catalog values.
// Empty lists are omitted.
func systemPrompt(vocab catalog.Vocabulary) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	writeList(&b, "Known brands", vocab.Brands)
	writeList(&b, "Known categories", vocab.Categories)
	writeList(&b, "Known colors", vocab.Colors)
	b.WriteString(promptRules)
	return b.String()
}

func writeList(b *strings.Builder, title string, values []string) {
	if len(values) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString(": ")
	b.WriteString(strings.Join(values, ", "))
	b.WriteString("\n")
}
