package search

import (
	"strings"
	"unicode/utf8"
)

// Snippet sizes, in runes.
const (
	SnippetContext  = 100
	SnippetFallback = 200
	Ellipsis        = "..."
)

// BuildSnippet returns a window of content around the first case-insensitive
// occurrence of the full query. When the query does not appear verbatim it
// falls back to the beginning of the content.
func BuildSnippet(content, query string) string {
	q := normalizeQuery(query)
	runes := []rune(content)

	if q != "" {
		lowered := strings.ToLower(content)
		if idx := strings.Index(lowered, q); idx >= 0 {
			// Lower-casing can change byte widths, so positions are
			// computed in runes of the lowered text.
			start := utf8.RuneCountInString(lowered[:idx])
			end := start + utf8.RuneCountInString(q)
			return window(runes, start, end)
		}
	}

	if len(runes) > SnippetFallback {
		runes = runes[:SnippetFallback]
	}
	return string(runes) + Ellipsis
}

func window(runes []rune, start, end int) string {
	if end > len(runes) {
		end = len(runes)
	}
	from := max(0, start-SnippetContext)
	to := min(len(runes), end+SnippetContext)

	snippet := string(runes[from:to])
	if from > 0 {
		snippet = Ellipsis + snippet
	}
	if to < len(runes) {
		snippet += Ellipsis
	}
	return snippet
}
