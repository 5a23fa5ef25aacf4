package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rubiojr/docsearch/pkg/core"
)

// Suggestion generation limits.
const (
	MaxSuggestions    = 10
	MaxTagSuggestions = 50
	// Words must appear more than twice to become tag suggestions.
	MinTagFrequency = 3
)

// Suggestions is the read-only autocomplete set built from an index.
type Suggestions struct {
	items []core.Suggestion
}

// BuildSuggestions derives category, article and tag suggestions from docs in
// a single pass.
func BuildSuggestions(docs []core.Document) *Suggestions {
	categoryCounts := make(map[string]int)
	categoryOrder := []string{}
	articles := []core.Suggestion{}
	wordCounts := make(map[string]int)

	for _, d := range docs {
		category := d.Category()
		if _, ok := categoryCounts[category]; !ok {
			categoryOrder = append(categoryOrder, category)
		}
		categoryCounts[category]++

		if title := strings.TrimSpace(d.Title); title != "" {
			articles = append(articles, core.Suggestion{
				Text:      title,
				Type:      core.SuggestionArticle,
				Frequency: 1,
				Category:  category,
			})
		}

		for _, w := range Tokenize(d.Content) {
			wordCounts[w]++
		}
	}

	items := make([]core.Suggestion, 0, len(categoryOrder)+len(articles)+MaxTagSuggestions)
	for _, c := range categoryOrder {
		items = append(items, core.Suggestion{
			Text:      c,
			Type:      core.SuggestionCategory,
			Frequency: categoryCounts[c],
		})
	}
	items = append(items, articles...)

	tags := make([]core.Suggestion, 0)
	for w, n := range wordCounts {
		if n < MinTagFrequency {
			continue
		}
		tags = append(tags, core.Suggestion{Text: w, Type: core.SuggestionTag, Frequency: n})
	}
	slices.SortFunc(tags, func(a, b core.Suggestion) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})
	if len(tags) > MaxTagSuggestions {
		tags = tags[:MaxTagSuggestions]
	}
	items = append(items, tags...)

	return &Suggestions{items: items}
}

// Len returns the number of suggestions.
func (s *Suggestions) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a copy of every suggestion.
func (s *Suggestions) All() []core.Suggestion {
	if s == nil {
		return []core.Suggestion{}
	}
	return slices.Clone(s.items)
}

// Match returns up to MaxSuggestions suggestions whose text contains partial
// (case-insensitive), most frequent first. extra candidates, such as popular
// queries, are considered before the index suggestions on equal frequency.
func (s *Suggestions) Match(partial string, extra ...core.Suggestion) []core.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(partial))
	matches := []core.Suggestion{}

	candidates := slices.Clone(extra)
	if s != nil {
		candidates = append(candidates, s.items...)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Text), needle) {
			matches = append(matches, c)
		}
	}

	slices.SortStableFunc(matches, func(a, b core.Suggestion) int {
		return cmp.Compare(b.Frequency, a.Frequency)
	})
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	return matches
}
