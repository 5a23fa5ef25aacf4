package search

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

// Defaults for the auxiliary lookups.
const (
	DefaultSimilarLimit = 5
	DefaultTopicLimit   = 10
)

type entry struct {
	doc      core.Document
	title    string
	content  string
	category string
	words    map[string]struct{}
}

// Engine ranks the documents of a loaded index against queries. An Engine is
// immutable after construction and safe for concurrent use.
type Engine struct {
	entries    []entry
	scorer     Scorer
	vocabulary Vocabulary
}

// Option configures an Engine.
type Option func(*Engine)

// WithVocabulary sets the keyword list used for tag extraction.
func WithVocabulary(v Vocabulary) Option {
	return func(e *Engine) { e.vocabulary = v }
}

// WithClock sets the reference clock used for the recency boost.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.scorer.Now = now }
}

// NewEngine indexes docs. The slice is copied; callers may reuse it.
func NewEngine(docs []core.Document, opts ...Option) *Engine {
	e := &Engine{vocabulary: NewVocabulary(DefaultKeywords)}
	for _, opt := range opts {
		opt(e)
	}

	e.entries = make([]entry, 0, len(docs))
	for _, d := range docs {
		e.entries = append(e.entries, entry{
			doc:      d,
			title:    strings.ToLower(d.Title),
			content:  strings.ToLower(d.Content),
			category: d.Category(),
			words:    significantWords(d.Title + " " + d.Content),
		})
	}
	return e
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	return len(e.entries)
}

// Documents returns a copy of the indexed documents in index order.
func (e *Engine) Documents() []core.Document {
	docs := make([]core.Document, len(e.entries))
	for i, en := range e.entries {
		docs[i] = en.doc
	}
	return docs
}

// Vocabulary returns the tag vocabulary.
func (e *Engine) Vocabulary() Vocabulary {
	return e.vocabulary
}

// Search scores every document against query and returns the matches ordered
// by filters. A blank query returns no results without scoring anything.
func (e *Engine) Search(query string, filters core.Filters) []core.Result {
	results := []core.Result{}
	q := normalizeQuery(query)
	if q == "" {
		return results
	}
	filters = filters.Normalize()
	terms := Terms(q)

	for _, en := range e.entries {
		score := e.scorer.score(en.doc, en.title, en.content, q, terms, filters)
		if score == 0 {
			continue
		}
		if !filters.AllowsCategory(en.category) {
			continue
		}

		tags := e.vocabulary.extractLowered(en.content)
		if !matchesTags(tags, filters.Tags) {
			continue
		}
		readingTime := en.doc.ReadingTime()
		if !matchesReadingTime(readingTime, filters) {
			continue
		}
		if filters.DateRange != nil && (!en.doc.HasDate() || !filters.DateRange.Contains(en.doc.LastUpdated)) {
			continue
		}

		results = append(results, core.Result{
			Path:           en.doc.Path,
			Title:          en.doc.Title,
			Content:        en.doc.Content,
			Category:       en.category,
			Tags:           tags,
			RelevanceScore: score,
			MatchedTerms:   matchedTerms(en, terms),
			Snippet:        BuildSnippet(en.doc.Content, query),
			LastUpdated:    en.doc.LastUpdated,
			ReadingTime:    readingTime,
		})
	}

	SortResults(results, filters.SortBy, filters.SortOrder)
	return results
}

// SortResults orders results in place. Ties keep their current order.
func SortResults(results []core.Result, by core.SortBy, order core.SortOrder) {
	var compare func(a, b core.Result) int
	switch by {
	case core.SortByRelevance:
		compare = func(a, b core.Result) int { return cmp.Compare(a.RelevanceScore, b.RelevanceScore) }
	case core.SortByTitle:
		compare = func(a, b core.Result) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case core.SortByDate:
		compare = func(a, b core.Result) int { return a.LastUpdated.Compare(b.LastUpdated) }
	case core.SortByReadingTime:
		compare = func(a, b core.Result) int { return cmp.Compare(a.ReadingTime, b.ReadingTime) }
	default:
		compare = func(a, b core.Result) int { return cmp.Compare(a.RelevanceScore, b.RelevanceScore) }
	}

	if order == core.SortAsc {
		slices.SortStableFunc(results, compare)
		return
	}
	slices.SortStableFunc(results, func(a, b core.Result) int { return compare(b, a) })
}

func matchedTerms(en entry, terms []string) []string {
	matched := []string{}
	for _, term := range terms {
		if slices.Contains(matched, term) {
			continue
		}
		if strings.Contains(en.title, term) || strings.Contains(en.content, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

func matchesTags(tags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, t := range tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

func matchesReadingTime(minutes int, filters core.Filters) bool {
	if filters.MinReadingTime != nil && minutes < *filters.MinReadingTime {
		return false
	}
	if filters.MaxReadingTime != nil && minutes > *filters.MaxReadingTime {
		return false
	}
	return true
}

// FindSimilarContent ranks documents by the number of significant words they
// share with content. Documents whose content is identical to the input are
// skipped so an article is not reported as similar to itself.
func (e *Engine) FindSimilarContent(content string, limit int) []core.Result {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	words := significantWords(content)
	results := []core.Result{}
	if len(words) == 0 {
		return results
	}

	for _, en := range e.entries {
		if en.doc.Content == content {
			continue
		}
		shared := make([]string, 0)
		for w := range words {
			if _, ok := en.words[w]; ok {
				shared = append(shared, w)
			}
		}
		if len(shared) == 0 {
			continue
		}
		slices.Sort(shared)
		results = append(results, core.Result{
			Path:           en.doc.Path,
			Title:          en.doc.Title,
			Content:        en.doc.Content,
			Category:       en.category,
			Tags:           e.vocabulary.extractLowered(en.content),
			RelevanceScore: len(shared),
			MatchedTerms:   shared,
			Snippet:        BuildSnippet(en.doc.Content, ""),
			LastUpdated:    en.doc.LastUpdated,
			ReadingTime:    en.doc.ReadingTime(),
		})
	}

	SortResults(results, core.SortByRelevance, core.SortDesc)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// FindRelatedTopics returns the categories and tags most frequently attached
// to documents matching topic, excluding the topic itself.
func (e *Engine) FindRelatedTopics(topic string, limit int) []string {
	if limit <= 0 {
		limit = DefaultTopicLimit
	}
	related := []string{}
	if IsBlank(topic) {
		return related
	}

	self := normalizeQuery(topic)
	counts := make(map[string]int)
	for _, r := range e.Search(topic, core.DefaultFilters()) {
		seen := make(map[string]struct{})
		for _, name := range append([]string{strings.ToLower(r.Category)}, r.Tags...) {
			if name == self {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	for name := range counts {
		related = append(related, name)
	}
	slices.SortFunc(related, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}
