package search

import (
	"strings"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

// Points awarded by the Scorer.
const (
	TitlePhrasePoints   = 100
	ContentPhrasePoints = 50
	TitleTermPoints     = 20
	ContentTermPoints   = 10
	CategoryPoints      = 5
	RecencyPoints       = 10
)

// RecencyWindow is how recently a document must have been updated to get the
// recency boost.
const RecencyWindow = 30 * 24 * time.Hour

// Scorer computes additive relevance scores. A zero score means the document
// does not match the query at all.
type Scorer struct {
	// Now returns the reference time for the recency boost. Defaults to time.Now.
	Now func() time.Time
}

// Score returns the relevance of doc for query under filters.
//
// The category and recency boosts only apply to documents that matched the
// query text; otherwise every document would clear the rejection threshold.
func (s Scorer) Score(doc core.Document, query string, filters core.Filters) int {
	q := normalizeQuery(query)
	if q == "" {
		return 0
	}
	return s.score(doc, strings.ToLower(doc.Title), strings.ToLower(doc.Content), q, Terms(q), filters)
}

func (s Scorer) score(doc core.Document, title, content, q string, terms []string, filters core.Filters) int {
	score := textScore(title, content, q, terms)
	if score == 0 {
		return 0
	}

	if filters.AllowsCategory(doc.Category()) {
		score += CategoryPoints
	}

	if doc.HasDate() {
		now := s.now()
		if age := now.Sub(doc.LastUpdated); age >= 0 && age <= RecencyWindow {
			score += RecencyPoints
		}
	}

	return score
}

func (s Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// textScore expects lower-cased inputs.
func textScore(title, content, q string, terms []string) int {
	score := 0
	if strings.Contains(title, q) {
		score += TitlePhrasePoints
	}
	if strings.Contains(content, q) {
		score += ContentPhrasePoints
	}
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += TitleTermPoints
		}
		if strings.Contains(content, term) {
			score += ContentTermPoints
		}
	}
	return score
}

// Terms splits a query into lower-cased whitespace delimited terms, dropping
// empty ones.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// IsBlank reports whether query has no searchable content.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
