// Package search implements the relevance engine of docsearch.
//
// # Overview
//
// The package ranks the documents of a loaded knowledge-base index against
// free-text queries. It is a pure in-memory engine: documents are scanned
// linearly, scored with an additive point system, filtered, and sorted.
// History tracking and persistence live in other packages; nothing here has
// side effects.
//
// # Key Features
//
//   - Additive relevance scoring (phrase and term matches in title and content)
//   - Category, tag, reading time and date range filters
//   - Sorting by relevance, title, date or reading time
//   - Context snippets around the first match
//   - Tag extraction against a configurable keyword vocabulary
//   - Autocomplete suggestions derived from the index in a single pass
//   - Similar content and related topic lookups
//
// # Scoring
//
// Scorer awards:
//
//   - 100 points when the title contains the full query
//   - 50 points when the content contains the full query
//   - 20 points per query term found in the title
//   - 10 points per query term found in the content
//   - 5 points when the category passes the category filter (or no filter is set)
//   - 10 points when the document was updated in the last 30 days
//
// Matching is case-insensitive substring matching. A document whose text does
// not match scores 0 and is never returned.
//
// # Usage Examples
//
// Basic search:
//
//	engine := search.NewEngine(docs)
//	results := engine.Search("process model", core.DefaultFilters())
//
// Search restricted to a category, sorted by title:
//
//	filters := core.DefaultFilters()
//	filters.Categories = []string{"architecture"}
//	filters.SortBy = core.SortByTitle
//	filters.SortOrder = core.SortAsc
//	results := engine.Search("ipc", filters)
//
// Autocomplete:
//
//	suggestions := search.BuildSuggestions(docs)
//	matches := suggestions.Match("proc")
//
// Parsing HTTP parameters:
//
//	params, err := search.ParseSearchParams(r.URL.Query())
//	if err != nil {
//		// Handle invalid parameter
//		return
//	}
//
// # Integration
//
// This package integrates with:
//
//   - pkg/core: For documents, results, filters and suggestions
//   - pkg/session: Which owns an Engine per loaded index and tracks searches
//   - pkg/api: Through ParseSearchParams for REST endpoints
package search
