package core

import (
	"maps"
	"slices"
	"time"
)

// SuggestionType classifies an autocomplete candidate.
type SuggestionType string

const (
	SuggestionQuery    SuggestionType = "query"
	SuggestionCategory SuggestionType = "category"
	SuggestionTag      SuggestionType = "tag"
	SuggestionArticle  SuggestionType = "article"
)

// Suggestion is a precomputed autocomplete candidate.
type Suggestion struct {
	Text      string         `json:"text"`
	Type      SuggestionType `json:"type"`
	Frequency int            `json:"frequency"`
	Category  string         `json:"category,omitempty"`
}

// HistoryEntry records one past search and the result the user opened, if any.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Timestamp     time.Time `json:"timestamp"`
	ResultsCount  int       `json:"resultsCount"`
	ClickedResult string    `json:"clickedResult,omitempty"`
}

// QueryCount is a query popularity counter.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// CategoryCount is a category popularity counter.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendPoint is the number of searches issued on a calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TrendDateLayout is the layout used for trend dates.
const TrendDateLayout = "2006-01-02"

// Analytics holds rolling aggregates maintained on every tracked search.
type Analytics struct {
	PopularQueries         []QueryCount    `json:"popularQueries"`
	PopularCategories      []CategoryCount `json:"popularCategories"`
	SearchTrends           map[string]int  `json:"searchTrends"`
	NoResultQueries        []string        `json:"noResultQueries"`
	AverageResultsPerQuery float64         `json:"averageResultsPerQuery"`
	TotalSearches          int             `json:"totalSearches"`
}

// NewAnalytics returns empty aggregates with non-nil collections.
func NewAnalytics() Analytics {
	return Analytics{
		PopularQueries:    []QueryCount{},
		PopularCategories: []CategoryCount{},
		SearchTrends:      map[string]int{},
		NoResultQueries:   []string{},
	}
}

// Clone returns a deep copy of a.
func (a Analytics) Clone() Analytics {
	out := a
	out.PopularQueries = slices.Clone(a.PopularQueries)
	out.PopularCategories = slices.Clone(a.PopularCategories)
	out.NoResultQueries = slices.Clone(a.NoResultQueries)
	out.SearchTrends = maps.Clone(a.SearchTrends)
	return out.normalize()
}

func (a Analytics) normalize() Analytics {
	if a.PopularQueries == nil {
		a.PopularQueries = []QueryCount{}
	}
	if a.PopularCategories == nil {
		a.PopularCategories = []CategoryCount{}
	}
	if a.SearchTrends == nil {
		a.SearchTrends = map[string]int{}
	}
	if a.NoResultQueries == nil {
		a.NoResultQueries = []string{}
	}
	return a
}
