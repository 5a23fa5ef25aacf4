package search

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

func exampleDocs() []core.Document {
	return []core.Document{
		{Path: "a/x", Title: "Process Model", Content: "Describes Chromium's process model and IPC."},
		{Path: "b/y", Title: "Networking", Content: "HTTP stack details, no mention of processes."},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSearchExampleScenario(t *testing.T) {
	engine := NewEngine(exampleDocs())

	results := engine.Search("process", core.DefaultFilters())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// 100 title + 50 content + 20 term-title + 10 term-content, plus the
	// unrestricted category bonus.
	if results[0].Path != "a/x" || results[0].RelevanceScore != 185 {
		t.Errorf("expected a/x first with score 185, got %s with %d", results[0].Path, results[0].RelevanceScore)
	}
	// 50 content + 10 term-content + category bonus.
	if results[1].Path != "b/y" || results[1].RelevanceScore != 65 {
		t.Errorf("expected b/y second with score 65, got %s with %d", results[1].Path, results[1].RelevanceScore)
	}

	if results[0].Category != "a" || results[1].Category != "b" {
		t.Errorf("unexpected categories %q, %q", results[0].Category, results[1].Category)
	}
	if !reflect.DeepEqual(results[0].MatchedTerms, []string{"process"}) {
		t.Errorf("unexpected matched terms %v", results[0].MatchedTerms)
	}
	if !reflect.DeepEqual(results[0].Tags, []string{"ipc"}) {
		t.Errorf("expected ipc tag from default vocabulary, got %v", results[0].Tags)
	}
}

func TestSearchBlankQuery(t *testing.T) {
	engine := NewEngine(exampleDocs())
	for _, q := range []string{"", "   ", "\t\n"} {
		results := engine.Search(q, core.DefaultFilters())
		if results == nil || len(results) != 0 {
			t.Errorf("query %q: expected empty non-nil results, got %v", q, results)
		}
	}
}

func TestSearchNoMatch(t *testing.T) {
	engine := NewEngine(exampleDocs())
	if results := engine.Search("quantum", core.DefaultFilters()); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	engine := NewEngine(exampleDocs())
	filters := core.DefaultFilters()
	filters.Categories = []string{"a"}

	results := engine.Search("process", filters)
	if len(results) != 1 || results[0].Path != "a/x" {
		t.Fatalf("expected only a/x, got %+v", results)
	}

	filters.Categories = []string{"b"}
	results = engine.Search("process model", filters)
	for _, r := range results {
		if r.Category != "b" {
			t.Errorf("result outside category filter: %s", r.Path)
		}
	}
}

func TestSearchIdempotent(t *testing.T) {
	engine := NewEngine(exampleDocs())
	first := engine.Search("process", core.DefaultFilters())
	second := engine.Search("process", core.DefaultFilters())
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated searches returned different results")
	}
}

func TestScoreTitleBeatsContent(t *testing.T) {
	scorer := Scorer{}
	inTitle := core.Document{Path: "a/1", Title: "sandbox", Content: "sandbox"}
	inContent := core.Document{Path: "a/2", Title: "other", Content: "sandbox"}

	if scorer.Score(inTitle, "sandbox", core.DefaultFilters()) <= scorer.Score(inContent, "sandbox", core.DefaultFilters()) {
		t.Error("title match should score strictly higher than content-only match")
	}
}

func TestScoreBoosts(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	scorer := Scorer{Now: fixedClock(now)}
	filters := core.DefaultFilters()

	tests := []struct {
		name     string
		doc      core.Document
		filters  core.Filters
		expected int
	}{
		{
			name:     "no match ignores boosts",
			doc:      core.Document{Path: "a/1", Title: "x", Content: "y", LastUpdated: now},
			filters:  filters,
			expected: 0,
		},
		{
			name:     "recent document",
			doc:      core.Document{Path: "a/1", Title: "x", Content: "gpu", LastUpdated: now.Add(-24 * time.Hour)},
			filters:  filters,
			expected: ContentPhrasePoints + ContentTermPoints + CategoryPoints + RecencyPoints,
		},
		{
			name:     "stale document",
			doc:      core.Document{Path: "a/1", Title: "x", Content: "gpu", LastUpdated: now.Add(-60 * 24 * time.Hour)},
			filters:  filters,
			expected: ContentPhrasePoints + ContentTermPoints + CategoryPoints,
		},
		{
			name:     "category outside filter",
			doc:      core.Document{Path: "b/1", Title: "x", Content: "gpu"},
			filters:  core.Filters{Categories: []string{"a"}},
			expected: ContentPhrasePoints + ContentTermPoints,
		},
		{
			name:     "multi term query",
			doc:      core.Document{Path: "a/1", Title: "GPU process", Content: "the gpu runs in its own process"},
			filters:  filters,
			expected: TitlePhrasePoints + 2*TitleTermPoints + 2*ContentTermPoints + CategoryPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := "gpu"
			if tt.name == "multi term query" {
				q = "GPU Process"
			}
			if got := scorer.Score(tt.doc, q, tt.filters); got != tt.expected {
				t.Errorf("expected score %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestSortResults(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	docs := []core.Document{
		{Path: "a/b", Title: "beta gpu", Content: strings.Repeat("gpu ", 600), LastUpdated: d2},
		{Path: "a/a", Title: "Alpha", Content: "gpu", LastUpdated: d1},
	}
	engine := NewEngine(docs)

	tests := []struct {
		by       core.SortBy
		order    core.SortOrder
		expected []string
	}{
		{core.SortByRelevance, core.SortDesc, []string{"a/b", "a/a"}},
		{core.SortByRelevance, core.SortAsc, []string{"a/a", "a/b"}},
		{core.SortByTitle, core.SortAsc, []string{"a/a", "a/b"}},
		{core.SortByTitle, core.SortDesc, []string{"a/b", "a/a"}},
		{core.SortByDate, core.SortAsc, []string{"a/a", "a/b"}},
		{core.SortByDate, core.SortDesc, []string{"a/b", "a/a"}},
		{core.SortByReadingTime, core.SortAsc, []string{"a/a", "a/b"}},
		{core.SortByReadingTime, core.SortDesc, []string{"a/b", "a/a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by)+"/"+string(tt.order), func(t *testing.T) {
			filters := core.DefaultFilters()
			filters.SortBy = tt.by
			filters.SortOrder = tt.order
			results := engine.Search("gpu", filters)
			got := make([]string, len(results))
			for i, r := range results {
				got[i] = r.Path
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSearchSupplementaryFilters(t *testing.T) {
	updated := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	docs := []core.Document{
		{Path: "a/short", Title: "Short", Content: "mojo ipc"},
		{Path: "a/long", Title: "Long", Content: strings.Repeat("mojo ", 500), LastUpdated: updated},
	}
	engine := NewEngine(docs)

	t.Run("tags", func(t *testing.T) {
		filters := core.DefaultFilters()
		filters.Tags = []string{"IPC"}
		results := engine.Search("mojo", filters)
		if len(results) != 1 || results[0].Path != "a/short" {
			t.Errorf("expected only a/short, got %+v", results)
		}
	})

	t.Run("reading time", func(t *testing.T) {
		filters := core.DefaultFilters()
		minTime := 2
		filters.MinReadingTime = &minTime
		results := engine.Search("mojo", filters)
		if len(results) != 1 || results[0].Path != "a/long" {
			t.Errorf("expected only a/long, got %+v", results)
		}
	})

	t.Run("date range excludes undated", func(t *testing.T) {
		filters := core.DefaultFilters()
		filters.DateRange = &core.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		results := engine.Search("mojo", filters)
		if len(results) != 1 || results[0].Path != "a/long" {
			t.Errorf("expected only a/long, got %+v", results)
		}
	})
}

func TestMatchedTermsDeduplicated(t *testing.T) {
	engine := NewEngine(exampleDocs())
	results := engine.Search("process process unknown", core.DefaultFilters())
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !reflect.DeepEqual(results[0].MatchedTerms, []string{"process"}) {
		t.Errorf("expected [process], got %v", results[0].MatchedTerms)
	}
}

func TestCustomVocabulary(t *testing.T) {
	engine := NewEngine(exampleDocs(), WithVocabulary(NewVocabulary([]string{"HTTP", "http", " ", "stack"})))
	results := engine.Search("networking", core.DefaultFilters())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !reflect.DeepEqual(results[0].Tags, []string{"http", "stack"}) {
		t.Errorf("expected [http stack], got %v", results[0].Tags)
	}
}

func TestFindSimilarContent(t *testing.T) {
	docs := []core.Document{
		{Path: "a/1", Title: "Renderer", Content: "renderer process sandbox compositor"},
		{Path: "a/2", Title: "Browser", Content: "browser process sandbox"},
		{Path: "a/3", Title: "Unrelated", Content: "cooking recipes"},
	}
	engine := NewEngine(docs)

	results := engine.FindSimilarContent("renderer process sandbox compositor", 0)
	if len(results) != 1 {
		t.Fatalf("expected only a/2 (a/1 is the source), got %+v", results)
	}
	if results[0].Path != "a/2" || results[0].RelevanceScore != 2 {
		t.Errorf("expected a/2 with 2 shared words, got %s with %d", results[0].Path, results[0].RelevanceScore)
	}
	if !reflect.DeepEqual(results[0].MatchedTerms, []string{"process", "sandbox"}) {
		t.Errorf("unexpected shared words %v", results[0].MatchedTerms)
	}

	if got := engine.FindSimilarContent("a an the", 0); len(got) != 0 {
		t.Errorf("expected no results for insignificant content, got %d", len(got))
	}
}

func TestFindRelatedTopics(t *testing.T) {
	docs := []core.Document{
		{Path: "architecture/1", Title: "Mojo basics", Content: "mojo ipc security"},
		{Path: "architecture/2", Title: "Mojo bindings", Content: "mojo ipc"},
		{Path: "security/1", Title: "Sandbox", Content: "mojo sandbox"},
	}
	engine := NewEngine(docs)

	topics := engine.FindRelatedTopics("mojo", 3)
	expected := []string{"architecture", "ipc", "security"}
	if !reflect.DeepEqual(topics, expected) {
		t.Errorf("expected %v, got %v", expected, topics)
	}
	for _, topic := range topics {
		if topic == "mojo" {
			t.Error("related topics should not contain the topic itself")
		}
	}

	if got := engine.FindRelatedTopics("  ", 0); len(got) != 0 {
		t.Errorf("expected no topics for blank input, got %v", got)
	}
}
