package search

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

func TestParseSearchParams(t *testing.T) {
	tests := []struct {
		name        string
		queryParams map[string][]string
		check       func(t *testing.T, p SearchParams)
		expectError bool
	}{
		{
			name:        "query only",
			queryParams: map[string][]string{"q": {"process model"}},
			check: func(t *testing.T, p SearchParams) {
				if p.Query != "process model" {
					t.Errorf("expected query %q, got %q", "process model", p.Query)
				}
				if p.HasOverrides {
					t.Error("expected no overrides")
				}
			},
		},
		{
			name: "categories and tags",
			queryParams: map[string][]string{
				"q":        {"ipc"},
				"category": {"architecture", "", "security"},
				"tag":      {"mojo"},
			},
			check: func(t *testing.T, p SearchParams) {
				if !p.HasOverrides {
					t.Fatal("expected overrides")
				}
				if !reflect.DeepEqual(*p.Overrides.Categories, []string{"architecture", "security"}) {
					t.Errorf("unexpected categories %v", *p.Overrides.Categories)
				}
				if !reflect.DeepEqual(*p.Overrides.Tags, []string{"mojo"}) {
					t.Errorf("unexpected tags %v", *p.Overrides.Tags)
				}
			},
		},
		{
			name:        "sort and order",
			queryParams: map[string][]string{"sort": {"reading_time"}, "order": {"ASC"}},
			check: func(t *testing.T, p SearchParams) {
				if *p.Overrides.SortBy != core.SortByReadingTime {
					t.Errorf("unexpected sort %q", *p.Overrides.SortBy)
				}
				if *p.Overrides.SortOrder != core.SortAsc {
					t.Errorf("unexpected order %q", *p.Overrides.SortOrder)
				}
			},
		},
		{
			name:        "invalid sort",
			queryParams: map[string][]string{"sort": {"popularity"}},
			expectError: true,
		},
		{
			name:        "invalid order",
			queryParams: map[string][]string{"order": {"sideways"}},
			expectError: true,
		},
		{
			name:        "invalid difficulty",
			queryParams: map[string][]string{"difficulty": {"expert"}},
			expectError: true,
		},
		{
			name:        "difficulty",
			queryParams: map[string][]string{"difficulty": {"beginner", "advanced"}},
			check: func(t *testing.T, p SearchParams) {
				expected := []core.Difficulty{core.Beginner, core.Advanced}
				if !reflect.DeepEqual(*p.Overrides.Difficulty, expected) {
					t.Errorf("expected %v, got %v", expected, *p.Overrides.Difficulty)
				}
			},
		},
		{
			name:        "reading time bounds",
			queryParams: map[string][]string{"min_reading_time": {"2"}, "max_reading_time": {"10"}},
			check: func(t *testing.T, p SearchParams) {
				if *p.Overrides.MinReadingTime != 2 || *p.Overrides.MaxReadingTime != 10 {
					t.Errorf("unexpected bounds %d-%d", *p.Overrides.MinReadingTime, *p.Overrides.MaxReadingTime)
				}
			},
		},
		{
			name:        "negative reading time",
			queryParams: map[string][]string{"min_reading_time": {"-1"}},
			expectError: true,
		},
		{
			name:        "date range",
			queryParams: map[string][]string{"start_date": {"2024-01-01"}, "end_date": {"2024-01-31"}},
			check: func(t *testing.T, p SearchParams) {
				r := p.Overrides.DateRange
				if r == nil {
					t.Fatal("expected date range")
				}
				if !r.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("unexpected start %v", r.Start)
				}
				if r.End.Hour() != 23 || r.End.Minute() != 59 || r.End.Day() != 31 {
					t.Errorf("expected end of day, got %v", r.End)
				}
			},
		},
		{
			name:        "invalid date",
			queryParams: map[string][]string{"start_date": {"01/01/2024"}},
			expectError: true,
		},
		{
			name:        "limit",
			queryParams: map[string][]string{"limit": {"5"}},
			check: func(t *testing.T, p SearchParams) {
				if p.Limit != 5 {
					t.Errorf("expected limit 5, got %d", p.Limit)
				}
			},
		},
		{
			name:        "invalid limit ignored",
			queryParams: map[string][]string{"limit": {"-3"}},
			check: func(t *testing.T, p SearchParams) {
				if p.Limit != 0 {
					t.Errorf("expected limit 0, got %d", p.Limit)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseSearchParams(tt.queryParams)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, params)
			}
		})
	}
}

func ExampleParseSearchParams() {
	params, err := ParseSearchParams(map[string][]string{
		"q":        {"mojo"},
		"category": {"architecture"},
		"sort":     {"title"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(params.Query, (*params.Overrides.Categories)[0], *params.Overrides.SortBy)
	// Output: mojo architecture title
}
