package core

import (
	"reflect"
	"testing"
	"time"
)

func TestFiltersNormalize(t *testing.T) {
	f := Filters{SortBy: "bogus"}.Normalize()
	if f.SortBy != SortByRelevance {
		t.Errorf("expected default sort relevance, got %q", f.SortBy)
	}
	if f.SortOrder != SortDesc {
		t.Errorf("expected default order desc, got %q", f.SortOrder)
	}
	if f.Categories == nil || f.Tags == nil || f.Difficulty == nil {
		t.Error("expected non-nil sets after Normalize")
	}

	kept := Filters{SortBy: SortByTitle, SortOrder: SortAsc}.Normalize()
	if kept.SortBy != SortByTitle || kept.SortOrder != SortAsc {
		t.Errorf("valid sort settings should be kept, got %q/%q", kept.SortBy, kept.SortOrder)
	}
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		input    string
		expected SortBy
		hasError bool
	}{
		{input: "relevance", expected: SortByRelevance},
		{input: "date", expected: SortByDate},
		{input: "title", expected: SortByTitle},
		{input: "readingTime", expected: SortByReadingTime},
		{input: "reading_time", expected: SortByReadingTime},
		{input: "popularity", hasError: true},
	}

	for _, tt := range tests {
		got, err := ParseSortBy(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseSortBy(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSortBy(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseSortBy(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}

	if _, err := ParseSortOrder("ASC"); err != nil {
		t.Errorf("ParseSortOrder should be case-insensitive: %v", err)
	}
	if _, err := ParseSortOrder("up"); err == nil {
		t.Error("ParseSortOrder should reject unknown orders")
	}
}

func TestFiltersPatchApply(t *testing.T) {
	base := DefaultFilters()
	base.Tags = []string{"ipc"}

	categories := []string{"a"}
	order := SortAsc
	patched := FiltersPatch{Categories: &categories, SortOrder: &order}.Apply(base)

	if len(patched.Categories) != 1 || patched.Categories[0] != "a" {
		t.Errorf("expected categories [a], got %v", patched.Categories)
	}
	if patched.SortOrder != SortAsc {
		t.Errorf("expected asc order, got %q", patched.SortOrder)
	}
	if len(patched.Tags) != 1 || patched.Tags[0] != "ipc" {
		t.Errorf("untouched fields should survive the patch, got tags %v", patched.Tags)
	}
	if patched.SortBy != SortByRelevance {
		t.Errorf("expected relevance sort to survive, got %q", patched.SortBy)
	}

	// The patch must not alias the caller's slice.
	categories[0] = "changed"
	if patched.Categories[0] != "a" {
		t.Error("patched filters share memory with the patch")
	}
}

func TestFiltersPatchClear(t *testing.T) {
	minutes, maxMinutes := 2, 10
	base := DefaultFilters()
	base.Categories = []string{"security"}
	base.MinReadingTime = &minutes
	base.MaxReadingTime = &maxMinutes
	base.DateRange = &DateRange{Start: time.Now().Add(-time.Hour), End: time.Now()}
	base.SortBy = SortByTitle

	patched := FiltersPatch{Clear: []string{"minReadingTime", "dateRange", "sortBy"}}.Apply(base)
	if patched.MinReadingTime != nil || patched.DateRange != nil {
		t.Errorf("cleared fields survived: %+v", patched)
	}
	if patched.MaxReadingTime == nil || *patched.MaxReadingTime != 10 {
		t.Errorf("maxReadingTime should be untouched, got %v", patched.MaxReadingTime)
	}
	if !reflect.DeepEqual(patched.Categories, []string{"security"}) {
		t.Errorf("categories should be untouched, got %v", patched.Categories)
	}
	if patched.SortBy != SortByRelevance {
		t.Errorf("cleared sort should fall back to relevance, got %q", patched.SortBy)
	}

	// Set fields win over a clear of the same field.
	five := 5
	patched = FiltersPatch{Clear: []string{"minReadingTime"}, MinReadingTime: &five}.Apply(base)
	if patched.MinReadingTime == nil || *patched.MinReadingTime != 5 {
		t.Errorf("expected minReadingTime 5, got %v", patched.MinReadingTime)
	}

	if err := (FiltersPatch{Clear: []string{"tags", "sortOrder"}}).CheckClear(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (FiltersPatch{Clear: []string{"popularity"}}).CheckClear(); err == nil {
		t.Error("expected unknown filter to be rejected")
	}
}

func TestAllowsCategory(t *testing.T) {
	if !DefaultFilters().AllowsCategory("anything") {
		t.Error("empty category set should allow every category")
	}
	f := Filters{Categories: []string{"Architecture"}}
	if !f.AllowsCategory("architecture") {
		t.Error("category matching should be case-insensitive")
	}
	if f.AllowsCategory("networking") {
		t.Error("unexpected category allowed")
	}
}

func TestDateRangeContains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	r := DateRange{Start: start, End: end}

	if !r.Contains(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected mid-year date inside range")
	}
	if r.Contains(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected earlier date outside range")
	}
	if !(DateRange{}).Contains(time.Now()) {
		t.Error("open range should contain everything")
	}
}
