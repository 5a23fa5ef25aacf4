package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SortBy selects the field results are ordered by.
type SortBy string

const (
	SortByRelevance   SortBy = "relevance"
	SortByDate        SortBy = "date"
	SortByTitle       SortBy = "title"
	SortByReadingTime SortBy = "readingTime"
)

// Valid reports whether s is a known sort key.
func (s SortBy) Valid() bool {
	switch s {
	case SortByRelevance, SortByDate, SortByTitle, SortByReadingTime:
		return true
	}
	return false
}

// ParseSortBy parses a sort key, accepting "reading_time" as an alias.
func ParseSortBy(s string) (SortBy, error) {
	v := SortBy(strings.TrimSpace(s))
	if v == "reading_time" || v == "readingtime" {
		v = SortByReadingTime
	}
	if !v.Valid() {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return v, nil
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// ParseSortOrder parses a sort order.
func ParseSortOrder(s string) (SortOrder, error) {
	v := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown sort order %q", s)
	}
	return v, nil
}

// Difficulty classifies articles by audience.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == Beginner || d == Intermediate || d == Advanced
}

// DateRange bounds document update times. Zero bounds are open.
type DateRange struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Filters is the user's search configuration. It is persisted as a
// preference, so SortBy and SortOrder always carry a value after Normalize.
type Filters struct {
	Categories     []string     `json:"categories"`
	Difficulty     []Difficulty `json:"difficulty"`
	Tags           []string     `json:"tags"`
	MinReadingTime *int         `json:"minReadingTime,omitempty"`
	MaxReadingTime *int         `json:"maxReadingTime,omitempty"`
	DateRange      *DateRange   `json:"dateRange,omitempty"`
	SortBy         SortBy       `json:"sortBy"`
	SortOrder      SortOrder    `json:"sortOrder"`
}

// DefaultFilters returns an unrestricted filter set sorted by relevance.
func DefaultFilters() Filters {
	return Filters{
		Categories: []string{},
		Difficulty: []Difficulty{},
		Tags:       []string{},
		SortBy:     SortByRelevance,
		SortOrder:  SortDesc,
	}
}

// Normalize applies defaults to unset or invalid sort settings and replaces
// nil sets with empty ones.
func (f Filters) Normalize() Filters {
	if !f.SortBy.Valid() {
		f.SortBy = SortByRelevance
	}
	if !f.SortOrder.Valid() {
		f.SortOrder = SortDesc
	}
	if f.Categories == nil {
		f.Categories = []string{}
	}
	if f.Difficulty == nil {
		f.Difficulty = []Difficulty{}
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return f
}

// Clone returns a deep copy of f.
func (f Filters) Clone() Filters {
	out := f
	out.Categories = slices.Clone(f.Categories)
	out.Difficulty = slices.Clone(f.Difficulty)
	out.Tags = slices.Clone(f.Tags)
	if f.MinReadingTime != nil {
		v := *f.MinReadingTime
		out.MinReadingTime = &v
	}
	if f.MaxReadingTime != nil {
		v := *f.MaxReadingTime
		out.MaxReadingTime = &v
	}
	if f.DateRange != nil {
		r := *f.DateRange
		out.DateRange = &r
	}
	return out
}

// AllowsCategory reports whether category passes the category filter. An
// empty category set is unrestricted.
func (f Filters) AllowsCategory(category string) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// Names accepted in FiltersPatch.Clear. They match the JSON field names.
var clearableFilters = []string{
	"categories", "difficulty", "tags", "minReadingTime",
	"maxReadingTime", "dateRange", "sortBy", "sortOrder",
}

// FiltersPatch is a partial update of Filters. Nil fields are left untouched.
// Fields named in Clear are reset before the set fields are applied, so
// {"clear": ["dateRange"]} drops a date range and leaves the rest alone.
type FiltersPatch struct {
	Clear          []string      `json:"clear,omitempty"`
	Categories     *[]string     `json:"categories,omitempty"`
	Difficulty     *[]Difficulty `json:"difficulty,omitempty"`
	Tags           *[]string     `json:"tags,omitempty"`
	MinReadingTime *int          `json:"minReadingTime,omitempty"`
	MaxReadingTime *int          `json:"maxReadingTime,omitempty"`
	DateRange      *DateRange    `json:"dateRange,omitempty"`
	SortBy         *SortBy       `json:"sortBy,omitempty"`
	SortOrder      *SortOrder    `json:"sortOrder,omitempty"`
}

// CheckClear returns an error naming the first unknown field in Clear.
func (p FiltersPatch) CheckClear() error {
	for _, name := range p.Clear {
		if !slices.Contains(clearableFilters, name) {
			return fmt.Errorf("cannot clear unknown filter %q", name)
		}
	}
	return nil
}

// Apply returns f with the patch fields applied.
func (p FiltersPatch) Apply(f Filters) Filters {
	out := f.Clone()
	for _, name := range p.Clear {
		switch name {
		case "categories":
			out.Categories = nil
		case "difficulty":
			out.Difficulty = nil
		case "tags":
			out.Tags = nil
		case "minReadingTime":
			out.MinReadingTime = nil
		case "maxReadingTime":
			out.MaxReadingTime = nil
		case "dateRange":
			out.DateRange = nil
		case "sortBy":
			out.SortBy = ""
		case "sortOrder":
			out.SortOrder = ""
		}
	}
	if p.Categories != nil {
		out.Categories = slices.Clone(*p.Categories)
	}
	if p.Difficulty != nil {
		out.Difficulty = slices.Clone(*p.Difficulty)
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.MinReadingTime != nil {
		v := *p.MinReadingTime
		out.MinReadingTime = &v
	}
	if p.MaxReadingTime != nil {
		v := *p.MaxReadingTime
		out.MaxReadingTime = &v
	}
	if p.DateRange != nil {
		r := *p.DateRange
		out.DateRange = &r
	}
	if p.SortBy != nil {
		out.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	return out.Normalize()
}
