package search

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

// SearchParams represents all parameters for a search request.
// It provides a unified structure that works for both the API and the CLI.
type SearchParams struct {
	// Query is the free-text query. A blank query yields no results.
	Query string

	// Overrides holds the filter settings given with the request. They are
	// applied on top of the session filters for this request only.
	Overrides core.FiltersPatch

	// HasOverrides reports whether any filter parameter was present.
	HasOverrides bool

	// Limit is the maximum number of results returned. Zero means no limit.
	Limit int
}

// ParseSearchParams parses HTTP query parameters into a SearchParams struct.
// It handles parameter validation and type conversion.
//
// Supported parameters:
//   - q: Search query string
//   - category: Category filter (can be specified multiple times)
//   - tag: Tag filter (can be specified multiple times)
//   - difficulty: Difficulty filter (can be specified multiple times)
//   - sort: relevance, date, title or readingTime
//   - order: asc or desc
//   - min_reading_time / max_reading_time: Reading time bounds in minutes
//   - start_date / end_date: Update date bounds in YYYY-MM-DD format
//   - limit: Maximum number of results (positive integer)
//
// Date parsing:
//   - Invalid date formats return an error
//   - End dates are automatically set to 23:59:59 of the specified day
//
// Example:
//
//	params, err := ParseSearchParams(r.URL.Query())
//	if err != nil {
//		// Handle invalid parameter
//	}
func ParseSearchParams(queryParams map[string][]string) (SearchParams, error) {
	var params SearchParams

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = q[0]
	}

	if categories := nonEmpty(queryParams["category"]); len(categories) > 0 {
		params.Overrides.Categories = &categories
		params.HasOverrides = true
	}

	if tags := nonEmpty(queryParams["tag"]); len(tags) > 0 {
		params.Overrides.Tags = &tags
		params.HasOverrides = true
	}

	if values := nonEmpty(queryParams["difficulty"]); len(values) > 0 {
		levels := make([]core.Difficulty, 0, len(values))
		for _, v := range values {
			d := core.Difficulty(v)
			if !d.Valid() {
				return params, fmt.Errorf("unknown difficulty %q", v)
			}
			levels = append(levels, d)
		}
		params.Overrides.Difficulty = &levels
		params.HasOverrides = true
	}

	if sortStr := first(queryParams["sort"]); sortStr != "" {
		sortBy, err := core.ParseSortBy(sortStr)
		if err != nil {
			return params, err
		}
		params.Overrides.SortBy = &sortBy
		params.HasOverrides = true
	}

	if orderStr := first(queryParams["order"]); orderStr != "" {
		order, err := core.ParseSortOrder(orderStr)
		if err != nil {
			return params, err
		}
		params.Overrides.SortOrder = &order
		params.HasOverrides = true
	}

	for key, dst := range map[string]**int{
		"min_reading_time": &params.Overrides.MinReadingTime,
		"max_reading_time": &params.Overrides.MaxReadingTime,
	} {
		if s := first(queryParams[key]); s != "" {
			parsed, err := strconv.Atoi(s)
			if err != nil || parsed < 0 {
				return params, fmt.Errorf("invalid %s %q", key, s)
			}
			*dst = &parsed
			params.HasOverrides = true
		}
	}

	var dateRange core.DateRange
	hasRange := false
	if startDateStr := first(queryParams["start_date"]); startDateStr != "" {
		parsed, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			return params, err
		}
		dateRange.Start = parsed
		hasRange = true
	}
	if endDateStr := first(queryParams["end_date"]); endDateStr != "" {
		parsed, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			return params, err
		}
		dateRange.End = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, parsed.Location())
		hasRange = true
	}
	if hasRange {
		params.Overrides.DateRange = &dateRange
		params.HasOverrides = true
	}

	if limitStr := first(queryParams["limit"]); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}

	return params, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
