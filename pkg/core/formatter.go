package core

import (
	"fmt"
	"strings"
)

// FormatResult formats a search result into a pretty-printed multi-line string
func FormatResult(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n  Path: %s\n  Score: %d", r.Title, r.Category, r.Path, r.RelevanceScore)
	if len(r.MatchedTerms) > 0 {
		fmt.Fprintf(&b, "\n  Matched: %s", strings.Join(r.MatchedTerms, ", "))
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "\n  Tags: %s", strings.Join(r.Tags, ", "))
	}
	if r.ReadingTime > 0 {
		fmt.Fprintf(&b, "\n  Reading time: %d min", r.ReadingTime)
	}
	if !r.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "\n  Updated: %s", r.LastUpdated.Format("2006-01-02"))
	}
	if snippet := Truncate(oneLine(r.Snippet), 240); snippet != "" {
		fmt.Fprintf(&b, "\n  %s", snippet)
	}
	return b.String()
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
