package core

import (
	"path"
	"strings"
	"time"
	"unicode"
)

// DefaultCategory is used for documents whose path has no leading segment.
const DefaultCategory = "general"

// WordsPerMinute is the reading speed used to estimate reading time.
const WordsPerMinute = 200

// Document is a single searchable article loaded from the search index.
//
// Documents are immutable once loaded: the index is read once at startup
// (or on an explicit reload) and shared by every search for the lifetime of
// the session. Path is the unique identifier.
type Document struct {
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"lastUpdated,omitzero"`
}

// Category returns the first path segment of the document, ignoring a leading
// slash. "architecture/process-model" belongs to "architecture".
func (d Document) Category() string {
	return CategoryFromPath(d.Path)
}

// WordCount returns the number of whitespace separated words in the content.
func (d Document) WordCount() int {
	return len(strings.FieldsFunc(d.Content, unicode.IsSpace))
}

// ReadingTime returns the estimated reading time in minutes, never less than one.
func (d Document) ReadingTime() int {
	words := d.WordCount()
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// HasDate reports whether the index provided a last updated timestamp.
func (d Document) HasDate() bool {
	return !d.LastUpdated.IsZero()
}

// CategoryFromPath derives a category from a document path.
func CategoryFromPath(p string) string {
	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	first, _, _ := strings.Cut(p, "/")
	first = strings.TrimSpace(first)
	if first == "" {
		return DefaultCategory
	}
	return first
}

// TitleFromPath derives a display title from the last path segment, used when
// the index entry carries no title.
func TitleFromPath(p string) string {
	base := path.Base(strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/"))
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.NewReplacer("-", " ", "_", " ").Replace(base)
}

// Result is a document matched by a query. Results are derived and ephemeral:
// a new slice is built on every search.
type Result struct {
	Path           string    `json:"path"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	RelevanceScore int       `json:"relevanceScore"`
	MatchedTerms   []string  `json:"matchedTerms"`
	Snippet        string    `json:"snippet"`
	LastUpdated    time.Time `json:"lastUpdated,omitzero"`
	ReadingTime    int       `json:"readingTime"`
}
