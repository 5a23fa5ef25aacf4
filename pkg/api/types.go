package api

import (
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/health"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SearchResponse struct {
	Query      string        `json:"query"`
	Results    []core.Result `json:"results"`
	TotalCount int           `json:"total_count"`
	Limit      int           `json:"limit,omitempty"`
	Filters    core.Filters  `json:"filters"`
}

type SuggestionsResponse struct {
	Query       string            `json:"query"`
	Suggestions []core.Suggestion `json:"suggestions"`
	Count       int               `json:"count"`
}

type ClickRequest struct {
	Query string `json:"query"`
	Path  string `json:"path"`
}

type ClickResponse struct {
	Tracked bool `json:"tracked"`
}

type PopularResponse struct {
	Queries []core.QueryCount `json:"queries"`
}

type TrendsResponse struct {
	Trends []core.TrendPoint `json:"trends"`
}

type HistoryResponse struct {
	History []core.HistoryEntry `json:"history"`
	Count   int                 `json:"count"`
}

type SimilarRequest struct {
	Content string `json:"content"`
}

type SimilarResponse struct {
	Results []core.Result `json:"results"`
	Count   int           `json:"count"`
}

type RelatedResponse struct {
	Topic   string   `json:"topic"`
	Related []string `json:"related"`
}

type ImportResponse struct {
	Status  string       `json:"status"`
	Filters core.Filters `json:"filters"`
}

// InitMessage is the first frame sent on a new events connection.
type InitMessage struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Documents int    `json:"documents"`
}

type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Version     string         `json:"version"`
	Source      string         `json:"source"`
	Documents   int            `json:"documents"`
	Listeners   int            `json:"listeners"`
	Diagnostics *health.Status `json:"diagnostics,omitempty"`
}
