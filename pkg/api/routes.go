package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/suggestions", s.HandleSuggestions)
	mux.HandleFunc("POST /api/click", s.HandleClick)
	mux.HandleFunc("GET /api/popular", s.HandlePopular)
	mux.HandleFunc("GET /api/trends", s.HandleTrends)
	mux.HandleFunc("GET /api/analytics", s.HandleAnalytics)

	mux.HandleFunc("GET /api/history", s.HandleHistory)
	mux.HandleFunc("DELETE /api/history", s.HandleClearHistory)

	mux.HandleFunc("GET /api/filters", s.HandleFilters)
	mux.HandleFunc("PATCH /api/filters", s.HandleUpdateFilters)
	mux.HandleFunc("DELETE /api/filters", s.HandleClearFilters)

	mux.HandleFunc("POST /api/similar", s.HandleSimilar)
	mux.HandleFunc("GET /api/related", s.HandleRelated)

	mux.HandleFunc("GET /api/export", s.HandleExport)
	mux.HandleFunc("POST /api/import", s.HandleImport)

	mux.HandleFunc("GET /api/events", s.HandleEvents)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}
