package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/history"
	"github.com/rubiojr/docsearch/pkg/search"
	"github.com/rubiojr/docsearch/pkg/version"
)

// maxBodySize bounds request bodies, imports included.
const maxBodySize = 10 << 20

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseSearchParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}

	filters := s.svc.Filters()
	if params.HasOverrides {
		filters = params.Overrides.Apply(filters)
	}

	results := s.svc.Search(params.Query, &filters)
	total := len(results)
	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{
		Query:      strings.TrimSpace(params.Query),
		Results:    results,
		TotalCount: total,
		Limit:      params.Limit,
		Filters:    filters,
	})
}

func (s *Server) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions := s.svc.GetSuggestions(q)
	if s.suggestionLimit > 0 && len(suggestions) > s.suggestionLimit {
		suggestions = suggestions[:s.suggestionLimit]
	}

	s.writeJSON(w, http.StatusOK, SuggestionsResponse{
		Query:       q,
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

func (s *Server) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid request", "path is required")
		return
	}

	s.writeJSON(w, http.StatusOK, ClickResponse{Tracked: s.svc.TrackClick(req.Query, req.Path)})
}

func (s *Server) HandlePopular(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, PopularResponse{Queries: s.svc.GetPopularQueries()})
}

func (s *Server) HandleTrends(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, TrendsResponse{Trends: s.svc.GetSearchTrends()})
}

func (s *Server) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Analytics())
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.History()
	s.writeJSON(w, http.StatusOK, HistoryResponse{History: entries, Count: len(entries)})
}

func (s *Server) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearSearchHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleFilters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Filters())
}

func (s *Server) HandleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	var patch core.FiltersPatch
	if !s.decodeBody(w, r, &patch) {
		return
	}
	if err := validatePatch(patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid filters", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, s.svc.UpdateFilters(patch))
}

func (s *Server) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.ClearFilters())
}

func (s *Server) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid request", "content is required")
		return
	}

	results := s.svc.FindSimilarContent(req.Content)
	s.writeJSON(w, http.StatusOK, SimilarResponse{Results: results, Count: len(results)})
}

func (s *Server) HandleRelated(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid parameter", "topic is required")
		return
	}

	s.writeJSON(w, http.StatusOK, RelatedResponse{Topic: topic, Related: s.svc.FindRelatedTopics(topic)})
}

func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.ExportSearchData()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	filename := fmt.Sprintf("docsearch-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Errorf("writing export: %v", err)
	}
}

func (s *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := s.svc.ImportSearchData(data); err != nil {
		if errors.Is(err, history.ErrInvalidImport) {
			s.writeError(w, http.StatusBadRequest, "Invalid import", err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Import failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ImportResponse{Status: "imported", Filters: s.svc.Filters()})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version.APIVersion(),
		Source:    s.svc.Source(),
		Documents: s.svc.DocumentCount(),
	}
	if s.hub != nil {
		response.Listeners = s.hub.Size()
	}
	if s.monitor != nil {
		status := s.monitor.Status()
		if !status.Healthy {
			response.Status = "degraded"
		}
		response.Diagnostics = &status
	}

	s.writeJSON(w, http.StatusOK, response)
}

// decodeBody decodes a JSON request body into v, writing a 400 response
// and returning false on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

func validatePatch(p core.FiltersPatch) error {
	if err := p.CheckClear(); err != nil {
		return err
	}
	if p.SortBy != nil && !p.SortBy.Valid() {
		return fmt.Errorf("unknown sort field %q", *p.SortBy)
	}
	if p.SortOrder != nil && !p.SortOrder.Valid() {
		return fmt.Errorf("unknown sort order %q", *p.SortOrder)
	}
	if p.Difficulty != nil {
		for _, d := range *p.Difficulty {
			if !d.Valid() {
				return fmt.Errorf("unknown difficulty %q", d)
			}
		}
	}
	if p.MinReadingTime != nil && *p.MinReadingTime < 0 {
		return errors.New("minReadingTime must not be negative")
	}
	if p.MaxReadingTime != nil && *p.MaxReadingTime < 0 {
		return errors.New("maxReadingTime must not be negative")
	}
	return nil
}
