// Package session wires the search engine, suggestions, history and filter
// preferences of one user into a single Service. A Service is built once by
// the command bootstrap and shared by the CLI and the HTTP API.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/health"
	"github.com/rubiojr/docsearch/pkg/history"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/rubiojr/docsearch/pkg/realtime"
	"github.com/rubiojr/docsearch/pkg/search"
	"github.com/rubiojr/docsearch/pkg/storage"
)

const component = "session"

// IndexLoader loads documents from a source.
type IndexLoader interface {
	Load(ctx context.Context, source string) ([]core.Document, error)
}

// Config holds the collaborators of a Service. Only Store and Loader are
// required.
type Config struct {
	Store     storage.Store
	Loader    IndexLoader
	User      string
	Reporter  core.Reporter
	Publisher realtime.Publisher
	// Keywords is the tag vocabulary. Empty uses search.DefaultKeywords.
	Keywords []string
	// Defaults are the filters used until the user changes them.
	Defaults core.Filters
	Now      func() time.Time
}

// Service is the search session of one user. It is safe for concurrent use.
type Service struct {
	mu          sync.RWMutex
	cfg         Config
	engine      *search.Engine
	suggestions *search.Suggestions
	source      string
	filters     core.Filters
	tracker     *history.Tracker
	logger      *log.Logger
}

// New builds a Service with an empty index and the persisted filter
// preferences of cfg.User.
func New(cfg Config) *Service {
	if cfg.Reporter == nil {
		cfg.Reporter = core.NopReporter{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Defaults = cfg.Defaults.Normalize()

	s := &Service{
		cfg:    cfg,
		logger: log.ForService(component),
		tracker: history.NewTracker(cfg.Store, cfg.User,
			history.WithClock(cfg.Now),
			history.WithReporter(cfg.Reporter),
		),
	}
	s.filters = s.loadFilters()
	s.setIndex(nil)
	return s
}

func (s *Service) engineOptions() []search.Option {
	opts := []search.Option{search.WithClock(s.cfg.Now)}
	if len(s.cfg.Keywords) > 0 {
		opts = append(opts, search.WithVocabulary(search.NewVocabulary(s.cfg.Keywords)))
	}
	return opts
}

// LoadIndex loads source and replaces the current index. On failure the
// error is logged and reported, the index is left empty and every search
// returns no results. The error is returned for information only.
func (s *Service) LoadIndex(ctx context.Context, source string) error {
	docs, err := s.cfg.Loader.Load(ctx, source)
	if err != nil {
		s.fail("load index", err)
		s.mu.Lock()
		s.source = source
		s.setIndex(nil)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.source = source
	s.setIndex(docs)
	s.mu.Unlock()
	s.logger.Infof("loaded %d documents from %s", len(docs), source)
	s.publish(realtime.NewIndexEvent(source, len(docs)))
	return nil
}

// ReloadIndex reloads the current source. Unlike LoadIndex, a failed reload
// keeps the index that is already loaded.
func (s *Service) ReloadIndex(ctx context.Context) error {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	docs, err := s.cfg.Loader.Load(ctx, source)
	if err != nil {
		s.fail("reload index", err)
		return err
	}
	s.ReplaceIndex(docs)
	s.logger.Infof("reloaded %d documents from %s", len(docs), source)
	return nil
}

// ReplaceIndex swaps in docs as the searchable index and rebuilds the
// suggestions.
func (s *Service) ReplaceIndex(docs []core.Document) {
	s.mu.Lock()
	s.setIndex(docs)
	source := s.source
	s.mu.Unlock()
	s.publish(realtime.NewIndexEvent(source, len(docs)))
}

// setIndex requires s.mu to be held (or s to be unshared).
func (s *Service) setIndex(docs []core.Document) {
	s.engine = search.NewEngine(docs, s.engineOptions()...)
	s.suggestions = search.BuildSuggestions(docs)
	health.SetIndexDocuments(len(docs))
}

// Source returns the last loaded index source.
func (s *Service) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// DocumentCount returns the size of the loaded index.
func (s *Service) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Len()
}

// Documents returns the loaded documents.
func (s *Service) Documents() []core.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Documents()
}

// Search runs query with filters, or with the session filters when filters
// is nil. Blank queries return no results and are not recorded; every other
// query is tracked, including those without results.
func (s *Service) Search(query string, filters *core.Filters) []core.Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []core.Result{}
	}

	s.mu.RLock()
	f := s.filters
	if filters != nil {
		f = filters.Normalize()
	}
	results := s.engine.Search(query, f)
	s.mu.RUnlock()

	categories := make([]string, 0, len(results))
	for _, r := range results {
		categories = append(categories, r.Category)
	}
	s.tracker.TrackSearch(query, len(results), categories...)
	health.ObserveSearch(len(results))
	s.publish(realtime.NewSearchEvent(query, len(results)))
	return results
}

// Filters returns the session filters.
func (s *Service) Filters() core.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// UpdateFilters merges patch into the session filters and persists them.
func (s *Service) UpdateFilters(patch core.FiltersPatch) core.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = patch.Apply(s.filters)
	s.persistFilters()
	return s.filters.Clone()
}

// ClearFilters restores the default filters.
func (s *Service) ClearFilters() core.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.cfg.Defaults.Clone()
	s.persistFilters()
	return s.filters.Clone()
}

// GetSuggestions returns autocomplete candidates for partial, including
// popular past queries.
func (s *Service) GetSuggestions(partial string) []core.Suggestion {
	popular := s.tracker.PopularQueries()
	extra := make([]core.Suggestion, 0, len(popular))
	for _, q := range popular {
		extra = append(extra, core.Suggestion{Text: q.Query, Type: core.SuggestionQuery, Frequency: q.Count})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suggestions.Match(partial, extra...)
}

// TrackClick records that path was opened from the results of query.
func (s *Service) TrackClick(query, path string) bool {
	ok := s.tracker.TrackClick(strings.TrimSpace(query), path)
	if ok {
		health.ObserveClick()
		s.publish(realtime.NewClickEvent(query, path))
	}
	return ok
}

// GetPopularQueries returns the most frequent queries.
func (s *Service) GetPopularQueries() []core.QueryCount {
	return s.tracker.PopularQueries()
}

// GetSearchTrends returns searches per day for the last seven days.
func (s *Service) GetSearchTrends() []core.TrendPoint {
	return s.tracker.SearchTrends()
}

// FindSimilarContent returns documents sharing vocabulary with content.
func (s *Service) FindSimilarContent(content string) []core.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.FindSimilarContent(content, 0)
}

// FindRelatedTopics returns categories and tags related to topic.
func (s *Service) FindRelatedTopics(topic string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.FindRelatedTopics(topic, 0)
}

// ClearSearchHistory drops history and analytics.
func (s *Service) ClearSearchHistory() {
	s.tracker.Clear()
}

// History returns past searches, newest first.
func (s *Service) History() []core.HistoryEntry {
	return s.tracker.History()
}

// Analytics returns the search aggregates.
func (s *Service) Analytics() core.Analytics {
	return s.tracker.Analytics()
}

// ExportSearchData serializes history, analytics and filters.
func (s *Service) ExportSearchData() ([]byte, error) {
	return s.tracker.Export(s.Filters())
}

// ImportSearchData restores data produced by ExportSearchData. Malformed or
// incomplete payloads fail with history.ErrInvalidImport and change nothing.
func (s *Service) ImportSearchData(data []byte) error {
	filters, err := s.tracker.Import(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.persistFilters()
	return nil
}

func (s *Service) loadFilters() core.Filters {
	data, err := s.cfg.Store.Get(storage.Key(s.cfg.User, storage.FiltersKey))
	if errors.Is(err, storage.ErrNotFound) {
		return s.cfg.Defaults.Clone()
	}
	if err != nil {
		s.fail("load filters", err)
		return s.cfg.Defaults.Clone()
	}
	var f core.Filters
	if err := json.Unmarshal(data, &f); err != nil {
		s.fail("decode filters", err)
		return s.cfg.Defaults.Clone()
	}
	return f.Normalize()
}

// persistFilters requires s.mu to be held.
func (s *Service) persistFilters() {
	data, err := json.Marshal(s.filters)
	if err != nil {
		s.fail("encode filters", err)
		return
	}
	if err := s.cfg.Store.Set(storage.Key(s.cfg.User, storage.FiltersKey), data); err != nil {
		s.fail("persist filters", err)
	}
}

func (s *Service) fail(op string, err error) {
	s.logger.Errorf("%s: %v", op, err)
	s.cfg.Reporter.Report(core.NewDiagnostic(component, op, err))
}

func (s *Service) publish(ev realtime.Event) {
	if s.cfg.Publisher != nil {
		s.cfg.Publisher.Publish(ev)
	}
}
