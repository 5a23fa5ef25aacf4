// Package history records searches and clicks and maintains rolling search
// analytics. State is kept in memory and written through to a key-value
// store on every change.
package history

import (
	"cmp"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/rubiojr/docsearch/pkg/storage"
)

// Retention limits.
const (
	MaxHistory           = 100
	MaxPopularQueries    = 20
	MaxPopularCategories = 20
	TrendDays            = 7
)

const component = "history"

// Tracker owns the search history and analytics of one user.
type Tracker struct {
	mu        sync.Mutex
	store     storage.Store
	user      string
	reporter  core.Reporter
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
	history   []core.HistoryEntry
	analytics core.Analytics
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithReporter sets where persistence failures are reported.
func WithReporter(r core.Reporter) Option {
	return func(t *Tracker) { t.reporter = r }
}

// WithIDGenerator sets the history entry ID generator.
func WithIDGenerator(f func() string) Option {
	return func(t *Tracker) { t.newID = f }
}

// NewTracker returns a tracker for user backed by store, restoring any
// previously persisted state. Unreadable state is reported and replaced by
// empty state.
func NewTracker(store storage.Store, user string, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		user:      user,
		reporter:  core.NopReporter{},
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.ForService(component),
		history:   []core.HistoryEntry{},
		analytics: core.NewAnalytics(),
	}
	for _, opt := range opts {
		opt(t)
	}

	var h []core.HistoryEntry
	if t.load(storage.HistoryKey, &h) && h != nil {
		t.history = capHistory(h)
	}
	var a core.Analytics
	if t.load(storage.AnalyticsKey, &a) {
		t.analytics = a.Clone()
	}
	return t
}

// TrackSearch records a search that returned resultsCount results from the
// given categories.
func (t *Tracker) TrackSearch(query string, resultsCount int, categories ...string) core.HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	entry := core.HistoryEntry{
		ID:           t.newID(),
		Query:        query,
		Timestamp:    now,
		ResultsCount: resultsCount,
	}
	t.history = capHistory(append([]core.HistoryEntry{entry}, t.history...))

	a := &t.analytics
	n := float64(a.TotalSearches)
	a.AverageResultsPerQuery = (a.AverageResultsPerQuery*n + float64(resultsCount)) / (n + 1)
	a.TotalSearches++

	a.PopularQueries = bumpQuery(a.PopularQueries, query)

	if resultsCount == 0 && !slices.Contains(a.NoResultQueries, query) {
		a.NoResultQueries = append(a.NoResultQueries, query)
	}

	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup || c == "" {
			continue
		}
		seen[c] = struct{}{}
		a.PopularCategories = bumpCategory(a.PopularCategories, c)
	}

	today := now.Format(core.TrendDateLayout)
	a.SearchTrends[today]++
	pruneTrends(a.SearchTrends, now)

	t.persist(storage.HistoryKey, t.history)
	t.persist(storage.AnalyticsKey, t.analytics)
	return entry
}

// TrackClick marks the most recent unclicked entry for query as opened with
// path. It reports whether an entry was updated.
func (t *Tracker) TrackClick(query, path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.history {
		if t.history[i].Query == query && t.history[i].ClickedResult == "" {
			t.history[i].ClickedResult = path
			t.persist(storage.HistoryKey, t.history)
			return true
		}
	}
	return false
}

// SearchTrends returns the number of searches per day for the last
// TrendDays days, oldest first and ending today.
func (t *Tracker) SearchTrends() []core.TrendPoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	loc := now.Location()
	counts := make(map[string]int, TrendDays)
	for _, e := range t.history {
		counts[e.Timestamp.In(loc).Format(core.TrendDateLayout)]++
	}

	points := make([]core.TrendPoint, 0, TrendDays)
	y, m, d := now.Date()
	for i := TrendDays - 1; i >= 0; i-- {
		day := time.Date(y, m, d-i, 0, 0, 0, 0, loc).Format(core.TrendDateLayout)
		points = append(points, core.TrendPoint{Date: day, Count: counts[day]})
	}
	return points
}

// PopularQueries returns the most frequent queries, most popular first.
func (t *Tracker) PopularQueries() []core.QueryCount {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.analytics.PopularQueries)
}

// History returns the recorded searches, newest first.
func (t *Tracker) History() []core.HistoryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}

// Analytics returns a copy of the aggregates.
func (t *Tracker) Analytics() core.Analytics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.analytics.Clone()
}

// Clear drops history and analytics, in memory and in the store.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = []core.HistoryEntry{}
	t.analytics = core.NewAnalytics()
	for _, name := range []string{storage.HistoryKey, storage.AnalyticsKey} {
		if err := t.store.Delete(storage.Key(t.user, name)); err != nil {
			t.fail("clear "+name, err)
		}
	}
}

func (t *Tracker) load(name string, v any) bool {
	data, err := t.store.Get(storage.Key(t.user, name))
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		t.fail("load "+name, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.fail("decode "+name, err)
		return false
	}
	return true
}

func (t *Tracker) persist(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		t.fail("encode "+name, err)
		return
	}
	if err := t.store.Set(storage.Key(t.user, name), data); err != nil {
		t.fail("persist "+name, err)
	}
}

func (t *Tracker) fail(op string, err error) {
	t.logger.Errorf("%s: %v", op, err)
	t.reporter.Report(core.NewDiagnostic(component, op, err))
}

func capHistory(h []core.HistoryEntry) []core.HistoryEntry {
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	return h
}

// New entries go first so that, among equal counts, the most recent
// survive truncation.
func bumpQuery(counts []core.QueryCount, query string) []core.QueryCount {
	if i := slices.IndexFunc(counts, func(c core.QueryCount) bool { return c.Query == query }); i >= 0 {
		counts[i].Count++
	} else {
		counts = slices.Insert(counts, 0, core.QueryCount{Query: query, Count: 1})
	}
	slices.SortStableFunc(counts, func(a, b core.QueryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > MaxPopularQueries {
		counts = counts[:MaxPopularQueries]
	}
	return counts
}

func bumpCategory(counts []core.CategoryCount, category string) []core.CategoryCount {
	if i := slices.IndexFunc(counts, func(c core.CategoryCount) bool { return strings.EqualFold(c.Category, category) }); i >= 0 {
		counts[i].Count++
	} else {
		counts = slices.Insert(counts, 0, core.CategoryCount{Category: category, Count: 1})
	}
	slices.SortStableFunc(counts, func(a, b core.CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > MaxPopularCategories {
		counts = counts[:MaxPopularCategories]
	}
	return counts
}

// pruneTrends drops days older than the trend window.
func pruneTrends(trends map[string]int, now time.Time) {
	y, m, d := now.Date()
	oldest := time.Date(y, m, d-(TrendDays-1), 0, 0, 0, 0, now.Location()).Format(core.TrendDateLayout)
	for day := range trends {
		if day < oldest {
			delete(trends, day)
		}
	}
}
