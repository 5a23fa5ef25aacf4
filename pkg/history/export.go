package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/storage"
)

// ErrInvalidImport is returned when an import payload is malformed or
// incomplete.
var ErrInvalidImport = errors.New("invalid search data")

// Export is the portable form of a user's search data.
type Export struct {
	History    []core.HistoryEntry `json:"history"`
	Analytics  core.Analytics      `json:"analytics"`
	Filters    core.Filters        `json:"filters"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// Export serializes history, analytics and filters as indented JSON.
func (t *Tracker) Export(filters core.Filters) ([]byte, error) {
	t.mu.Lock()
	doc := Export{
		History:    append([]core.HistoryEntry{}, t.history...),
		Analytics:  t.analytics.Clone(),
		Filters:    filters.Normalize(),
		ExportedAt: t.now().UTC(),
	}
	t.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// Import replaces history and analytics with the contents of data and
// returns the filters it carries. Nothing changes when data is rejected.
func (t *Tracker) Import(data []byte) (core.Filters, error) {
	doc, err := ParseExport(data)
	if err != nil {
		return core.Filters{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = capHistory(doc.History)
	t.analytics = doc.Analytics.Clone()
	t.persist(storage.HistoryKey, t.history)
	t.persist(storage.AnalyticsKey, t.analytics)
	return doc.Filters, nil
}

// ParseExport decodes and validates an export document. history, analytics
// and filters are required.
func ParseExport(data []byte) (Export, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, field := range []string{"history", "analytics", "filters"} {
		v, ok := raw[field]
		if !ok || string(v) == "null" {
			return Export{}, fmt.Errorf("%w: missing %s", ErrInvalidImport, field)
		}
	}

	var doc Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return Export{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if doc.History == nil {
		doc.History = []core.HistoryEntry{}
	}
	doc.Filters = doc.Filters.Normalize()
	return doc, nil
}
