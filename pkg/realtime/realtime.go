// Package realtime fans out live session events (searches, clicks, index
// reloads and diagnostics) to in-process listeners such as websocket
// sessions.
//
// Delivery is best effort. Each listener owns a buffered channel and events
// are dropped for a listener whose buffer is full, so a slow consumer never
// blocks the search path. Nothing is persisted or replayed.
package realtime

import (
	"sync"
	"time"

	"github.com/rubiojr/docsearch/pkg/core"
)

// Event types.
const (
	TypeSearch     = "search"
	TypeClick      = "click"
	TypeIndex      = "index"
	TypeDiagnostic = "diagnostic"
)

// SearchEvent is published for every tracked search.
type SearchEvent struct {
	Query        string `json:"query"`
	ResultsCount int    `json:"resultsCount"`
}

// ClickEvent is published when a result click is tracked.
type ClickEvent struct {
	Query string `json:"query"`
	Path  string `json:"path"`
}

// IndexEvent is published after an index (re)load.
type IndexEvent struct {
	Source    string `json:"source"`
	Documents int    `json:"documents"`
}

// Event is the envelope delivered to listeners. Exactly one payload field
// is set, matching Type.
type Event struct {
	Type       string           `json:"type"`
	Time       time.Time        `json:"time"`
	Search     *SearchEvent     `json:"search,omitempty"`
	Click      *ClickEvent      `json:"click,omitempty"`
	Index      *IndexEvent      `json:"index,omitempty"`
	Diagnostic *core.Diagnostic `json:"diagnostic,omitempty"`
}

// Publisher accepts events.
type Publisher interface {
	Publish(ev Event)
}

// Hub is a concurrency-safe fan-out dispatcher.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with the given per-listener buffer size (default 32).
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Publish delivers ev to every listener with room in its buffer. A zero
// Time is stamped with the current time.
func (h *Hub) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// NewSearchEvent wraps a tracked search.
func NewSearchEvent(query string, resultsCount int) Event {
	return Event{Type: TypeSearch, Search: &SearchEvent{Query: query, ResultsCount: resultsCount}}
}

// NewClickEvent wraps a tracked click.
func NewClickEvent(query, path string) Event {
	return Event{Type: TypeClick, Click: &ClickEvent{Query: query, Path: path}}
}

// NewIndexEvent wraps an index load.
func NewIndexEvent(source string, documents int) Event {
	return Event{Type: TypeIndex, Index: &IndexEvent{Source: source, Documents: documents}}
}

// NewDiagnosticEvent wraps a diagnostic.
func NewDiagnosticEvent(d core.Diagnostic) Event {
	return Event{Type: TypeDiagnostic, Diagnostic: &d, Time: d.Time}
}
