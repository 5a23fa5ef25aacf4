package storage

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a small key-value store for user preferences and search
// history. Values are opaque byte slices, usually JSON documents.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(prefix string) ([]string, error)
}

// Well-known key names.
const (
	HistoryKey   = "history"
	AnalyticsKey = "analytics"
	FiltersKey   = "filters"
)

// Key namespaces name under user. Anonymous users share the top level
// namespace.
func Key(user, name string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return "docsearch:" + name
	}
	return "docsearch:" + user + ":" + name
}
