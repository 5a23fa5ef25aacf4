package integration_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rubiojr/docsearch/pkg/api"
	"github.com/rubiojr/docsearch/pkg/health"
	"github.com/rubiojr/docsearch/pkg/index"
	"github.com/rubiojr/docsearch/pkg/realtime"
	"github.com/rubiojr/docsearch/pkg/session"
	"github.com/rubiojr/docsearch/pkg/storage"
)

type indexEntry struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

var baseIndex = []indexEntry{
	{Path: "architecture/process-model", Title: "Process Model", Content: "Each tab runs in a renderer process talking over Mojo IPC.", LastUpdated: "2024-05-01"},
	{Path: "security/sandbox", Title: "Sandbox", Content: "Renderer processes are sandboxed.", LastUpdated: "2024-04-12"},
	{Path: "gpu/compositor", Title: "Compositor", Content: "The GPU process composites layers.", LastUpdated: "2024-03-20"},
}

// writeIndex writes entries to path via a temporary file and a rename, the
// way static site generators publish.
func writeIndex(t *testing.T, path string, entries []indexEntry) {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename index: %v", err)
	}
}

// stack is a full docsearch deployment backed by SQLite in a temp dir.
type stack struct {
	dir       string
	indexPath string
	store     *storage.SQLiteStore
	hub       *realtime.Hub
	monitor   *health.Monitor
	svc       *session.Service
	mux       *http.ServeMux
}

func newStack(t *testing.T, dir, user string) *stack {
	t.Helper()
	indexPath := filepath.Join(dir, "search-index.json")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		writeIndex(t, indexPath, baseIndex)
	}

	store, err := storage.OpenDir(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	hub := realtime.NewHub(64)
	monitor := health.NewMonitor(hub)
	svc := session.New(session.Config{
		Store:     store,
		Loader:    index.NewLoader(),
		User:      user,
		Reporter:  monitor,
		Publisher: hub,
	})
	if err := svc.LoadIndex(context.Background(), indexPath); err != nil {
		t.Fatalf("load index: %v", err)
	}

	mux := http.NewServeMux()
	api.NewServer(svc, hub, monitor).RegisterRoutes(mux)

	return &stack{
		dir:       dir,
		indexPath: indexPath,
		store:     store,
		hub:       hub,
		monitor:   monitor,
		svc:       svc,
		mux:       mux,
	}
}

func (s *stack) Close(t *testing.T) {
	t.Helper()
	if err := s.store.Close(); err != nil {
		t.Errorf("close storage: %v", err)
	}
}
