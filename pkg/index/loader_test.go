package index

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

const sampleIndex = `[
	{"path": "architecture/process-model", "title": "Process Model", "content": "IPC between processes", "lastUpdated": "2024-05-01"},
	{"path": "security/sandbox_policy.md", "content": "sandbox rules", "lastUpdated": "May 3, 2024"},
	{"path": "", "title": "No path", "content": "skipped"},
	{"path": "architecture/process-model", "title": "Duplicate", "content": "skipped"},
	{"path": "net/stack", "title": "Stack", "content": "http", "lastUpdated": "not a date"}
]`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDecode(t *testing.T) {
	docs, err := Decode(strings.NewReader(sampleIndex))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	if docs[0].Title != "Process Model" {
		t.Errorf("duplicate path replaced the first entry: %q", docs[0].Title)
	}
	if y, m, d := docs[0].LastUpdated.Date(); y != 2024 || m != time.May || d != 1 {
		t.Errorf("unexpected date %v", docs[0].LastUpdated)
	}
	if docs[1].Title != "sandbox policy" {
		t.Errorf("expected title derived from path, got %q", docs[1].Title)
	}
	if y, m, d := docs[1].LastUpdated.Date(); y != 2024 || m != time.May || d != 3 {
		t.Errorf("expected lenient date parsing, got %v", docs[1].LastUpdated)
	}
	if !docs[2].LastUpdated.IsZero() {
		t.Errorf("expected unparseable date to be ignored, got %v", docs[2].LastUpdated)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, payload := range []string{"", "{}", "[{", "not json"} {
		if _, err := Decode(strings.NewReader(payload)); err == nil {
			t.Errorf("expected error for %q", payload)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "index.json", []byte(sampleIndex))
	loader := NewLoader()

	for _, source := range []string{path, "file://" + path} {
		docs, err := loader.Load(context.Background(), source)
		if err != nil {
			t.Fatalf("load %s: %v", source, err)
		}
		if len(docs) != 3 {
			t.Errorf("%s: expected 3 documents, got %d", source, len(docs))
		}
	}

	if _, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadZstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("creating encoder: %v", err)
	}
	compressed := enc.EncodeAll([]byte(sampleIndex), nil)
	enc.Close()

	path := writeFile(t, "index.json.zst", compressed)
	docs, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected 3 documents, got %d", len(docs))
	}
}

func TestLoadHTTP(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/search-index.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleIndex))
		case "/broken.json":
			w.Write([]byte("<html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLoader()
	docs, err := loader.Load(context.Background(), server.URL+DefaultSource)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected 3 documents, got %d", len(docs))
	}

	if _, err := loader.Load(context.Background(), server.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := loader.Load(context.Background(), server.URL+"/broken.json"); err == nil {
		t.Error("expected error for malformed payload")
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("expected exactly one request per load, got %d", got)
	}
}

func TestLoadCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().Load(ctx, server.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestLoadUnsupportedSource(t *testing.T) {
	for _, source := range []string{"", "  ", "ftp://example.com/index.json"} {
		_, err := NewLoader().Load(context.Background(), source)
		if !errors.Is(err, ErrUnsupportedSource) {
			t.Errorf("%q: expected ErrUnsupportedSource, got %v", source, err)
		}
	}
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		source string
		local  bool
		path   string
	}{
		{"/srv/index.json", true, "/srv/index.json"},
		{"file:///srv/index.json", true, "/srv/index.json"},
		{"https://example.com/index.json", false, "https://example.com/index.json"},
	}
	for _, tt := range tests {
		if got := IsLocal(tt.source); got != tt.local {
			t.Errorf("IsLocal(%q) = %v", tt.source, got)
		}
		if got := LocalPath(tt.source); got != tt.path {
			t.Errorf("LocalPath(%q) = %q", tt.source, got)
		}
	}
}
