// Package index loads the knowledge-base search index.
//
// An index is a JSON array of entries:
//
//	[{"path": "architecture/process-model", "title": "Process Model",
//	  "content": "...", "lastUpdated": "2024-05-01"}]
//
// Sources are http(s) URLs or local paths. Either may point to a
// zstd-compressed payload ending in .zst.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/klauspost/compress/zstd"
	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/log"
)

// ErrUnsupportedSource is returned for empty sources and URL schemes other
// than http and https.
var ErrUnsupportedSource = errors.New("unsupported index source")

// DefaultSource is the conventional index location relative to the site root.
const DefaultSource = "/search-index.json"

var logger = log.ForService("index")

type entry struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
}

// Loader fetches and decodes index sources.
type Loader struct {
	Client *http.Client
}

// NewLoader returns a Loader with a 30 second HTTP timeout.
func NewLoader() *Loader {
	return &Loader{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Load reads source and returns its documents in index order.
func (l *Loader) Load(ctx context.Context, source string) ([]core.Document, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(source), ".zst") {
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	docs, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	logger.Debugf("loaded %d documents from %s", len(docs), source)
	return docs, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrUnsupportedSource
	}

	if scheme, _, ok := strings.Cut(source, "://"); ok {
		switch strings.ToLower(scheme) {
		case "http", "https":
			return l.fetch(ctx, source)
		case "file":
			source = strings.TrimPrefix(source, scheme+"://")
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
		}
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	return f, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching index: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Decode parses a JSON index. Entries without a path are skipped and only
// the first entry for a given path is kept.
func Decode(r io.Reader) ([]core.Document, error) {
	var entries []entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		path := strings.TrimSpace(e.Path)
		if path == "" {
			logger.Debugf("skipping entry without path")
			continue
		}
		if _, dup := seen[path]; dup {
			logger.Debugf("skipping duplicate path %s", path)
			continue
		}
		seen[path] = struct{}{}

		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = core.TitleFromPath(path)
		}

		doc := core.Document{Path: path, Title: title, Content: e.Content}
		if e.LastUpdated != "" {
			t, err := dateparse.ParseAny(e.LastUpdated)
			if err != nil {
				logger.Debugf("ignoring lastUpdated %q of %s: %v", e.LastUpdated, path, err)
			} else {
				doc.LastUpdated = t
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// IsLocal reports whether source refers to a local file.
func IsLocal(source string) bool {
	scheme, _, ok := strings.Cut(strings.TrimSpace(source), "://")
	return !ok || strings.EqualFold(scheme, "file")
}

// LocalPath strips a file:// prefix.
func LocalPath(source string) string {
	source = strings.TrimSpace(source)
	if scheme, rest, ok := strings.Cut(source, "://"); ok && strings.EqualFold(scheme, "file") {
		return rest
	}
	return source
}
