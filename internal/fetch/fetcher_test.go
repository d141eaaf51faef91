package fetch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fieldguide/internal/catalog"
	"fieldguide/internal/config"
	"fieldguide/internal/errdefs"
	"fieldguide/internal/fetch"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testDomain() *catalog.Domain {
	return &catalog.Domain{Name: "fossils", MediaType: catalog.MediaTypeImages}
}

type staticProvider struct {
	urls []string
	err  error
}

func (p staticProvider) Search(ctx context.Context, subject string, limit int) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.urls) > limit {
		return p.urls[:limit], nil
	}
	return p.urls, nil
}

func newFetcher(t *testing.T, provider fetch.Provider, workers int) *fetch.Fetcher {
	t.Helper()
	cfg := config.Default()
	cfg.Fetcher.Workers = workers
	cfg.Fetcher.RequestTimeout = 5
	cfg.Fetcher.BatchTimeout = 30
	return fetch.New(&cfg, provider, nil)
}

func TestFetchKeepsOnlySniffedImages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/png"):
			w.Write(append(pngHeader, make([]byte, 64)...))
		case strings.HasSuffix(r.URL.Path, "/gif"):
			w.Write([]byte("GIF89a" + strings.Repeat("x", 64)))
		case strings.HasSuffix(r.URL.Path, "/text"):
			w.Write([]byte("just some text, not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	provider := staticProvider{urls: []string{
		server.URL + "/png",
		server.URL + "/text",
		server.URL + "/gif",
		server.URL + "/missing",
	}}

	dir := t.TempDir()
	paths, err := newFetcher(t, provider, 2).Fetch(context.Background(), testDomain(), "Exogyra", dir, 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 validated files, got %d: %v", len(paths), paths)
	}
	exts := map[string]int{}
	for _, path := range paths {
		if filepath.Dir(path) != dir {
			t.Fatalf("file outside destination dir: %s", path)
		}
		exts[filepath.Ext(path)]++
	}
	if exts[".png"] != 1 || exts[".gif"] != 1 {
		t.Fatalf("unexpected detected extensions: %v", exts)
	}
}

func TestFetchPropagatesSearchFailure(t *testing.T) {
	t.Parallel()

	provider := staticProvider{err: errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search", "status 503", nil)}
	_, err := newFetcher(t, provider, 2).Fetch(context.Background(), testDomain(), "Exogyra", t.TempDir(), 5)
	if err == nil || !errdefs.Retryable(err) {
		t.Fatalf("expected retryable upstream error, got %v", err)
	}
}

func TestFetchBoundsConcurrentDownloads(t *testing.T) {
	t.Parallel()

	const workers = 2
	var inflight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.Write(append(pngHeader, make([]byte, 32)...))
	}))
	defer server.Close()

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = server.URL + "/png"
	}

	paths, err := newFetcher(t, staticProvider{urls: urls}, workers).
		Fetch(context.Background(), testDomain(), "Exogyra", t.TempDir(), len(urls))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(paths) != len(urls) {
		t.Fatalf("expected %d downloads, got %d", len(urls), len(paths))
	}
	if got := peak.Load(); got > workers {
		t.Fatalf("observed %d concurrent downloads, want at most %d", got, workers)
	}
}

func TestSpecimenProviderParsesMediaRecords(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"indexTerms": map[string]any{"mediarecords": []string{"aaa", "bbb"}}},
				{"indexTerms": map[string]any{"mediarecords": []string{"ccc"}}},
			},
		})
	}))
	defer server.Close()

	provider := fetch.NewSpecimenProvider(server.URL, 5*time.Second)
	provider.SetMediaBaseURL("https://media.example/")

	urls, err := provider.Search(context.Background(), "Exogyra", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"https://media.example/aaa", "https://media.example/bbb"}
	if len(urls) != len(want) || urls[0] != want[0] || urls[1] != want[1] {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestSpecimenProviderSurfacesUpstreamStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := fetch.NewSpecimenProvider(server.URL, 5*time.Second)
	_, err := provider.Search(context.Background(), "Exogyra", 5)
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("expected upstream status error, got %v", err)
	}
	if !errdefs.Retryable(err) {
		t.Fatal("upstream errors must be retryable")
	}
}
