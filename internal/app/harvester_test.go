package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sosisya/films-api/internal/config"
	"github.com/Sosisya/films-api/internal/storage"
	"github.com/Sosisya/films-api/pkg/publishers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, catalogURL, sinkURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		APIKey:                 "secret",
		BaseURL:                catalogURL + "/3/",
		RequestTimeout:         2 * time.Second,
		WaitForConnectivity:    false,
		CachePolicy:            "return_cache_else_load",
		FeedsFile:              writeFile(t, dir, "feeds.yaml", "feeds:\n  - id: popular\n    name: Popular\n    kind: popular\n"),
		PublishersFile:         writeFile(t, dir, "publishers.yaml", "publishers:\n  - id: hook\n    type: http\n    http:\n      url: "+sinkURL+"\n"),
		PollInterval:           time.Hour,
		HarvestConcurrency:     2,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "cache.db"),
		MovieTTL:               time.Hour,
		ResponseTTL:            time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestHarvesterPublishesFreshMoviesOnce(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/3/movie/popular":
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":550,"title":"Fight Club"}],"total_pages":1,"total_results":1}`))
		case "/3/movie/550":
			_, _ = w.Write([]byte(`{"id":550,"imdb_id":"tt0137523","title":"Fight Club"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer catalog.Close()

	received := make(chan publishers.Event, 4)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		_ = json.NewDecoder(r.Body).Decode(&evt)
		received <- evt
		w.WriteHeader(http.StatusNoContent)
	}))
	defer sink.Close()

	cfg := testConfig(t, catalog.URL, sink.URL)
	h, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}

	if err := h.runOnce(context.Background(), h.feedReg.Enabled()); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	select {
	case evt := <-received:
		if evt.Movie.ID != 550 || evt.FeedID != "popular" {
			t.Fatalf("unexpected event %#v", evt)
		}
		if evt.Extras == nil || evt.Extras.IMDbID != "tt0137523" {
			t.Fatalf("expected details enrichment, got %#v", evt.Extras)
		}
	default:
		t.Fatalf("sink did not receive an event")
	}

	// A second pass finds nothing new.
	if err := h.runOnce(context.Background(), h.feedReg.Enabled()); err != nil {
		t.Fatalf("second runOnce: %v", err)
	}
	if len(received) != 0 {
		t.Fatalf("movie published twice")
	}
	h.close()

	store, err := storage.NewStore("bbolt", cfg.BBoltPath, storage.Options{})
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	seen, err := store.SeenMovie("movie:550")
	if err != nil || !seen {
		t.Fatalf("expected movie to be marked seen, seen=%v err=%v", seen, err)
	}
}

func TestHarvesterRunStopsOnCancel(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer catalog.Close()

	cfg := testConfig(t, catalog.URL, "http://127.0.0.1:1")
	h, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestNewCatalogClientServesFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL, "http://127.0.0.1:1")
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	client, err := NewCatalogClient(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewCatalogClient: %v", err)
	}
	for i := 0; i < 2; i++ {
		genres, err := client.GetGenres(context.Background())
		if err != nil {
			t.Fatalf("GetGenres: %v", err)
		}
		if name, ok := genres.Name(28); !ok || name != "Action" {
			t.Fatalf("unexpected genres %#v", genres)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected second call to be served from cache, got %d hits", hits.Load())
	}
}

func TestNewCatalogClientRejectsBadPolicy(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.CachePolicy = "sometimes"
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if _, err := NewCatalogClient(cfg, store, nil); err == nil {
		t.Fatalf("expected error for unknown cache policy")
	}
}

func TestNewHarvesterRequiresConfig(t *testing.T) {
	if _, err := NewHarvester(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
