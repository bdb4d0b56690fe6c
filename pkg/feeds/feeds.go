// Package feeds holds the YAML/JSON registry of catalog listings the harvester watches.
package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Feed kinds, one per catalog listing operation.
const (
	KindPopular    = "popular"
	KindNowPlaying = "now_playing"
	KindUpcoming   = "upcoming"
	KindTopRated   = "top_rated"
	KindGenre      = "genre"

	defaultPage = 1
)

var knownKinds = map[string]bool{
	KindPopular:    true,
	KindNowPlaying: true,
	KindUpcoming:   true,
	KindTopRated:   true,
	KindGenre:      true,
}

// Feed is a single catalog listing declared in the feeds file.
type Feed struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	GenreID int    `json:"genre_id" yaml:"genre_id"`
	Page    int    `json:"page" yaml:"page"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
}

// EnabledValue returns enabled flag defaulting to true.
func (f Feed) EnabledValue() bool {
	if f.Enabled == nil {
		return true
	}
	return *f.Enabled
}

type fileFormat struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// Registry is the validated set of feeds loaded from a file.
type Registry struct {
	mu    sync.RWMutex
	feeds []Feed
	idx   map[string]Feed
}

// LoadRegistry loads the feed registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseFeeds(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Feeds)
}

// NewRegistry validates feeds and indexes them by id.
func NewRegistry(feeds []Feed) (*Registry, error) {
	if len(feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	reg := &Registry{
		feeds: make([]Feed, len(feeds)),
		idx:   make(map[string]Feed, len(feeds)),
	}
	for i := range feeds {
		f := sanitizeFeed(feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, exists := reg.idx[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		reg.feeds[i] = f
		reg.idx[f.ID] = f
	}
	return reg, nil
}

func parseFeeds(data []byte, ext string) (fileFormat, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out fileFormat
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return fileFormat{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Page <= 0 {
		f.Page = defaultPage
	}
	if f.Enabled == nil {
		def := true
		f.Enabled = &def
	}
	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	if f.Kind == "" {
		return fmt.Errorf("kind is required for feed %q", f.ID)
	}
	if !knownKinds[f.Kind] {
		return fmt.Errorf("unknown kind %q for feed %q", f.Kind, f.ID)
	}
	if f.Kind == KindGenre && f.GenreID <= 0 {
		return fmt.Errorf("genre_id is required for genre feed %q", f.ID)
	}
	return nil
}

// ByID returns the feed by id.
func (r *Registry) ByID(id string) (Feed, bool) {
	if r == nil {
		return Feed{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Feed{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.idx[id]
	return f, ok
}

// All returns all configured feeds.
func (r *Registry) All() []Feed {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Feed, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// Enabled returns feeds that are enabled.
func (r *Registry) Enabled() []Feed {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Feed, 0, len(all))
	for _, f := range all {
		if f.EnabledValue() {
			out = append(out, f)
		}
	}
	return out
}
