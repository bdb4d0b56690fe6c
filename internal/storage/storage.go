// Package storage provides the local bbolt-backed cache behind the harvester and the HTTP cache policy.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks published movies and caches successful API response bodies.
type Store interface {
	Close() error
	SeenMovie(key string) (bool, error)
	MarkMovie(key string) error
	CachedResponse(key string) ([]byte, bool, error)
	StoreResponse(key string, body []byte) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	MovieTTL        time.Duration
	ResponseTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultMovieTTL        = 30 * 24 * time.Hour
	defaultResponseTTL     = 6 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// IsNoop reports whether s persists nothing.
func IsNoop(s Store) bool {
	_, ok := s.(noopStore)
	return ok
}

func normalizeOptions(opts Options) Options {
	if opts.MovieTTL <= 0 {
		opts.MovieTTL = defaultMovieTTL
	}
	if opts.ResponseTTL <= 0 {
		opts.ResponseTTL = defaultResponseTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                { return nil }
func (noopStore) SeenMovie(string) (bool, error)              { return false, nil }
func (noopStore) MarkMovie(string) error                      { return nil }
func (noopStore) CachedResponse(string) ([]byte, bool, error) { return nil, false, nil }
func (noopStore) StoreResponse(string, []byte) error          { return nil }
