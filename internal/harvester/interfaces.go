package harvester

import (
	"context"

	"github.com/Sosisya/films-api/pkg/feeds"
	"github.com/Sosisya/films-api/pkg/publishers"
)

// Enricher attaches extra detail to an event before it is published.
type Enricher interface {
	Enrich(ctx context.Context, f feeds.Feed, evt publishers.Event) publishers.Event
}

// EventPublisher publishes events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which movies were already published.
type Deduper interface {
	SeenMovie(key string) (bool, error)
	MarkMovie(key string) error
}
