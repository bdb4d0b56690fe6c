package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers each movie event to every configured sink.
type Fanout struct {
	sinks []Publisher
	log   Logger
}

// NewFanout keeps the non-nil sinks in order.
func NewFanout(pubs []Publisher) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks, log: noopLogger{}}
}

// WithLogger reports incomplete deliveries to log.
func (f *Fanout) WithLogger(log Logger) *Fanout {
	if f != nil {
		f.log = ensureLogger(log)
	}
	return f
}

// Publish hands evt to every sink, even after one fails, and returns how many
// accepted it. The error joins the failures of the rejecting sinks.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	accepted := 0
	var (
		errs   []error
		failed []string
	)
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s sink %s: %w", sink.Type(), sink.ID(), err))
			failed = append(failed, sink.ID())
			continue
		}
		accepted++
	}

	if len(failed) > 0 {
		f.log.WarnObj("movie event not delivered to every sink", "fanout_result", map[string]any{
			"feed_id":      evt.FeedID,
			"movie_id":     evt.Movie.ID,
			"accepted":     accepted,
			"failed_sinks": failed,
		})
	}
	return accepted, errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks holding broker connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, sink := range f.sinks {
		c, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink %s: %w", sink.Type(), sink.ID(), err))
		}
	}
	return errors.Join(errs...)
}
