package harvester

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sosisya/films-api/internal/logger"
	"github.com/Sosisya/films-api/pkg/feeds"
	"github.com/Sosisya/films-api/pkg/filmsapi"
	"github.com/Sosisya/films-api/pkg/models"
	"github.com/Sosisya/films-api/pkg/publishers"
)

const defaultConcurrency = 4

// Service polls catalog feeds and publishes movies it has not seen before.
type Service struct {
	catalog     filmsapi.Catalog
	publisher   EventPublisher
	enricher    Enricher
	dedupe      Deduper
	log         logger.Logger
	concurrency int
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithEnricher sets the enricher applied to fresh movies.
func WithEnricher(e Enricher) Option {
	return func(s *Service) { s.enricher = e }
}

// WithConcurrency bounds how many feeds are polled at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService wires a harvester around a catalog client and a publisher.
func NewService(catalog filmsapi.Catalog, pub EventPublisher, log logger.Logger, dedupe Deduper, opts ...Option) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	s := &Service{
		catalog:     catalog,
		publisher:   pub,
		dedupe:      dedupe,
		log:         log,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one harvest pass over the given feeds.
func (s *Service) Run(ctx context.Context, list []feeds.Feed) error {
	if s == nil || s.catalog == nil {
		return fmt.Errorf("harvester service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no feeds configured for harvesting")
	}

	errs := s.runAll(ctx, list)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []feeds.Feed) []error {
	results := make([]error, len(list))
	claims := newClaimSet()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range list {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := s.processFeed(gctx, f, claims); err != nil {
				results[i] = err
				s.log.ErrorObj("feed harvest failed", "feed_error", map[string]any{
					"feed_id": f.ID,
					"error":   err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *Service) processFeed(ctx context.Context, f feeds.Feed, claims *claimSet) error {
	movies, err := feeds.Fetch(ctx, s.catalog, f)
	if err != nil {
		return err
	}

	fresh := s.filterNewMovies(f, movies)
	published := 0
	var errs []error
	for _, m := range fresh {
		if ctx.Err() != nil {
			break
		}
		if !claims.claim(m.ID) {
			continue
		}
		ok, err := s.publishMovie(ctx, f, m)
		if err != nil {
			errs = append(errs, fmt.Errorf("movie %d: %w", m.ID, err))
		}
		if ok {
			published++
		} else {
			claims.release(m.ID)
		}
	}

	s.log.InfoObj("feed harvest completed", "feed_result", map[string]any{
		"feed_id":          f.ID,
		"movies_collected": len(movies),
		"movies_fresh":     len(fresh),
		"movies_published": published,
	})

	if len(errs) > 0 {
		return fmt.Errorf("feed %s: %w", f.ID, errors.Join(errs...))
	}
	return nil
}

// publishMovie reports whether at least one sink accepted the event.
func (s *Service) publishMovie(ctx context.Context, f feeds.Feed, m models.Movie) (bool, error) {
	evt := publishers.NewEvent(f.ID, f.Name, m)
	evt.CollectedAt = s.now().UTC()
	if s.enricher != nil {
		evt = s.enricher.Enrich(ctx, f, evt)
	}

	if s.publisher == nil {
		return false, fmt.Errorf("no publisher configured")
	}
	n, err := s.publisher.Publish(ctx, evt)
	if n == 0 {
		if err == nil {
			err = fmt.Errorf("no publisher accepted the event")
		}
		return false, err
	}
	if err != nil {
		s.log.WarnObj("movie partially published", "publish_partial", map[string]any{
			"feed_id":  f.ID,
			"movie_id": m.ID,
			"accepted": n,
			"error":    err.Error(),
		})
	}

	if s.dedupe != nil {
		if markErr := s.dedupe.MarkMovie(MovieKey(m.ID)); markErr != nil {
			s.log.WarnObj("mark movie failed", "dedupe_error", map[string]any{
				"movie_id": m.ID,
				"error":    markErr.Error(),
			})
		}
	}
	return true, nil
}

// filterNewMovies drops movies already seen; lookup failures keep the movie.
func (s *Service) filterNewMovies(f feeds.Feed, movies []models.Movie) []models.Movie {
	if s.dedupe == nil {
		return movies
	}
	out := make([]models.Movie, 0, len(movies))
	seenInBatch := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		if _, dup := seenInBatch[m.ID]; dup {
			continue
		}
		seenInBatch[m.ID] = struct{}{}

		seen, err := s.dedupe.SeenMovie(MovieKey(m.ID))
		if err != nil {
			s.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"feed_id":  f.ID,
				"movie_id": m.ID,
				"error":    err.Error(),
			})
			out = append(out, m)
			continue
		}
		if !seen {
			out = append(out, m)
		}
	}
	return out
}

// claimSet records the movies taken by a feed during one pass so feeds listing
// the same movie concurrently publish it once.
type claimSet struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{ids: make(map[int]struct{})}
}

func (c *claimSet) claim(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.ids[id]; taken {
		return false
	}
	c.ids[id] = struct{}{}
	return true
}

func (c *claimSet) release(id int) {
	c.mu.Lock()
	delete(c.ids, id)
	c.mu.Unlock()
}

// MovieKey is the dedupe key stored for a movie id.
func MovieKey(id int) string {
	return "movie:" + strconv.Itoa(id)
}
