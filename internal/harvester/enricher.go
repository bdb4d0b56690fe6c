package harvester

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sosisya/films-api/internal/logger"
	"github.com/Sosisya/films-api/pkg/feeds"
	"github.com/Sosisya/films-api/pkg/filmsapi"
	"github.com/Sosisya/films-api/pkg/httpclient"
	"github.com/Sosisya/films-api/pkg/publishers"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// DetailsEnricher adds movie details and, optionally, homepage OpenGraph metadata.
type DetailsEnricher struct {
	catalog  filmsapi.Catalog
	client   httpclient.Client
	homepage bool
	log      logger.Logger
}

// NewDetailsEnricher builds an enricher. A nil client disables homepage scraping.
func NewDetailsEnricher(catalog filmsapi.Catalog, client httpclient.Client, scrapeHomepage bool, log logger.Logger) *DetailsEnricher {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &DetailsEnricher{
		catalog:  catalog,
		client:   client,
		homepage: scrapeHomepage && client != nil,
		log:      log,
	}
}

// Enrich never fails; on errors the event is returned with whatever was gathered.
func (e *DetailsEnricher) Enrich(ctx context.Context, f feeds.Feed, evt publishers.Event) publishers.Event {
	if e == nil || e.catalog == nil {
		return evt
	}

	details, err := e.catalog.GetMovieDetails(ctx, evt.Movie.ID)
	if err != nil {
		e.log.WarnObj("movie details lookup failed", "enrich_error", map[string]any{
			"feed_id":  f.ID,
			"movie_id": evt.Movie.ID,
			"error":    err.Error(),
		})
		return evt
	}

	extras := &publishers.Extras{
		IMDbID:   details.IMDbID,
		Tagline:  details.Tagline,
		Runtime:  details.Runtime,
		Homepage: details.Homepage,
	}
	for _, g := range details.Genres {
		extras.Genres = append(extras.Genres, g.Name)
	}

	if e.homepage && details.Homepage != "" {
		meta, err := e.fetchAndParse(ctx, details.Homepage)
		if err != nil {
			e.log.WarnObj("homepage metadata scrape failed", "metadata_error", map[string]any{
				"feed_id":  f.ID,
				"movie_id": evt.Movie.ID,
				"url":      details.Homepage,
				"error":    err.Error(),
			})
		} else {
			extras.PageTitle = meta.Title
			extras.PageDescription = meta.Description
			extras.PageImage = resolveURL(meta.ImageURL, details.Homepage)
		}
	}

	evt.Extras = extras
	return evt
}

func (e *DetailsEnricher) fetchAndParse(ctx context.Context, pageURL string) (pageMeta, error) {
	resp, err := e.client.Get(ctx, pageURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return pageMeta{}, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return pageMeta{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return parseMeta(body)
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
	}, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

// resolveURL makes ref absolute against base; unparsable input yields ref unchanged.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return r.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
