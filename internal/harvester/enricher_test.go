package harvester

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Sosisya/films-api/pkg/httpclient"
	"github.com/Sosisya/films-api/pkg/models"
	"github.com/Sosisya/films-api/pkg/publishers"
)

type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

type stubHTTPClient struct {
	resp httpclient.Response
	err  error
	urls []string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

const homepageHTML = `
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="Fight Club">
    <meta name="description" content="Plain description">
    <meta property="og:image" content="/img/og.png">
  </head>
</html>`

func detailsCatalog() *fakeCatalog {
	return &fakeCatalog{details: map[int]models.MovieDetails{
		550: {
			ID:       550,
			IMDbID:   "tt0137523",
			Tagline:  "Mischief. Mayhem. Soap.",
			Runtime:  139,
			Homepage: "https://www.foxmovies.com/movies/fight-club",
			Genres:   []models.Genre{{ID: 18, Name: "Drama"}},
		},
	}}
}

func TestDetailsEnricherAddsDetailsAndHomepageMeta(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(homepageHTML), statusCode: 200}}
	enricher := NewDetailsEnricher(detailsCatalog(), client, true, nil)

	evt := enricher.Enrich(context.Background(), popularFeed(), publishers.Event{Movie: models.Movie{ID: 550}})
	x := evt.Extras
	if x == nil {
		t.Fatalf("expected extras")
	}
	if x.IMDbID != "tt0137523" || x.Runtime != 139 || len(x.Genres) != 1 || x.Genres[0] != "Drama" {
		t.Fatalf("details not copied: %#v", x)
	}
	if x.PageTitle != "Fight Club" || x.PageDescription != "Plain description" {
		t.Fatalf("unexpected page meta %#v", x)
	}
	if x.PageImage != "https://www.foxmovies.com/img/og.png" {
		t.Fatalf("page image not resolved: %q", x.PageImage)
	}
	if len(client.urls) != 1 || client.urls[0] != "https://www.foxmovies.com/movies/fight-club" {
		t.Fatalf("unexpected homepage fetches %v", client.urls)
	}
}

func TestDetailsEnricherSkipsHomepageWhenDisabled(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte(homepageHTML), statusCode: 200}}
	evt := NewDetailsEnricher(detailsCatalog(), client, false, nil).
		Enrich(context.Background(), popularFeed(), publishers.Event{Movie: models.Movie{ID: 550}})

	if len(client.urls) != 0 {
		t.Fatalf("homepage should not be fetched")
	}
	if evt.Extras == nil || evt.Extras.PageTitle != "" || evt.Extras.Tagline == "" {
		t.Fatalf("unexpected extras %#v", evt.Extras)
	}
}

func TestDetailsEnricherToleratesFailures(t *testing.T) {
	cat := detailsCatalog()
	cat.detailsErr = errors.New("not found")
	evt := NewDetailsEnricher(cat, nil, true, nil).
		Enrich(context.Background(), popularFeed(), publishers.Event{Movie: models.Movie{ID: 550}})
	if evt.Extras != nil {
		t.Fatalf("expected no extras when details fail")
	}

	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: 404}}
	evt = NewDetailsEnricher(detailsCatalog(), client, true, nil).
		Enrich(context.Background(), popularFeed(), publishers.Event{Movie: models.Movie{ID: 550}})
	if evt.Extras == nil || evt.Extras.IMDbID == "" || evt.Extras.PageTitle != "" {
		t.Fatalf("expected details without page meta, got %#v", evt.Extras)
	}
}

func TestParseMetaPrefersOGTags(t *testing.T) {
	html := []byte(`
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG Desc">
    <meta property="og:image" content="https://cdn.example.com/og.png">
  </head>
</html>`)

	meta, err := parseMeta(html)
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG Desc" || meta.ImageURL != "https://cdn.example.com/og.png" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestFetchAndParseLimitsBody(t *testing.T) {
	body := bytes.Repeat([]byte("a"), maxHTMLBodyBytes+10)
	e := NewDetailsEnricher(detailsCatalog(), &stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}}, true, nil)

	meta, err := e.fetchAndParse(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("fetchAndParse: %v", err)
	}
	if meta.Title != "" {
		t.Fatalf("expected empty title because body had no metadata")
	}
}

func TestResolveURL(t *testing.T) {
	if got := resolveURL("/img.png", "https://example.com/movies/1"); got != "https://example.com/img.png" {
		t.Fatalf("resolveURL got %q", got)
	}
	if got := resolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := resolveURL("https://cdn.example.com/a.png", "https://example.com"); got != "https://cdn.example.com/a.png" {
		t.Fatalf("absolute url changed: %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
