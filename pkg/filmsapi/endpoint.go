package filmsapi

import (
	"net/url"
	"strconv"
	"strings"
)

// Endpoint paths relative to the API base URL.
const (
	PathPopular       = "movie/popular"
	PathNowPlaying    = "movie/now_playing"
	PathUpcoming      = "movie/upcoming"
	PathTopRated      = "movie/top_rated"
	PathGenres        = "genre/movie/list"
	PathDiscoverMovie = "discover/movie"
	pathMovie         = "movie/"
)

// Query parameter names.
const (
	ParamAPIKey     = "api_key"
	ParamWithGenres = "with_genres"
	ParamPage       = "page"
)

// Endpoint is the path and extra query parameters of a single API call.
type Endpoint struct {
	Path  string
	Query url.Values
}

// NewEndpoint returns an endpoint for path with the given name/value query pairs.
func NewEndpoint(path string, pairs ...string) Endpoint {
	ep := Endpoint{Path: path}
	for i := 0; i+1 < len(pairs); i += 2 {
		if ep.Query == nil {
			ep.Query = url.Values{}
		}
		ep.Query.Set(pairs[i], pairs[i+1])
	}
	return ep
}

// MovieDetailsPath is the path of movie/{id}.
func MovieDetailsPath(id int) string {
	return pathMovie + strconv.Itoa(id)
}

// CastAndCrewPath is the path of movie/{id}/credits.
func CastAndCrewPath(id int) string {
	return pathMovie + strconv.Itoa(id) + "/credits"
}

// resolve builds the absolute request URL for ep against base, attaching apiKey.
// Extra parameters never override the API key.
func resolve(base *url.URL, apiKey string, ep Endpoint) (*url.URL, error) {
	path := strings.TrimLeft(strings.TrimSpace(ep.Path), "/")
	if path == "" {
		return nil, &InvalidURLError{Path: ep.Path, Reason: "empty path"}
	}

	rel, err := url.Parse(path)
	if err != nil {
		return nil, &InvalidURLError{Path: ep.Path, Reason: "unparseable path", Err: err}
	}
	if rel.IsAbs() || rel.Host != "" {
		return nil, &InvalidURLError{Path: ep.Path, Reason: "path must be relative"}
	}
	if rel.RawQuery != "" || rel.Fragment != "" {
		return nil, &InvalidURLError{Path: ep.Path, Reason: "path must not carry a query or fragment"}
	}

	for _, seg := range strings.Split(rel.Path, "/") {
		if seg == ".." {
			return nil, &InvalidURLError{Path: ep.Path, Reason: "path escapes base url"}
		}
	}

	u := base.JoinPath(rel.Path)
	if !strings.HasPrefix(u.Path, strings.TrimSuffix(base.Path, "/")+"/") {
		return nil, &InvalidURLError{Path: ep.Path, Reason: "path escapes base url"}
	}

	q := url.Values{}
	for k, vs := range ep.Query {
		if k == ParamAPIKey {
			continue
		}
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set(ParamAPIKey, apiKey)
	u.RawQuery = q.Encode()

	return u, nil
}
