// Package filmsapi is a typed client for the TMDb v3 movie catalog.
//
// Every call is a single authenticated GET: the endpoint path is joined onto the
// base URL, the API key is attached as a query parameter and the JSON body is
// decoded into the caller's type. Failures are reported as one of four kinds
// (ErrInvalidURL, ErrTransport, ErrHTTPStatus, ErrDecode).
package filmsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/Sosisya/films-api/pkg/httpclient"
)

// DefaultBaseURL is the TMDb v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3/"

var requestHeaders = map[string]string{"Accept": "application/json"}

// Config holds the immutable settings of a Client.
type Config struct {
	BaseURL             string
	APIKey              string
	Timeout             time.Duration
	WaitForConnectivity bool
}

// DefaultConfig returns the production settings for apiKey.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL:             DefaultBaseURL,
		APIKey:              apiKey,
		Timeout:             httpclient.DefaultTimeout,
		WaitForConnectivity: true,
	}
}

// Client issues catalog requests. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	transport httpclient.Client
	log       Logger
}

// New validates cfg and builds a Client. A nil transport selects the resty
// transport configured from cfg; a nil logger disables diagnostics.
func New(cfg Config, transport httpclient.Client, log Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{Path: raw, Reason: "unparseable base url", Err: err}
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, &InvalidURLError{Path: raw, Reason: "base url must be absolute http(s)"}
	}
	base.RawQuery = ""
	base.Fragment = ""

	if transport == nil {
		transport = httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout:             cfg.Timeout,
			WaitForConnectivity: cfg.WaitForConnectivity,
		})
	}

	return &Client{
		baseURL:   base,
		apiKey:    apiKey,
		transport: transport,
		log:       ensureLogger(log),
	}, nil
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Fetch GETs path and decodes the body as T.
func Fetch[T any](ctx context.Context, c *Client, path string) (T, error) {
	return Do[T](ctx, c, NewEndpoint(path))
}

// FetchWithParams GETs path with the genre discovery parameters and decodes the body as T.
func FetchWithParams[T any](ctx context.Context, c *Client, path, genreID, page string) (T, error) {
	return Do[T](ctx, c, NewEndpoint(path, ParamWithGenres, genreID, ParamPage, page))
}

// Do GETs ep and decodes the body as T. On failure the zero T is returned with
// an error of one of the package's four kinds.
func Do[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	var out T
	body, err := c.get(ctx, ep)
	if err == nil {
		if decErr := json.Unmarshal(body, &out); decErr != nil {
			err = &DecodeError{Path: ep.Path, Target: typeName[T](), Body: body, Err: decErr}
		}
	}
	if err != nil && c != nil {
		c.log.ErrorObj("catalog request failed", "catalog_error", map[string]any{
			"path":  ep.Path,
			"kind":  errorKind(err),
			"error": err.Error(),
		})
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, ep Endpoint) ([]byte, error) {
	if c == nil || c.transport == nil {
		return nil, &TransportError{Path: ep.Path, Err: errors.New("client is not initialized")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	u, err := resolve(c.baseURL, c.apiKey, ep)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Get(ctx, u.String(), requestHeaders)
	if err != nil {
		return nil, &TransportError{Path: ep.Path, Err: redact(err, c.apiKey)}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &HTTPStatusError{Path: ep.Path, StatusCode: code, Body: body}
	}

	c.log.DebugObj("catalog request completed", "catalog_response", map[string]any{
		"path":   ep.Path,
		"status": resp.StatusCode(),
		"bytes":  len(body),
	})
	return body, nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// redact strips the API key from transport errors, which usually embed the request URL.
func redact(err error, apiKey string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && strings.Contains(uerr.URL, apiKey) {
		cp := *uerr
		cp.URL = strings.ReplaceAll(cp.URL, apiKey, "REDACTED")
		return &cp
	}
	if strings.Contains(err.Error(), apiKey) {
		return &redactedError{msg: strings.ReplaceAll(err.Error(), apiKey, "REDACTED"), err: err}
	}
	return err
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
