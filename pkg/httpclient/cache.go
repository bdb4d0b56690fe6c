package httpclient

import (
	"context"
	"crypto/sha1" //nolint:gosec // cache keys only
	"encoding/hex"
	"fmt"
	"strings"
)

// Cache policies understood by ParseCachePolicy.
const (
	CachePolicyReload              = "reload"
	CachePolicyReturnCacheElseLoad = "return_cache_else_load"
)

// ParseCachePolicy normalizes a configured cache policy name.
func ParseCachePolicy(raw string) (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "", CachePolicyReload:
		return CachePolicyReload, nil
	case CachePolicyReturnCacheElseLoad:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported cache policy %q", raw)
	}
}

// WithCachePolicy wraps next according to policy. A nil cache disables caching;
// log may be nil.
func WithCachePolicy(next Client, cache ResponseCache, policy string, log Logger) (Client, error) {
	policy, err := ParseCachePolicy(policy)
	if err != nil {
		return nil, err
	}
	if policy == CachePolicyReload || cache == nil {
		return next, nil
	}
	return NewCachingClient(next, cache, log), nil
}

// CachingClient serves stored bodies before going to the network and stores 2xx bodies afterwards.
type CachingClient struct {
	next  Client
	cache ResponseCache
	log   Logger
}

// NewCachingClient decorates next with a response cache. Cache read and write
// failures are reported to log when it is non-nil.
func NewCachingClient(next Client, cache ResponseCache, log Logger) *CachingClient {
	return &CachingClient{next: next, cache: cache, log: log}
}

// Get returns a cached body when present, otherwise delegates and caches successful responses.
// Cache failures never fail the request.
func (c *CachingClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := CacheKey(url)
	body, ok, err := c.cache.CachedResponse(key)
	if err != nil {
		c.warn("response cache read failed", key, err)
	} else if ok {
		return cachedResponse{body: body}, nil
	}

	resp, err := c.next.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code >= 200 && code < 300 {
		if err := c.cache.StoreResponse(key, resp.Body()); err != nil {
			c.warn("response cache write failed", key, err)
		}
	}
	return resp, nil
}

func (c *CachingClient) warn(msg, key string, err error) {
	if c.log == nil {
		return
	}
	c.log.WarnObj(msg, "cache_error", map[string]any{
		"cache_key": key,
		"error":     err.Error(),
	})
}

// CacheKey hashes the request URL so credentials in the query string never reach storage.
func CacheKey(url string) string {
	sum := sha1.Sum([]byte(url)) //nolint:gosec // cache keys only
	return hex.EncodeToString(sum[:])
}

type cachedResponse struct {
	body []byte
}

func (r cachedResponse) Body() []byte    { return r.body }
func (r cachedResponse) StatusCode() int { return 200 }
