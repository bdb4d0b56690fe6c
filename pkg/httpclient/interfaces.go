package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// ResponseCache stores successful response bodies keyed by an opaque request key.
type ResponseCache interface {
	CachedResponse(key string) ([]byte, bool, error)
	StoreResponse(key string, body []byte) error
}

// Logger is the optional diagnostics sink of CachingClient.
type Logger interface {
	WarnObj(msg, key string, obj interface{})
}
