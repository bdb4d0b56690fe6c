package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 30 * time.Second

	// fastFailDialTimeout bounds connection setup when the client should not wait for connectivity.
	fastFailDialTimeout = 5 * time.Second
)

// Options tunes the resty-backed transport.
type Options struct {
	Timeout time.Duration
	// WaitForConnectivity lets connection setup use the whole request timeout
	// instead of failing fast when the network is unreachable.
	WaitForConnectivity bool
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout, WaitForConnectivity: true})
}

// NewRestyClientWithOptions creates a RestyClient honoring timeout and connectivity settings.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(Options{Timeout: timeout, WaitForConnectivity: true})
}

func newRestyBaseClient(opts Options) *resty.Client {
	opts = normalizeOptions(opts)

	c := resty.New()
	c.SetTimeout(opts.Timeout)
	c.SetTransport(newTransport(opts))
	return c
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

func dialTimeout(opts Options) time.Duration {
	if opts.WaitForConnectivity || opts.Timeout < fastFailDialTimeout {
		return opts.Timeout
	}
	return fastFailDialTimeout
}

func newTransport(opts Options) *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{
		Timeout:   dialTimeout(opts),
		KeepAlive: 30 * time.Second,
	}).DialContext
	return tr
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
