package httpclient

import (
	"context"
	"errors"
	"testing"
)

type memCache struct {
	entries map[string][]byte
	getErr  error
	putErr  error
}

func (m *memCache) CachedResponse(key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	body, ok := m.entries[key]
	return body, ok, nil
}

func (m *memCache) StoreResponse(key string, body []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = body
	return nil
}

type stubResponse struct {
	body   []byte
	status int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

type countingClient struct {
	calls int
	resp  stubResponse
	err   error
}

func (c *countingClient) Get(context.Context, string, map[string]string) (Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func TestCachingClientServesSecondCallFromCache(t *testing.T) {
	next := &countingClient{resp: stubResponse{body: []byte(`{"ok":true}`), status: 200}}
	cache := &memCache{}
	client := NewCachingClient(next, cache, nil)

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), "https://example.com/a?api_key=secret", nil)
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if string(resp.Body()) != `{"ok":true}` || resp.StatusCode() != 200 {
			t.Fatalf("unexpected response %q %d", resp.Body(), resp.StatusCode())
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 network call, got %d", next.calls)
	}
	for key := range cache.entries {
		if key != CacheKey("https://example.com/a?api_key=secret") {
			t.Fatalf("unexpected cache key %q", key)
		}
	}
}

func TestCachingClientSkipsErrorStatuses(t *testing.T) {
	next := &countingClient{resp: stubResponse{body: []byte("missing"), status: 404}}
	cache := &memCache{}
	client := NewCachingClient(next, cache, nil)

	_, _ = client.Get(context.Background(), "https://example.com/missing", nil)
	_, _ = client.Get(context.Background(), "https://example.com/missing", nil)

	if next.calls != 2 {
		t.Fatalf("expected error responses to bypass cache, got %d calls", next.calls)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected nothing cached, got %d entries", len(cache.entries))
	}
}

func TestCachingClientFallsBackWhenCacheFails(t *testing.T) {
	next := &countingClient{resp: stubResponse{body: []byte("{}"), status: 200}}
	client := NewCachingClient(next, &memCache{getErr: errors.New("disk gone")}, nil)

	if _, err := client.Get(context.Background(), "https://example.com/x", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected network call, got %d", next.calls)
	}
}

func TestWithCachePolicy(t *testing.T) {
	next := &countingClient{}

	got, err := WithCachePolicy(next, &memCache{}, "reload", nil)
	if err != nil || got != Client(next) {
		t.Fatalf("reload policy should return next unchanged, got %T err=%v", got, err)
	}

	got, err = WithCachePolicy(next, nil, CachePolicyReturnCacheElseLoad, nil)
	if err != nil || got != Client(next) {
		t.Fatalf("nil cache should disable caching, got %T err=%v", got, err)
	}

	got, err = WithCachePolicy(next, &memCache{}, " Return_Cache_Else_Load ", nil)
	if err != nil {
		t.Fatalf("WithCachePolicy: %v", err)
	}
	if _, ok := got.(*CachingClient); !ok {
		t.Fatalf("expected *CachingClient, got %T", got)
	}

	if _, err := WithCachePolicy(next, nil, "forever", nil); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) WarnObj(msg, _ string, _ interface{}) {
	r.warnings = append(r.warnings, msg)
}

func TestCachingClientHonoursCancelledContextOnHit(t *testing.T) {
	next := &countingClient{resp: stubResponse{body: []byte("{}"), status: 200}}
	cache := &memCache{}
	client := NewCachingClient(next, cache, nil)
	if _, err := client.Get(context.Background(), "https://example.com/hit", nil); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := client.Get(ctx, "https://example.com/hit", nil)
	if !errors.Is(err, context.Canceled) || resp != nil {
		t.Fatalf("expected context.Canceled, got resp=%v err=%v", resp, err)
	}
	if next.calls != 1 {
		t.Fatalf("expected no extra network call, got %d", next.calls)
	}
}

func TestCachingClientLogsCacheFailures(t *testing.T) {
	next := &countingClient{resp: stubResponse{body: []byte("{}"), status: 200}}
	log := &recordingLogger{}
	client := NewCachingClient(next, &memCache{getErr: errors.New("disk gone"), putErr: errors.New("disk full")}, log)

	if _, err := client.Get(context.Background(), "https://example.com/x", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(log.warnings) != 2 || log.warnings[0] != "response cache read failed" || log.warnings[1] != "response cache write failed" {
		t.Fatalf("unexpected warnings %v", log.warnings)
	}
}
