package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Get(context.Background(), srv.URL, map[string]string{"Accept": "application/json"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRestyClient(5*time.Second).Get(ctx, srv.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDialTimeout(t *testing.T) {
	if got := dialTimeout(Options{Timeout: 30 * time.Second, WaitForConnectivity: true}); got != 30*time.Second {
		t.Fatalf("waiting dial timeout = %s", got)
	}
	if got := dialTimeout(Options{Timeout: 30 * time.Second}); got != fastFailDialTimeout {
		t.Fatalf("fast-fail dial timeout = %s", got)
	}
	if got := dialTimeout(Options{Timeout: time.Second}); got != time.Second {
		t.Fatalf("short timeout should cap dial, got %s", got)
	}
	if got := normalizeOptions(Options{}).Timeout; got != DefaultTimeout {
		t.Fatalf("default timeout = %s", got)
	}
}
