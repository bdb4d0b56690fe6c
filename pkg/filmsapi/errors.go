package filmsapi

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the client matches exactly one of them with errors.Is.
var (
	ErrInvalidURL = errors.New("invalid url")
	ErrTransport  = errors.New("transport failure")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrDecode     = errors.New("decode response")
)

// InvalidURLError reports a base URL or endpoint path that cannot form a request URL.
type InvalidURLError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidURLError) Error() string {
	msg := fmt.Sprintf("invalid url for path %q: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }
func (e *InvalidURLError) Unwrap() error        { return e.Err }

// TransportError wraps a network level failure (timeout, DNS, TLS, refused, cancelled).
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
func (e *TransportError) Unwrap() error        { return e.Err }

// HTTPStatusError reports a response outside the 2xx range.
type HTTPStatusError struct {
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("request %s returned status %d: %s", e.Path, e.StatusCode, bodySnippet(e.Body))
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// NotFound reports whether the API answered 404.
func (e *HTTPStatusError) NotFound() bool { return e.StatusCode == 404 }

// Unauthorized reports whether the API rejected the key.
func (e *HTTPStatusError) Unauthorized() bool { return e.StatusCode == 401 || e.StatusCode == 403 }

// DecodeError reports a body that could not be decoded into the requested type.
type DecodeError struct {
	Path   string
	Target string
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response into %s: %v", e.Path, e.Target, e.Err)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) Unwrap() error        { return e.Err }

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// errorKind names the kind of err for log fields.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrHTTPStatus):
		return "http_status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}
