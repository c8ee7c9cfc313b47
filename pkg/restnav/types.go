package restnav

import (
	"context"
	"net/http"
	"net/url"
)

// Transport issues a single HTTP request. The default implementation lives
// in internal/transport; tests and embedders may substitute their own.
//
// A Transport returns a Response for every completed HTTP exchange,
// regardless of status code. Errors are reserved for failures to perform
// the exchange at all (bad URL, connection failure, context cancellation).
type Transport interface {
	Request(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error)
}

// RequestOptions carries the per-request inputs a caller may supply to a
// method dispatch. All fields are optional.
type RequestOptions struct {
	// Params become the query string. The navigator merges the credential
	// key into a copy of this map; the caller's map is never mutated.
	Params url.Values

	// Headers are added to the outgoing request.
	Headers http.Header

	// Body, when non-nil, is JSON-encoded as the request body.
	Body interface{}
}

// Clone returns a deep copy of the options. A nil receiver yields an empty,
// non-nil RequestOptions so callers can merge into it safely.
func (o *RequestOptions) Clone() *RequestOptions {
	clone := &RequestOptions{Params: url.Values{}, Headers: http.Header{}}
	if o == nil {
		return clone
	}

	for k, vs := range o.Params {
		clone.Params[k] = append([]string(nil), vs...)
	}

	for k, vs := range o.Headers {
		clone.Headers[k] = append([]string(nil), vs...)
	}

	clone.Body = o.Body

	return clone
}

// Response is the uninterpreted result of a dispatched request. The
// navigator never inspects StatusCode; branching on it belongs to callers.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
