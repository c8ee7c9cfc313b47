package transport

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/restnav/pkg/restnav"
)

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor is called after a response body has been read.
type ResponseInterceptor func(ctx context.Context, req *http.Request, resp *restnav.Response) error

// NewLoggingRequestInterceptor logs outgoing requests.
func NewLoggingRequestInterceptor(logger restnav.Logger) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		logger.Info("sending request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})

		return nil
	}
}

// NewLoggingResponseInterceptor logs received responses.
func NewLoggingResponseInterceptor(logger restnav.Logger) ResponseInterceptor {
	return func(ctx context.Context, req *http.Request, resp *restnav.Response) error {
		logger.Info("received response", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
			"status": resp.StatusCode,
		})

		return nil
	}
}

// NewHeaderInterceptor force-sets one header on every request.
func NewHeaderInterceptor(key, value string) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		req.Header.Set(key, value)

		return nil
	}
}
