package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/restnav/internal/transport"
	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger collects log lines for assertions.
type mockLogger struct {
	logs []map[string]interface{}
}

func (l *mockLogger) record(level, msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *mockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *mockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *mockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *mockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func TestClient_Request(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/1/batch", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			_ = json.NewEncoder(writer).Encode(map[string]string{"name": "test"})
		}))
		defer server.Close()

		client := transport.NewClient()

		resp, err := client.Request(context.Background(), "GET", server.URL+"/1/batch", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string
		require.NoError(t, transport.DecodeJSON(resp, &result))
		assert.Equal(t, "test", result["name"])
	})

	t.Run("query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "APIKEY", request.URL.Query().Get("key"))
			assert.Equal(t, "name,desc", request.URL.Query().Get("fields"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := transport.NewClient()

		opts := &restnav.RequestOptions{
			Params: url.Values{
				"key":    []string{"APIKEY"},
				"fields": []string{"name,desc"},
			},
		}

		_, err := client.Request(context.Background(), "GET", server.URL+"/1/boards/B1", opts)
		require.NoError(t, err)
	})

	t.Run("JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "Buy milk", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := transport.NewClient()

		opts := &restnav.RequestOptions{Body: map[string]string{"name": "Buy milk"}}

		resp, err := client.Request(context.Background(), "POST", server.URL+"/1/cards", opts)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("custom headers and user agent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "test-agent", request.Header.Get("User-Agent"))
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := transport.NewClient(transport.WithUserAgent("test-agent"))

		opts := &restnav.RequestOptions{
			Headers: http.Header{"X-Custom": []string{"custom-value"}},
		}

		_, err := client.Request(context.Background(), "GET", server.URL, opts)
		require.NoError(t, err)
	})

	t.Run("non-2xx status passes through without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"not found"}`))
		}))
		defer server.Close()

		client := transport.NewClient(transport.WithRetryConfig(0, time.Millisecond, time.Millisecond))

		resp, err := client.Request(context.Background(), "GET", server.URL+"/1/boards/missing", nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.JSONEq(t, `{"message":"not found"}`, string(resp.Body))
	})

	t.Run("retries server errors", func(t *testing.T) {
		var attempts int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := transport.NewClient(transport.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

		resp, err := client.Request(context.Background(), "GET", server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	})

	t.Run("invalid URL", func(t *testing.T) {
		client := transport.NewClient()

		_, err := client.Request(context.Background(), "GET", "://missing-scheme", nil)
		require.Error(t, err)
	})

	t.Run("connection failure", func(t *testing.T) {
		client := transport.NewClient(transport.WithRetryConfig(0, time.Millisecond, time.Millisecond))

		_, err := client.Request(context.Background(), "GET", "http://127.0.0.1:1", nil)
		require.Error(t, err)
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Run("request interceptor sets header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "intercepted", request.Header.Get("X-Trace"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := transport.NewClient(
			transport.WithRequestInterceptor(transport.NewHeaderInterceptor("X-Trace", "intercepted")),
		)

		_, err := client.Request(context.Background(), "GET", server.URL, nil)
		require.NoError(t, err)
	})

	t.Run("logging interceptors record the exchange", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusTeapot)
		}))
		defer server.Close()

		logger := &mockLogger{}
		client := transport.NewClient(
			transport.WithRetryConfig(0, time.Millisecond, time.Millisecond),
			transport.WithRequestInterceptor(transport.NewLoggingRequestInterceptor(logger)),
			transport.WithResponseInterceptor(transport.NewLoggingResponseInterceptor(logger)),
		)

		_, err := client.Request(context.Background(), "GET", server.URL, nil)
		require.NoError(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "sending request", logger.logs[0]["msg"])
		assert.Equal(t, "received response", logger.logs[1]["msg"])

		fields, ok := logger.logs[1]["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, http.StatusTeapot, fields["status"])
	})

	t.Run("request interceptor failure aborts the call", func(t *testing.T) {
		var served int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&served, 1)
		}))
		defer server.Close()

		client := transport.NewClient(
			transport.WithRequestInterceptor(func(ctx context.Context, req *http.Request) error {
				return assert.AnError
			}),
		)

		_, err := client.Request(context.Background(), "GET", server.URL, nil)
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, int32(0), atomic.LoadInt32(&served))
	})
}

func TestClient_Debug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	logger := &mockLogger{}
	client := transport.NewClient(
		transport.WithDebug(true),
		transport.WithLogger(logger),
	)

	_, err := client.Request(context.Background(), "GET", server.URL, nil)
	require.NoError(t, err)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "http request", logger.logs[0]["msg"])
	assert.Equal(t, "http response", logger.logs[1]["msg"])
}
