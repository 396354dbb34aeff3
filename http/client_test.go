package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/civicmeet/civicmeet"
	cmhttp "github.com/civicmeet/civicmeet/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetryPolicy keeps tests quick while preserving the attempt budget.
func fastRetryPolicy(attempts int) cmhttp.RetryPolicy {
	p := cmhttp.DefaultRetryPolicy()
	p.MaxAttempts = attempts
	p.InitialInterval = time.Millisecond
	p.MaxInterval = 5 * time.Millisecond
	return p
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte("<html>hello</html>"))
		}))
		defer server.Close()

		client := cmhttp.NewClient()
		body, err := client.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>hello</html>", body)
	})

	t.Run("sends user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			ua = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		client := cmhttp.NewClient(cmhttp.WithUserAgent("test-agent/1.0"))
		_, err := client.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", ua)
	})
}

func TestClient_RetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := cmhttp.NewClient(cmhttp.WithRetryPolicy(fastRetryPolicy(4)))
	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusTooManyRequests)
	}))
	defer server.Close()

	client := cmhttp.NewClient(cmhttp.WithRetryPolicy(fastRetryPolicy(4)))
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, civicmeet.EUNAVAILABLE, civicmeet.ErrorCode(err))
	assert.Equal(t, int32(4), calls.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusNotFound)
	}))
	defer server.Close()

	client := cmhttp.NewClient(cmhttp.WithRetryPolicy(fastRetryPolicy(4)))
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, civicmeet.EUNAVAILABLE, civicmeet.ErrorCode(err))
	assert.Equal(t, int32(1), calls.Load(), "4xx responses other than 429 are not retried")
}

func TestClient_RespectsContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	client := cmhttp.NewClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, server.URL)
	require.Error(t, err)
}

func TestClient_Download(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 data"))
	}))
	defer server.Close()

	client := cmhttp.NewClient()
	data, contentType, err := client.Download(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4 data"), data)
}

func TestClient_GetJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte(`{"value":[],"@odata.nextLink":""}`))
		}))
		defer server.Close()

		client := cmhttp.NewClient()
		var out struct {
			Value    []any  `json:"value"`
			NextLink string `json:"@odata.nextLink"`
		}
		require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
		assert.Empty(t, out.NextLink)
	})

	t.Run("malformed body is EINVALID", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := cmhttp.NewClient()
		var out map[string]any
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.Error(t, err)
		assert.Equal(t, civicmeet.EINVALID, civicmeet.ErrorCode(err))
	})
}

func TestClient_PostJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := cmhttp.NewClient()
	var out struct {
		Data []any `json:"data"`
	}
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"start": "2025-03-01"}, &out)
	require.NoError(t, err)
}
