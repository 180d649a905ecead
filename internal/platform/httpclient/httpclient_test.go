// internal/platform/httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"overseerx/internal/platform/errors"
	"overseerx/internal/platform/logx"
	"overseerx/internal/testutil"
)

func newClient(cfg Config) *Client {
	return New(cfg, logx.NewSilent())
}

func TestFetchJSON(t *testing.T) {
	var gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, err := newClient(DefaultConfig()).FetchJSON(context.Background(), server.URL)
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, string(body), `{"ok":true}`, "body")
	testutil.AssertEqual(t, gotAccept, "application/json", "accept header")
	testutil.AssertContains(t, gotUA, "overseerx", "user agent set")
}

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("host.example.com,1.2.3.4\n"))
	}))
	defer server.Close()

	body, err := newClient(DefaultConfig()).FetchText(context.Background(), server.URL)
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertContains(t, string(body), "host.example.com", "plain text body")
}

func TestPostJSON(t *testing.T) {
	var gotMethod, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newClient(DefaultConfig()).PostJSON(context.Background(), server.URL, nil)
	testutil.AssertNoError(t, err, "post")
	testutil.AssertEqual(t, gotMethod, http.MethodPost, "method")
	testutil.AssertEqual(t, gotContentType, "application/json", "content type")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, errors.ErrRateLimit},
		{"not found", http.StatusNotFound, errors.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, errors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, errors.ErrUnauthorized},
		{"unavailable", http.StatusServiceUnavailable, errors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newClient(DefaultConfig()).FetchJSON(context.Background(), server.URL)
			testutil.AssertError(t, err, "status surfaces as error")
			testutil.AssertTrue(t, errors.Is(err, tt.sentinel), "mapped to sentinel")
		})
	}
}

func TestRetry_RetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryBackoff = time.Millisecond

	body, err := newClient(cfg).FetchJSON(context.Background(), server.URL)
	testutil.AssertNoError(t, err, "recovered after retries")
	testutil.AssertEqual(t, string(body), `{}`, "final body")
	testutil.AssertEqual(t, int(calls.Load()), 3, "two failures plus one success")
}

func TestRetry_DisabledByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	// CT clients run with MaxRetries=0: exactly one outbound request
	_, err := newClient(DefaultConfig()).FetchJSON(context.Background(), server.URL)

	testutil.AssertError(t, err, "failure surfaces")
	testutil.AssertEqual(t, int(calls.Load()), 1, "single request, no retries")
}

func TestRetry_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryBackoff = time.Millisecond

	_, err := newClient(cfg).FetchJSON(context.Background(), server.URL)
	testutil.AssertError(t, err, "404 surfaces")
	testutil.AssertEqual(t, int(calls.Load()), 1, "404 is not retried")
}

func TestRequest_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newClient(DefaultConfig()).FetchJSON(ctx, server.URL)
	testutil.AssertError(t, err, "cancelled request errors")
}

func TestRateLimit_PacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.RateLimit = 50 // 20ms between requests
	client := newClient(cfg)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.FetchJSON(ctx, server.URL)
		testutil.AssertNoError(t, err, "paced fetch")
	}

	testutil.AssertTrue(t, time.Since(start) >= 30*time.Millisecond, "requests were paced")
}

func TestCheckStatus(t *testing.T) {
	testutil.AssertError(t, CheckStatus(nil), "nil response rejected")

	ok := &http.Response{StatusCode: 204}
	testutil.AssertNoError(t, CheckStatus(ok), "2xx passes")
}
