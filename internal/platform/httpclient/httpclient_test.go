package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/testutil"
)

func TestNew(t *testing.T) {
	logger := logx.Discard()

	t.Run("applies defaults for zero values", func(t *testing.T) {
		client := New(Config{}, logger)

		testutil.AssertEqual(t, client.config.Timeout, 15*time.Second, "should use default timeout")
		testutil.AssertEqual(t, client.config.UserAgent, DefaultUserAgent, "should use default user agent")
		testutil.AssertEqual(t, client.config.RateLimitBurst, 1, "should use default burst")
	})

	t.Run("creates rate limiter when configured", func(t *testing.T) {
		client := New(Config{RateLimit: 10, RateLimitBurst: 5}, logger)
		testutil.AssertTrue(t, client.rateLimiter != nil, "rate limiter should be created")
	})

	t.Run("does not create rate limiter when disabled", func(t *testing.T) {
		client := New(Config{}, logger)
		testutil.AssertTrue(t, client.rateLimiter == nil, "rate limiter should not be created")
	})
}

func TestClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Header.Get("User-Agent"), "curatorx-test/0.1", "user agent should be set")
		testutil.AssertEqual(t, r.Header.Get("From"), "ops@example.org", "identifying header should be set")
		testutil.AssertEqual(t, r.Header.Get("X-Custom"), "per-request", "per-request header should be set")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Config{
		UserAgent: "curatorx-test/0.1",
		Headers:   map[string]string{"From": "ops@example.org"},
	}, logx.Discard())

	resp, err := client.Get(context.Background(), server.URL, map[string]string{"X-Custom": "per-request"})
	testutil.AssertNoError(t, err, "request should succeed")
	resp.Body.Close()
}

func TestClient_GetJSON(t *testing.T) {
	logger := logx.Discard()

	t.Run("decodes 2xx body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			testutil.AssertEqual(t, r.Header.Get("Accept"), "application/json", "accept header should be set")
			testutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"total": 2, "objectIDs": []int{1, 2}})
		}))
		defer server.Close()

		var out struct {
			Total     int   `json:"total"`
			ObjectIDs []int `json:"objectIDs"`
		}
		err := New(DefaultConfig(), logger).GetJSON(context.Background(), server.URL, nil, &out)
		testutil.AssertNoError(t, err, "GetJSON should succeed")
		testutil.AssertEqual(t, out.Total, 2, "total should decode")
		testutil.AssertEqual(t, len(out.ObjectIDs), 2, "ids should decode")
	})

	t.Run("overrides accept header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			testutil.AssertEqual(t, r.Header.Get("Accept"), "application/ld+json", "accept header should be overridden")
			testutil.WriteJSON(w, http.StatusOK, map[string]string{})
		}))
		defer server.Close()

		var out map[string]string
		err := New(DefaultConfig(), logger).GetJSON(context.Background(), server.URL,
			map[string]string{"Accept": "application/ld+json"}, &out)
		testutil.AssertNoError(t, err, "GetJSON should succeed")
	})

	t.Run("maps malformed body to invalid response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, "{not json")
		}))
		defer server.Close()

		var out map[string]interface{}
		err := New(DefaultConfig(), logger).GetJSON(context.Background(), server.URL, nil, &out)
		testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidResponse), "should be ErrInvalidResponse")
	})

	t.Run("maps status to taxonomy", func(t *testing.T) {
		tests := []struct {
			status int
			kind   error
		}{
			{http.StatusNotFound, errors.ErrUpstreamNotFound},
			{http.StatusUnauthorized, errors.ErrUpstreamAuthFailed},
			{http.StatusForbidden, errors.ErrUpstreamAuthFailed},
			{http.StatusTooManyRequests, errors.ErrUpstreamUnavailable},
			{http.StatusInternalServerError, errors.ErrUpstreamUnavailable},
		}

		for _, tt := range tests {
			t.Run(http.StatusText(tt.status), func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))
				defer server.Close()

				err := New(DefaultConfig(), logger).GetJSON(context.Background(), server.URL, nil, &struct{}{})
				testutil.AssertTrue(t, errors.Is(err, tt.kind), "status should map to its kind")

				var se *errors.StatusError
				testutil.AssertTrue(t, errors.As(err, &se), "should be a StatusError")
				testutil.AssertEqual(t, se.StatusCode, tt.status, "status code should be kept")
			})
		}
	})
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Method, http.MethodPost, "method should be POST")
		testutil.AssertEqual(t, r.Header.Get("Content-Type"), "application/json", "content type should be JSON")

		body, _ := io.ReadAll(r.Body)
		testutil.AssertContains(t, string(body), `"username":"curator"`, "payload should be encoded")
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"token": "abc"})
	}))
	defer server.Close()

	var out struct {
		Token string `json:"token"`
	}
	err := New(DefaultConfig(), logx.Discard()).PostJSON(context.Background(), server.URL,
		map[string]string{"username": "curator"}, nil, &out)
	testutil.AssertNoError(t, err, "PostJSON should succeed")
	testutil.AssertEqual(t, out.Token, "abc", "token should decode")
}

func TestClient_NoTransportRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := New(DefaultConfig(), logx.Discard()).GetJSON(context.Background(), server.URL, nil, &struct{}{})
	testutil.AssertTrue(t, errors.IsUnavailable(err), "should be unavailable")
	testutil.AssertEqual(t, calls.Load(), int32(1), "should make a single attempt")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("client timeout", func(t *testing.T) {
		client := New(Config{Timeout: 10 * time.Millisecond}, logx.Discard())
		_, err := client.Get(context.Background(), server.URL, nil)
		testutil.AssertError(t, err, "should time out")
	})

	t.Run("context deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := New(DefaultConfig(), logx.Discard()).Get(ctx, server.URL, nil)
		testutil.AssertError(t, err, "should honour ctx deadline")
	})
}

func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(Config{RateLimit: 20, RateLimitBurst: 1}, logx.Discard())

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := client.Get(context.Background(), server.URL, nil)
		testutil.AssertNoError(t, err, "request should succeed")
		resp.Body.Close()
	}
	testutil.AssertTrue(t, time.Since(start) >= 90*time.Millisecond, "3 requests at 20 rps should take ~100ms")
}

func TestCheckStatus(t *testing.T) {
	t.Run("2xx is nil", func(t *testing.T) {
		testutil.AssertNoError(t, CheckStatus(&http.Response{StatusCode: http.StatusNoContent}), "204 is ok")
	})

	t.Run("other 4xx is a bare StatusError", func(t *testing.T) {
		err := CheckStatus(&http.Response{StatusCode: http.StatusBadRequest})
		testutil.AssertError(t, err, "400 should fail")
		testutil.AssertFalse(t, errors.IsRetryable(err), "400 is not retryable")
		testutil.AssertFalse(t, errors.IsNotFound(err), "400 is not a not-found")
	})

	t.Run("nil response", func(t *testing.T) {
		testutil.AssertTrue(t, errors.Is(CheckStatus(nil), errors.ErrInvalidResponse), "nil response is invalid")
	})
}
