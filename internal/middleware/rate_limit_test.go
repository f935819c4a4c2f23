package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baharkarakas/wallet-api/internal/ratelimit"
)

type limiterFunc func(ctx context.Context, key string) (ratelimit.Decision, error)

func (f limiterFunc) Limit(ctx context.Context, key string) (ratelimit.Decision, error) {
	return f(ctx, key)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitAllows(t *testing.T) {
	reset := time.UnixMilli(1_700_000_060_000)
	l := limiterFunc(func(ctx context.Context, key string) (ratelimit.Decision, error) {
		return ratelimit.Decision{Success: true, Limit: 10, Remaining: 9, Reset: reset}, nil
	})
	var called bool
	w := httptest.NewRecorder()
	RateLimit(l, StaticKey("k"), time.Second)(okHandler(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called || w.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "10" || w.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Errorf("unexpected quota headers %v", w.Header())
	}
	if w.Header().Get("X-RateLimit-Reset") != "1700000060000" {
		t.Errorf("unexpected reset header %q", w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimitDenies(t *testing.T) {
	l := limiterFunc(func(ctx context.Context, key string) (ratelimit.Decision, error) {
		return ratelimit.Decision{Success: false}, nil
	})
	var called bool
	w := httptest.NewRecorder()
	RateLimit(l, StaticKey("k"), 0)(okHandler(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Fatal("handler ran despite denial")
	}
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if want := `{"error":"Too many requests, please try again later."}` + "\n"; w.Body.String() != want {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if w.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("no quota headers without a limit")
	}
}

func TestRateLimitErrorIsNotADecision(t *testing.T) {
	l := limiterFunc(func(ctx context.Context, key string) (ratelimit.Decision, error) {
		return ratelimit.Decision{Success: true}, errors.New("network down")
	})
	var called bool
	w := httptest.NewRecorder()
	RateLimit(l, StaticKey("k"), time.Second)(okHandler(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Fatal("handler ran on limiter error")
	}
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRateLimitAppliesTimeout(t *testing.T) {
	l := limiterFunc(func(ctx context.Context, key string) (ratelimit.Decision, error) {
		<-ctx.Done()
		return ratelimit.Decision{}, ctx.Err()
	})
	var called bool
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		RateLimit(l, StaticKey("k"), 10*time.Millisecond)(okHandler(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("limiter call was not bounded")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	if got := StaticKey("my-rate-limit")(r); got != "my-rate-limit" {
		t.Errorf("static key: %q", got)
	}
	if got := ClientIPKey("rl")(r); got != "rl:192.0.2.7" {
		t.Errorf("remote addr key: %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIPKey("rl")(r); got != "rl:203.0.113.9" {
		t.Errorf("forwarded key: %q", got)
	}
}

func TestExceptSkipsListedPaths(t *testing.T) {
	var limited int
	l := limiterFunc(func(ctx context.Context, key string) (ratelimit.Decision, error) {
		limited++
		return ratelimit.Decision{Success: false}, nil
	})
	var called bool
	h := Except(RateLimit(l, StaticKey("k"), 0), "/metrics")(okHandler(&called))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !called || w.Code != http.StatusNoContent || limited != 0 {
		t.Fatalf("/metrics should bypass the gate: code=%d limited=%d", w.Code, limited)
	}

	called = false
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/extra", nil))
	if called || w.Code != http.StatusTooManyRequests || limited != 1 {
		t.Fatalf("other paths must be gated: code=%d limited=%d", w.Code, limited)
	}
}
