package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/ratelimit"
)

// KeyFunc picks the quota bucket a request is charged against.
type KeyFunc func(r *http.Request) string

// StaticKey charges every request to one shared quota.
func StaticKey(key string) KeyFunc {
	return func(*http.Request) string { return key }
}

// ClientIPKey charges each client address separately. The first X-Forwarded-For hop wins over RemoteAddr.
func ClientIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return prefix + ":" + ip
			}
		}
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		return prefix + ":" + host
	}
}

// RateLimit consults the limiter before every request. Denials get 429; a limiter
// failure is not a decision and gets 500. timeout <= 0 leaves the call unbounded.
func RateLimit(l ratelimit.Limiter, key KeyFunc, timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			d, err := l.Limit(ctx, key(r))
			if err != nil {
				metrics.RateLimitErrors.Inc()
				slog.Error("rate limiter", "err", err, "request_id", RequestIDFrom(r.Context()))
				httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgInternal)
				return
			}

			setQuotaHeaders(w.Header(), d)
			if !d.Success {
				metrics.RateLimitDenied.Inc()
				httpx.WriteError(w, http.StatusTooManyRequests, httpx.MsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Except applies mw to every request except those whose path is one of paths.
func Except(mw func(http.Handler) http.Handler, paths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

func setQuotaHeaders(h http.Header, d ratelimit.Decision) {
	if d.Limit <= 0 {
		return
	}
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if !d.Reset.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.UnixMilli(), 10))
	}
}
