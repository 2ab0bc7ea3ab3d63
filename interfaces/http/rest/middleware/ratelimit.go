package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"insightseo/pkg/errors"
	"insightseo/pkg/ratelimit"
)

// ErrorWriter renders an error response
type ErrorWriter interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}

// RateLimit rejects clients that exceed the limiter with 429 and a
// Retry-After header. Clients are keyed by remote IP, so RealIP must run first.
func RateLimit(limiter ratelimit.RateLimiter, requestsPerMinute int, retryAfter time.Duration, errs ErrorWriter) func(next http.Handler) http.Handler {
	retrySeconds := strconv.Itoa(int(math.Ceil(retryAfter.Seconds())))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), "ip:"+clientIP(r))
			if err != nil {
				// Fail open on limiter errors
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", retrySeconds)
				errs.Handle(w, r, errors.NewRateLimitError(requestsPerMinute, "minute"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
