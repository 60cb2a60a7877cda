package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/platform/cache"
	"cocoa_backend/internal/platform/logger"
)

// RateLimit allows limit requests per client IP per window. It relies on
// chi's RealIP running first. Counter errors let the request through.
func RateLimit(counter cache.WindowCounter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)
			n, err := counter.Hit(r.Context(), key, window)
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if n > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				common.RespondWithServiceError(w, r, common.NewError(common.ErrTooManyRequests, "Too many requests, try again later"))
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
