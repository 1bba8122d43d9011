package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/ddipendrac/mystery-message/pkg/ratelimit"
	log "github.com/sirupsen/logrus"
)

// RateLimitMiddleware limits anonymous requests per client IP using the
// given check function (one of the Limiter's Allow methods). A nil limiter
// disables limiting entirely.
func RateLimitMiddleware(check func(r *http.Request, ip string) (*ratelimit.Result, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if check == nil {
				next.ServeHTTP(w, r)
				return
			}

			result, err := check(r, clientIP(r))
			if err != nil {
				// Fail open: a broken limiter must not take the API down.
				log.WithError(err).Warn("Rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))

			if !result.Allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "Too many requests, please slow down",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The header may carry the whole proxy chain; the first entry is
		// the originating client.
		if i := strings.Index(forwarded, ","); i >= 0 {
			forwarded = forwarded[:i]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
