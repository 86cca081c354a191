package middleware

import (
	"net/http"

	"github.com/mousey-app/dashboard/shared/middleware/ratelimiter"
	"github.com/mousey-app/dashboard/shared/utils"
)

func RateLimit(rl *ratelimiter.Pool, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP keys the pool by client address.
func RateLimitByIP(rl *ratelimiter.Pool) func(http.Handler) http.Handler {
	return RateLimit(rl, utils.GetIP)
}

func GlobalRateLimit(rl *ratelimiter.Pool) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}
