// Package ratelimit provides a token-bucket request limiter middleware.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/emailapi"
)

// Limiter caps the request rate shared by all clients of a route.
type Limiter struct {
	lim      *rate.Limiter
	now      func() time.Time
	onReject func()
}

// New returns a Limiter allowing rps requests per second with the given burst.
// rps <= 0 yields a nil Limiter, whose Middleware is a passthrough.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		lim: rate.NewLimiter(rate.Limit(rps), burst),
		now: time.Now,
	}
}

// OnReject registers fn to be called for every rejected request.
func (l *Limiter) OnReject(fn func()) {
	if l != nil {
		l.onReject = fn
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.lim.AllowN(l.now(), 1) {
			if l.onReject != nil {
				l.onReject()
			}
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfter()))
			emailapi.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the whole seconds until one token refills, at least 1.
func (l *Limiter) retryAfter() int {
	secs := int(math.Ceil(1 / float64(l.lim.Limit())))
	if secs < 1 {
		return 1
	}
	return secs
}
