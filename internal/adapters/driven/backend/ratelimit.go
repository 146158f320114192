package backend

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// maxBackoff caps how long a Retry-After can hold requests back.
const maxBackoff = 30 * time.Second

// RateLimiter throttles requests to the backend.
// It combines a token bucket with the backend's Retry-After hints.
type RateLimiter struct {
	bucket *rate.Limiter

	mu         sync.Mutex
	retryAfter time.Time
}

// NewRateLimiter creates a limiter allowing perSecond sustained requests.
// Zero or negative disables the token bucket.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	burst := 0
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &RateLimiter{bucket: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	until := r.retryAfter
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// Observe records a Retry-After hint from a 429 or 503 response.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}
	secs, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter))
	if err != nil || secs <= 0 {
		return
	}
	wait := min(time.Duration(secs)*time.Second, maxBackoff)

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(wait); until.After(r.retryAfter) {
		r.retryAfter = until
	}
}
