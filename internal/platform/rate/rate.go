// Package rate provides the per-upstream request limiter used by the HTTP client.
// It is a thin layer over golang.org/x/time/rate with nil-safe methods, so a
// source without a documented limit can carry a nil *Limiter.
package rate

import (
	"context"

	xrate "golang.org/x/time/rate"
)

// Limiter controla la tasa de peticiones hacia un upstream.
type Limiter struct {
	lim *xrate.Limiter
}

// New creates a limiter allowing rps requests per second with the given burst.
// Non-positive values fall back to 1.
//
// Example:
//
//	limiter := rate.New(10, 5) // 10 req/s, burst of 5
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{lim: xrate.NewLimiter(xrate.Limit(rps), burst)}
}

// Wait blocks until a token is available or ctx is done.
// A nil limiter never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.lim.Wait(ctx)
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.lim.Allow()
}

// Rate returns the current rate limit (tokens per second); 0 for a nil limiter.
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	return float64(l.lim.Limit())
}

// Burst returns the current burst size; 0 for a nil limiter.
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	return l.lim.Burst()
}
