package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles batch analysis throughput
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter. Zero or negative requestsPerSecond
// disables throttling.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until the next analysis may run
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an analysis may run without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
