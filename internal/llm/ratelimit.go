package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMin keeps a single run comfortably inside the
// free-tier quotas of both backends.
const DefaultRequestsPerMin = 60

// Limiter throttles oracle calls proactively so a large diff with many
// escalations cannot exhaust the provider quota mid-run. Single-process
// token bucket; one gate run is one process.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerMin calls per
// minute with a burst of one
func NewLimiter(requestsPerMin int) *Limiter {
	if requestsPerMin <= 0 {
		requestsPerMin = DefaultRequestsPerMin
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMin)), 1),
	}
}

// Wait blocks until a call slot is available or the context is done
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
