// Package ratelimit holds the quota backends consulted by the HTTP rate gate.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the verdict for one request. Limit, Remaining and Reset are
// informational and may be zero when the backend does not report them.
type Decision struct {
	Success   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a request identified by key may proceed.
// An error means no decision could be made; it is neither allow nor deny.
type Limiter interface {
	Limit(ctx context.Context, key string) (Decision, error)
}
