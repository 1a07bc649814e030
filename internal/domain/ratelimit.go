package domain

import (
	"context"
	"time"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimitPolicy struct {
	MaxRequests   int
	WindowSeconds int
	KeyPrefix     string
}

func (p RateLimitPolicy) Window() time.Duration {
	if p.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(p.WindowSeconds) * time.Second
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}
