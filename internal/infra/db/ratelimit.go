package db

import (
	"context"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"gorm.io/gorm"
)

// RateLimiter counts requests in postgres so the bound holds across
// instances. The upsert below is one statement: the database serializes
// concurrent increments on the same key, so two requests can never both
// observe an under-limit counter.
type RateLimiter struct {
	db *gorm.DB
}

func NewRateLimiter(db *gorm.DB) *RateLimiter {
	return &RateLimiter{db: db}
}

const rateLimitUpsert = `
INSERT INTO rate_limit_buckets (key, count, window_end)
VALUES (?, 1, now() + make_interval(secs => ?))
ON CONFLICT (key) DO UPDATE SET
  count = CASE WHEN rate_limit_buckets.window_end <= now()
               THEN 1
               ELSE rate_limit_buckets.count + 1 END,
  window_end = CASE WHEN rate_limit_buckets.window_end <= now()
                    THEN excluded.window_end
                    ELSE rate_limit_buckets.window_end END
RETURNING count, window_end`

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	if r.db == nil {
		return domain.RateLimitDecision{}, errDBUnavailable
	}

	var (
		count     int64
		windowEnd time.Time
	)
	row := r.db.WithContext(ctx).Raw(rateLimitUpsert, key, window.Seconds()).Row()
	if err := row.Scan(&count, &windowEnd); err != nil {
		return domain.RateLimitDecision{}, err
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   windowEnd,
	}, nil
}
