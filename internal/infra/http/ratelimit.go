package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/usecase"

	"github.com/gin-gonic/gin"
)

// rateLimitGate builds the guard gate for one request. It runs as soon as
// the caller's identity is known, so a denied request costs one counter read
// and never touches the profile or membership stores.
func (s *Server) rateLimitGate(c *gin.Context) usecase.Gate {
	return func(ctx context.Context, identity domain.Identity) error {
		policy := s.readPolicy
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			policy = s.writePolicy
		}
		if s.rateLimiter == nil || policy.MaxRequests <= 0 {
			return nil
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:user:%s:route:%s %s", policy.KeyPrefix, identity.UserID, c.Request.Method, route)

		decision, err := s.rateLimiter.Allow(ctx, key, policy.MaxRequests, policy.Window())
		if err != nil {
			s.logger.Error("rate limiter unavailable",
				"error", err.Error(), "request_id", requestID(c), "user_id", identity.UserID)
			if s.rateLimitFailClosed {
				return &domain.AccessError{Code: "RATE_LIMIT_UNAVAILABLE", Err: domain.ErrRateLimited}
			}
			return nil
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			return &domain.AccessError{Code: "RATE_LIMITED", Err: domain.ErrRateLimited}
		}
		return nil
	}
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds() + 0.999)
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
