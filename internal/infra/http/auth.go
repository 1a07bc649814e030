package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authContextKey  = "auth_context"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

func (s *Server) requireAdmin() gin.HandlerFunc {
	return s.guarded(func() *usecase.Guard { return s.adminGuard })
}

func (s *Server) requireClient() gin.HandlerFunc {
	return s.guarded(func() *usecase.Guard { return s.clientGuard })
}

// guarded runs the guard pipeline with the identity-keyed rate limit gated
// in, then publishes the authorized context for the handler. Downstream
// handlers trust the context without re-checking identity.
func (s *Server) guarded(guard func() *usecase.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		g := guard()
		if g == nil {
			writeErrorCode(c, http.StatusInternalServerError, "AUTH_CONFIG_ERROR", "internal error")
			return
		}
		authCtx, err := g.AuthorizeGated(c.Request.Context(), c.GetHeader("Authorization"), s.rateLimitGate(c))
		if err != nil {
			s.writeGuardError(c, err)
			return
		}
		c.Set(authContextKey, authCtx)
		c.Next()
	}
}

func authContext(c *gin.Context) (domain.AuthContext, bool) {
	raw, ok := c.Get(authContextKey)
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return domain.AuthContext{}, false
	}
	authCtx, ok := raw.(domain.AuthContext)
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return domain.AuthContext{}, false
	}
	return authCtx, true
}

// writeGuardError maps a guard failure onto the wire. The response body is
// deliberately generic; the internal code and cause go to the log only.
func (s *Server) writeGuardError(c *gin.Context, err error) {
	code := ""
	if access, ok := domain.IsAccessError(err); ok {
		code = access.Code
	}
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		s.logger.Debug("request unauthenticated",
			"code", code, "request_id", requestID(c))
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid credential")
	case errors.Is(err, domain.ErrForbidden):
		s.logger.Info("request forbidden",
			"code", code, "request_id", requestID(c))
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, domain.ErrRateLimited):
		s.logger.Info("request rate limited",
			"code", code, "request_id", requestID(c))
		if code == "" {
			code = "RATE_LIMITED"
		}
		writeErrorCode(c, http.StatusTooManyRequests, code, "too many requests")
	default:
		s.logger.Error("guard failure",
			"code", code, "error", err.Error(), "request_id", requestID(c))
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	if raw, ok := c.Get(requestIDKey); ok {
		if id, ok := raw.(string); ok {
			return id
		}
	}
	return strings.TrimSpace(c.GetHeader(requestIDHeader))
}
