package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ResolveOrigin returns a validated origin for response headers. An Origin
// header is echoed only when it matches the allow-list exactly. Forwarded
// headers are attacker-controllable, so the origin they describe is used
// only if it also matches the allow-list. Anything else falls back to the
// site's own canonical origin; the function never fails.
func ResolveOrigin(h http.Header, allowed []string, fallback string) string {
	if origin := strings.TrimSpace(h.Get("Origin")); origin != "" && originAllowed(origin, allowed) {
		return origin
	}

	proto := firstForwardedToken(h.Get("X-Forwarded-Proto"))
	host := firstForwardedToken(h.Get("X-Forwarded-Host"))
	if proto != "" && host != "" {
		if candidate := proto + "://" + host; originAllowed(candidate, allowed) {
			return candidate
		}
	}

	if fallback != "" {
		return fallback
	}
	return "http://localhost:3000"
}

func originAllowed(origin string, allowed []string) bool {
	for _, entry := range allowed {
		if origin == entry {
			return true
		}
	}
	return false
}

// Forwarded headers may carry a comma-separated chain; only the first hop
// is considered.
func firstForwardedToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if idx := strings.IndexByte(raw, ','); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := ResolveOrigin(c.Request.Header, s.cfg.AllowedOrigins, s.cfg.SiteOrigin)
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
