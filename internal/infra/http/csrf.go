package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	csrfCookieName = "ct_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

// requireCSRF rejects state-mutating requests whose anti-forgery header
// does not match the cookie-carried secret. It runs before any guard so a
// forged request never triggers auth lookups. The denial is the same
// generic 403 as every other policy failure.
func requireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		secret, err := c.Cookie(csrfCookieName)
		if err != nil || secret == "" {
			writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
			return
		}
		token := strings.TrimSpace(c.GetHeader(csrfHeaderName))
		if token == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(token)) != 1 {
			writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
			return
		}
		c.Next()
	}
}
