// Package auth provides API key authentication for write endpoints.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyAuthenticated marks a request that presented a valid key.
const ContextKeyAuthenticated = "authenticated"

// Middleware validates the configured static API key. Keys are accepted
// from the X-API-Key header or an Authorization: Bearer header. An empty
// configured key disables authentication entirely.
func Middleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Set(ContextKeyAuthenticated, true)
			c.Next()
			return
		}

		presented := c.GetHeader("X-API-Key")
		if presented == "" {
			header := c.GetHeader("Authorization")
			presented = strings.TrimPrefix(header, "Bearer ")
		}

		if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) == 1 {
			c.Set(ContextKeyAuthenticated, true)
		}

		c.Next()
	}
}

// RequireAuth rejects requests that did not present a valid key.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextKeyAuthenticated); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "API key required. Include 'X-API-Key' or 'Authorization: Bearer' header.",
			})
			return
		}
		c.Next()
	}
}
