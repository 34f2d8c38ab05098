// Package validation provides input validation middleware for the Paylater API.
package validation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20 // 1MB

// MaxNameLength is the maximum length for user names
const MaxNameLength = 200

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidUserName checks that a user name is non-empty, within length
// bounds, and free of control characters.
func IsValidUserName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// SanitizeString removes dangerous characters and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return s
}

// NameParamMiddleware validates the :name URL parameter on routes that use it.
// Apply to route groups that include :name params to reject malformed names early.
func NameParamMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if name != "" && !IsValidUserName(name) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_name",
				"message": "name must be non-empty printable text up to 200 characters",
			})
			return
		}
		c.Next()
	}
}
