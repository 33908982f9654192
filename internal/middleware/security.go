package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders returns Gin middleware that sets the response headers a
// JSON-only API needs. The sandbox listens on plain HTTP, so no HSTS.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
