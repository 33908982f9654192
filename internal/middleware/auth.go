package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// RegNoKey is the gin context key for the registration id a webhook token
	// was issued to.
	RegNoKey = "reg_no"

	// TokenKey is the gin context key for the authenticated webhook token.
	TokenKey = "webhook_token"
)

// authTimingFloor is the minimum response time for rejected credentials so
// that valid and invalid tokens cannot be told apart by latency.
const authTimingFloor = 20 * time.Millisecond

// TokenLookup resolves an issued webhook token to its registration id.
type TokenLookup interface {
	LookupToken(token string) (regNo string, ok bool)
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// WebhookAuth authenticates webhook submissions. The Authorization header must
// carry an issued token verbatim, with no scheme prefix. Failed attempts are
// counted per client IP by guard, if one is given.
func WebhookAuth(lookup TokenLookup, log *logrus.Logger, guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := c.GetHeader("Authorization")
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing authorization header")
			return
		}

		regNo, ok := lookup.LookupToken(token)
		if !ok {
			logAuthFailure(log, c, token)

			if guard != nil {
				guard.RecordFailure(c.ClientIP())
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}

		if guard != nil {
			guard.Reset(c.ClientIP())
		}

		c.Set(RegNoKey, regNo)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// logAuthFailure logs a rejected token without revealing it.
func logAuthFailure(log *logrus.Logger, c *gin.Context, token string) {
	log.WithFields(logrus.Fields{
		"client_ip":    c.ClientIP(),
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"user_agent":   c.Request.UserAgent(),
		RequestIDKey:   c.GetString(RequestIDKey),
		"token_prefix": truncateKey(token),
	}).Warn("webhook authentication failed")
}
