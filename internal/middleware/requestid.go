package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"

	// ClientRequestIDKey holds the caller's own X-Request-ID, if it sent one.
	ClientRequestIDKey = "client_request_id"
)

// RequestID assigns every request a fresh server-side UUID and echoes it in
// the response. A caller-supplied X-Request-ID is kept for the access log
// only; it never becomes the canonical ID.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			if len(clientID) > 128 {
				clientID = clientID[:128]
			}
			log.WithFields(logrus.Fields{
				RequestIDKey:       id,
				ClientRequestIDKey: clientID,
			}).Debug("client request id mapped to server id")
			c.Set(ClientRequestIDKey, clientID)
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request once the handler chain
// has finished.
func AccessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, ok := c.Get(RequestIDKey); ok {
			fields[RequestIDKey] = rid
		}
		if cid := c.GetString(ClientRequestIDKey); cid != "" {
			fields[ClientRequestIDKey] = cid
		}
		if regNo := c.GetString(RegNoKey); regNo != "" {
			fields["reg_no"] = regNo
		}

		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
