package middleware

import (
	"time"

	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured line per request. Errors attached
// with c.Error are included.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
			"role":    session.IdentityFrom(c).String(),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.WithField("errors", c.Errors.String()).Error("request failed")
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Warn("request completed with errors")
		default:
			entry.Info("request")
		}
	}
}
