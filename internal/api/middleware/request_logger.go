package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobtrack/internal/utils"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger tags each request with an id (reusing the client's
// X-Request-Id, which the CLI sends) and logs one line when it finishes.
// Failed writes carry the application id and the AppError code.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)
		c.Set("request_id", reqID)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"route":      c.FullPath(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		if id := c.Param("id"); id != "" {
			fields["application_id"] = id
		}
		if last := c.Errors.Last(); last != nil {
			fields["error_code"] = utils.CodeOf(last.Err, utils.CodeInternal)
			fields["error"] = last.Err.Error()
		}
		entry := l.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		case c.FullPath() == "/ping":
			entry.Debug("ping")
		default:
			entry.Info("request")
		}
	}
}
