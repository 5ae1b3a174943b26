package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/venue-analytics-service/internal/logging"
	"github.com/PratikDhanave/venue-analytics-service/internal/metrics"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestContext assigns a request ID, stores it in the request context for
// logging.Ctx, and records one log line and metric sample per request.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = logging.GenerateRequestID()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))

		c.Next()

		// Route templates keep label cardinality bounded.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.RecordAPIRequest(c.Request.Method, endpoint, status, elapsed)

		logging.Ctx(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("endpoint", endpoint).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request served")
	}
}
