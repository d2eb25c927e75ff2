package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/seshat-app/ingredients/backend/internal/api"
)

var panicRecoveries = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ingredients_http_panic_recoveries_total",
		Help: "Panics recovered by the HTTP server",
	},
)

// ErrorHandler recovers panics raised by later handlers and answers with the
// same error envelope the handlers use
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				panicRecoveries.Inc()
				err := errors.Errorf("panic: %v", r)
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", err,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorBody("Internal error.", err))
			}
		}()
		c.Next()
	}
}
