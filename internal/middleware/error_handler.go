package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plume-backend/internal/dto/result"
)

// ErrorHandler logs handler errors attached to the context and renders the
// uniform failure envelope when no response was written yet.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if log != nil {
			log.Error("request failed",
				zap.String("requestId", GetRequestID(c)),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, result.Fail(err.Error()))
		}
	}
}
