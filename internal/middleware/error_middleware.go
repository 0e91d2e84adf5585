package middleware

import (
	"fmt"
	"net/http"

	"strmly/internal/transport/httpdto"
	"strmly/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgServerError = "Server Error"

// ErrorHandler logs errors attached with c.Error and answers with the envelope if nothing was written yet.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		if l != nil {
			for _, e := range c.Errors {
				l.Error(c.Request.Context(), "request error", zap.Error(e.Err))
			}
		}
		if c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, httpdto.NewErrorResponse(msgServerError))
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if l != nil {
			l.Error(c.Request.Context(), "panic recovered",
				zap.String("panic", fmt.Sprint(recovered)),
				zap.String("path", c.Request.URL.Path),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse(msgServerError))
	})
}

// NotFound answers unknown routes with the envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Not found - "+c.Request.URL.Path))
	}
}
