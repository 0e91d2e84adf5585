package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"strmly/internal/services"
	"strmly/internal/transport/httpdto"
	strmly_errors "strmly/pkg/errors"
	"strmly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to a user and attaches its id and name to the request context.
func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Access denied. No token provided."))
			return
		}

		u, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, strmly_errors.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Token expired"))
			case errors.Is(err, strmly_errors.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Invalid token"))
			default:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("Server error during authentication"))
			}
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), u.ID, u.Name)
		ctx = context.WithValue(ctx, logger.UserIdKey, u.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
