package middleware

import (
	"context"
	"net/http"
	"strconv"

	"strmly/internal/redis"
	"strmly/internal/services"
	"strmly/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type limitFunc func(ctx context.Context, key string) (*redis.RateLimitResult, error)

// GeneralRateLimit limits every request per client IP. A nil limiter disables it.
func GeneralRateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return passThrough
	}
	return rateLimit(limiter.AllowGeneral, ipKey, "Too many requests from this IP, please try again later.")
}

// AuthRateLimit limits signup and login attempts per client IP.
func AuthRateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return passThrough
	}
	return rateLimit(limiter.AllowAuth, ipKey, "Too many authentication attempts, please try again later.")
}

// UploadRateLimit limits uploads per user. It must run after AuthMiddleware.
func UploadRateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return passThrough
	}
	return rateLimit(limiter.AllowUpload, userKey, "Upload limit exceeded, please try again later.")
}

func rateLimit(allow limitFunc, key func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()
			return
		}

		result, err := allow(c.Request.Context(), k)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error"))
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(message))
			return
		}

		c.Next()
	}
}

func ipKey(c *gin.Context) string {
	return c.ClientIP()
}

func userKey(c *gin.Context) string {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		return ""
	}
	return userID.String()
}

func passThrough(c *gin.Context) {
	c.Next()
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
