package handler

import (
	"context"
	"net/http"
	"time"

	"strmly/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	MediaStore  string    `json:"mediaStore,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type HealthHandler struct {
	ping        func(ctx context.Context) error
	environment string
	mediaStore  string
}

func NewHealthHandler(ping func(ctx context.Context) error, environment, mediaStore string) *HealthHandler {
	return &HealthHandler{ping: ping, environment: environment, mediaStore: mediaStore}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	res := HealthResponse{
		Status:      "OK",
		Environment: h.environment,
		MediaStore:  h.mediaStore,
		Timestamp:   time.Now().UTC(),
	}
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			_ = c.Error(err)
			res.Status = "DEGRADED"
			c.JSON(http.StatusServiceUnavailable, httpdto.Response[HealthResponse]{Success: false, Message: "Database unavailable", Data: res})
			return
		}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Server is running", res))
}
