package handler

import (
	"net/http"

	"strmly/internal/services"
	"strmly/internal/transport/httpdto"
	strmly_errors "strmly/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to the envelope. Server side causes are
// attached to the gin context for logging and never sent to the client.
func writeError(c *gin.Context, err error, serverMessage string) {
	if ve, ok := strmly_errors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(ve.Error(), ve.Fields...))
		return
	}
	if strmly_errors.IsStorage(err) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(services.MsgStorageUnavailable))
		return
	}

	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, httpdto.NewErrorResponse(serverMessage))
		return
	}
	c.JSON(status, httpdto.NewErrorResponse(clientMessage(status, err)))
}

func clientMessage(status int, err error) string {
	switch status {
	case http.StatusUnauthorized:
		return "Invalid credentials"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Duplicate field value entered"
	case http.StatusTooManyRequests:
		return "Too many requests"
	default:
		return err.Error()
	}
}
