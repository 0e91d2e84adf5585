package httpdto

import strmly_errors "strmly/pkg/errors"

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    T                          `json:"data,omitempty"`
	Errors  []strmly_errors.FieldError `json:"errors,omitempty"`
}

func NewSuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string, fields ...strmly_errors.FieldError) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
		Errors:  fields,
	}
}
