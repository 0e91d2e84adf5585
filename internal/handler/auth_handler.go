// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"errors"
	"net/http"

	"strmly/internal/services"
	"strmly/internal/transport/httpdto"
	strmly_errors "strmly/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *services.AuthService, users *services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Signup handles user registration.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req httpdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), "")
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, strmly_errors.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, httpdto.NewErrorResponse("User already exists with this email"))
			return
		}
		writeError(c, err, "Server error during signup")
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse("User created successfully", toAuthResponse(res)))
}

// Login handles user authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), "")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, strmly_errors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Invalid email or password"))
			return
		}
		writeError(c, err, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Login successful", toAuthResponse(res)))
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Access denied. No token provided."))
		return
	}

	u, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "Server error while fetching profile")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Profile retrieved successfully", httpdto.ProfileResponse{User: httpdto.FromUser(u)}))
}

// UpdateProfile renames the authenticated user.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Access denied. No token provided."))
		return
	}

	var req httpdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), "")
		return
	}

	u, err := h.users.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeError(c, err, "Server error while updating profile")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Profile updated successfully", httpdto.ProfileResponse{User: httpdto.FromUser(u)}))
}

func toAuthResponse(res services.AuthResult) httpdto.AuthResponse {
	return httpdto.AuthResponse{
		User:      httpdto.FromUser(res.User),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
}
