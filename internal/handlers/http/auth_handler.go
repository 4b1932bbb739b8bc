package http

import (
	"net/http"
	"strings"

	"drawnet/internal/core/services"
	"drawnet/pkg/errors"
	"drawnet/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/api/login", h.Login)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
}

// Login issues a bearer token for any well-formed username. Identity is
// advisory: there is no password and no user store, the token just pins the
// claimed name for the session's duration.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	token, err := h.authService.IssueToken(req.Username)
	if err != nil {
		c.Error(errors.NewInternalError("failed to issue token").WithCause(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     req.Username,
	})
}
