package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/utils"
)

type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthHandler struct {
	sessions *session.Provider
	secret   string
	ttl      time.Duration
}

func NewAuthHandler(sessions *session.Provider, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, secret: secret, ttl: ttl}
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	h.authenticate(c, h.sessions.Login)
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	h.authenticate(c, h.sessions.Register)
}

func (h *AuthHandler) authenticate(c *gin.Context, start func(ctx context.Context, email, name string) (models.User, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "Invalid request"})
		return
	}

	user, err := start(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := utils.GenerateJWTToken(user, h.secret, h.ttl)
	if err != nil {
		logger.Error("failed to sign session token", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_error", "message": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeHandler reports the caller's session; anonymous callers get a null user.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{"authenticated": sess.Authenticated(), "user": sess.User})
}

func writeError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error("auth request failed", zap.Error(err))
	}
	code, message := "internal_error", "something went wrong"
	var de *apperr.DomainError
	if errors.As(err, &de) {
		code, message = de.Code, de.Message
	}
	c.JSON(status, gin.H{"error": code, "message": message})
}
