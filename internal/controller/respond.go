package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
)

// respondError turns a domain error into {"error": code, "message": msg}.
// Anything outside the taxonomy is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var de *apperr.DomainError
	if !errors.As(err, &de) {
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "something went wrong"})
		return
	}
	if de.Status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(de.Status, gin.H{"error": de.Code, "message": de.Message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
}

// noticeOf extracts the user-facing message of a non-blocking failure.
func noticeOf(err error) string {
	var de *apperr.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
