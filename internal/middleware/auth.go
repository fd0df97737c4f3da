package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/utils"
)

const sessionKey = "session"

// SessionSource restores the locally persisted session when no token is sent.
type SessionSource interface {
	Current(ctx context.Context) (session.Session, error)
}

// JWTAuthMiddleware resolves the caller's session from a bearer token, or from
// the persisted local session when the request carries none. It never rejects
// anonymous requests; a malformed token is rejected.
func JWTAuthMiddleware(secret string, local SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			sess := session.Anonymous()
			if local != nil {
				restored, err := local.Current(c.Request.Context())
				if err != nil {
					logger.Warn("could not restore local session", zap.Error(err))
				} else {
					sess = restored
				}
			}
			c.Set(sessionKey, sess)
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abort(c, apperr.ErrNotAuthenticated.WithMessage("authorization header must be a bearer token"))
			return
		}
		user, err := utils.ParseJWTToken(tokenString, secret)
		if err != nil {
			logger.Debug("rejected session token", zap.Error(err))
			abort(c, apperr.ErrNotAuthenticated.WithMessage("session expired or invalid, please log in again"))
			return
		}

		c.Set(sessionKey, session.For(user))
		c.Next()
	}
}

// RequireSession rejects anonymous callers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			abort(c, apperr.ErrNotAuthenticated)
			return
		}
		c.Next()
	}
}

func SessionFrom(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Anonymous()
}

func abort(c *gin.Context, err *apperr.DomainError) {
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err.Code, "message": err.Message})
}
