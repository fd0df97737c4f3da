package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/utils"
)

const secret = "middleware-secret"

type fixedSource struct {
	sess session.Session
	err  error
}

func (f fixedSource) Current(ctx context.Context) (session.Session, error) {
	return f.sess, f.err
}

func newEngine(local SessionSource, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(secret, local)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).UserID())
	})
	r.GET("/whoami", handlers...)
	return r
}

func whoami(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateJWTToken(models.User{ID: "u1", Email: "a@example.com", Name: "Alice"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	expired, _ := utils.GenerateJWTToken(models.User{ID: "u1", Email: "a@example.com", Name: "Alice"}, secret, -time.Minute)
	local := fixedSource{sess: session.For(models.User{ID: "local", Email: "l@example.com", Name: "Local"})}

	tests := []struct {
		name   string
		local  SessionSource
		header string
		status int
		user   string
	}{
		{"bearer token", nil, "Bearer " + token, http.StatusOK, "u1"},
		{"no header is anonymous", nil, "", http.StatusOK, ""},
		{"no header restores local session", local, "", http.StatusOK, "local"},
		{"local session failure is anonymous", fixedSource{err: errors.New("down")}, "", http.StatusOK, ""},
		{"not a bearer header", nil, "Basic abc", http.StatusUnauthorized, ""},
		{"expired token", nil, "Bearer " + expired, http.StatusUnauthorized, ""},
		{"garbage token", nil, "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := whoami(newEngine(tt.local), tt.header)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK && w.Body.String() != tt.user {
				t.Errorf("expected user %q, got %q", tt.user, w.Body.String())
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	r := newEngine(nil, RequireSession())

	if w := whoami(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous caller, got %d", w.Code)
	}

	token, _ := utils.GenerateJWTToken(models.User{ID: "u1", Email: "a@example.com", Name: "Alice"}, secret, time.Hour)
	if w := whoami(r, "Bearer "+token); w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}
