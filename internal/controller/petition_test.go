package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/saxenaaman628/decentralizeit/internal/advisor"
	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/outcome"
	"github.com/saxenaaman628/decentralizeit/internal/petition"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/store"
	"github.com/saxenaaman628/decentralizeit/internal/utils"
)

const secret = "controller-secret"

type stubAdvisor struct {
	result advisor.Result
	err    error
}

func (s stubAdvisor) Categorize(ctx context.Context, title, description string) (advisor.Result, error) {
	return s.result, s.err
}

type localUser struct{}

func (localUser) Current(ctx context.Context) (session.Session, error) {
	return session.Anonymous(), nil
}

func setupController(t *testing.T, adv advisor.Advisor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := miniredis.RunT(t)
	st := store.NewRedisStore(redis.NewClient(&redis.Options{Addr: s.Addr()}), "test")
	t.Cleanup(func() { st.Close() })

	repo := petition.NewRepository(st, 0)
	pc := NewPetitionController(repo, outcome.NewLedger(st, repo, outcome.Options{}), adv)

	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(secret, localUser{}))
	r.POST("/categorize", pc.CategorizeHandler)
	r.POST("/petitions", middleware.RequireSession(), pc.CreatePetitionHandler)
	return r
}

func post(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	token, err := utils.GenerateJWTToken(models.User{ID: "u1", Email: "a@example.com", Name: "Alice"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

var draft = map[string]any{
	"title":          "Safer bike lanes",
	"description":    "Separate bike lanes from traffic on main roads.",
	"category":       "other",
	"autoCategorize": true,
}

func TestAutoCategorizeOverridesCategory(t *testing.T) {
	r := setupController(t, stubAdvisor{result: advisor.Result{Category: models.CategoryPolitics, Confidence: 0.8}})

	w, body := post(t, r, "/petitions", draft)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := body["petition"].(map[string]any)["category"]; got != "politics" {
		t.Errorf("expected advisor category, got %v", got)
	}
	if _, ok := body["notice"]; ok {
		t.Error("no notice expected on success")
	}
}

func TestAutoCategorizeFailureKeepsManualCategory(t *testing.T) {
	r := setupController(t, stubAdvisor{err: apperr.ErrAdvisorUnavailable})

	w, body := post(t, r, "/petitions", draft)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := body["petition"].(map[string]any)["category"]; got != "other" {
		t.Errorf("expected manual category, got %v", got)
	}
	if body["notice"] != apperr.ErrAdvisorUnavailable.Message {
		t.Errorf("expected advisor notice, got %v", body["notice"])
	}
}

func TestAutoCategorizeWithoutAdvisorTellsUser(t *testing.T) {
	r := setupController(t, nil)

	w, body := post(t, r, "/petitions", draft)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := body["petition"].(map[string]any)["category"]; got != "other" {
		t.Errorf("expected manual category, got %v", got)
	}
	if body["notice"] != noAdvisor.Message {
		t.Errorf("expected not-configured notice, got %v", body["notice"])
	}
}

func TestCategorizeHandler(t *testing.T) {
	tests := []struct {
		name   string
		adv    advisor.Advisor
		status int
	}{
		{"suggestion", stubAdvisor{result: advisor.Result{Category: models.CategoryHealth, Confidence: 0.9}}, http.StatusOK},
		{"bad input", stubAdvisor{err: apperr.ErrAdvisorInput}, http.StatusBadRequest},
		{"unavailable", stubAdvisor{err: apperr.ErrAdvisorUnavailable}, http.StatusServiceUnavailable},
		{"not configured", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupController(t, tt.adv)
			w, body := post(t, r, "/categorize", map[string]string{"title": "t", "description": "d"})
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %v", tt.status, w.Code, body)
			}
			if tt.status == http.StatusOK {
				data := body["data"].(map[string]any)
				if data["category"] != "health" {
					t.Errorf("expected health, got %v", data["category"])
				}
			}
		})
	}
}
