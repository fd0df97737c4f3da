package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/decentralizeit/internal/controller"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/store"
)

type Dependencies struct {
	Auth       *AuthHandler
	Petitions  *controller.PetitionController
	Outcomes   *controller.OutcomeController
	JWTSecret  string
	LocalUsers middleware.SessionSource
	Health     store.Pinger
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	r.GET("/healthz", func(ctx *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health.Ping(ctx.Request.Context()); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "storage_unavailable", "message": err.Error()})
				return
			}
		}
		ctx.JSON(http.StatusOK, map[string]string{"data": "working fine"})
	})

	r.POST("/auth/register", deps.Auth.RegisterHandler)
	r.POST("/auth/login", deps.Auth.LoginHandler)
	r.POST("/auth/logout", deps.Auth.LogoutHandler)

	sessionAware := middleware.JWTAuthMiddleware(deps.JWTSecret, deps.LocalUsers)
	r.GET("/auth/me", sessionAware, deps.Auth.MeHandler)

	public := r.Group("/api")
	public.Use(sessionAware)
	{
		public.GET("/petitions", deps.Petitions.ListPetitionsHandler)
		public.GET("/petitions/:id", deps.Petitions.GetPetitionHandler)
		public.GET("/petitions/:id/outcomes", deps.Outcomes.ListOutcomesHandler)
		public.GET("/outcomes/:id", deps.Outcomes.GetOutcomeHandler)
		public.POST("/categorize", deps.Petitions.CategorizeHandler)
		public.GET("/maintenance/stale-flags", deps.Petitions.StaleFlagsHandler)
	}

	auth := r.Group("/api")
	auth.Use(sessionAware, middleware.RequireSession())
	{
		auth.POST("/petitions", deps.Petitions.CreatePetitionHandler)
		auth.DELETE("/petitions/:id", deps.Petitions.DeletePetitionHandler)
		auth.POST("/petitions/:id/sign", deps.Petitions.SignPetitionHandler)
		auth.POST("/petitions/:id/status", deps.Petitions.UpdateStatusHandler)
		auth.POST("/petitions/:id/outcomes", deps.Outcomes.ProposeOutcomeHandler)
		auth.POST("/outcomes/:id/vote", deps.Outcomes.VoteHandler)
	}
}
