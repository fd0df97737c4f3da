package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/config"
	"github.com/saxenaaman628/decentralizeit/internal/advisor"
	"github.com/saxenaaman628/decentralizeit/internal/api"
	"github.com/saxenaaman628/decentralizeit/internal/controller"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/middleware"
	"github.com/saxenaaman628/decentralizeit/internal/outcome"
	"github.com/saxenaaman628/decentralizeit/internal/petition"
	"github.com/saxenaaman628/decentralizeit/internal/redis"
	"github.com/saxenaaman628/decentralizeit/internal/session"
	"github.com/saxenaaman628/decentralizeit/internal/store"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := logger.Initialize(logger.Configuration{
		LogFile:   cfg.LogFile,
		ErrorFile: cfg.LogErrorFile,
		Level:     cfg.LogLevel,
		Console:   true,
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.Close()

	ctx := context.Background()

	repo := petition.NewRepository(st, cfg.SignDelay)
	if cfg.SeedDemo {
		if _, err := repo.SeedDemo(ctx); err != nil {
			logger.Error("failed to seed demo petitions", zap.Error(err))
		}
	}

	ledger := outcome.NewLedger(st, repo, outcome.Options{
		ProposeDelay: cfg.ProposeDelay,
		AutoPersist:  cfg.PersistOutcomes,
	})
	if cfg.PersistOutcomes {
		n, err := ledger.Restore(ctx)
		if err != nil {
			logger.Error("failed to restore outcomes", zap.Error(err))
		} else {
			logger.Info("outcomes restored", zap.Int("count", n))
		}
	}

	var adv advisor.Advisor
	if cfg.AdvisorURL != "" {
		adv = advisor.NewClient(cfg.AdvisorURL, cfg.AdvisorAPIKey, cfg.AdvisorModel, cfg.AdvisorTimeout)
	} else {
		logger.Warn("ADVISOR_URL not set, auto-categorization disabled")
	}

	sessions := session.NewProvider(st)
	health, _ := st.(store.Pinger)

	var localUsers middleware.SessionSource
	if cfg.LocalSessionFallback {
		localUsers = sessions
		logger.Warn("LOCAL_SESSION_FALLBACK enabled, requests without a token act as the last logged-in user")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	api.RegisterRoutes(r, api.Dependencies{
		Auth:       api.NewAuthHandler(sessions, cfg.JWTSecret, cfg.SessionTTL),
		Petitions:  controller.NewPetitionController(repo, ledger, adv),
		Outcomes:   controller.NewOutcomeController(ledger),
		JWTSecret:  cfg.JWTSecret,
		LocalUsers: localUsers,
		Health:     health,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if cfg.PersistOutcomes {
		if err := ledger.Persist(shutdownCtx); err != nil {
			logger.Error("failed to persist outcomes", zap.Error(err))
		}
	}
	logger.Info("server stopped")
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		st, err := store.NewSQLiteStore(cfg.SQLitePath, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		client, err := redis.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, cfg.Namespace), nil
	}
}
