package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "redis" {
		t.Errorf("expected redis driver, got %s", cfg.StoreDriver)
	}
	if cfg.SignDelay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s sign delay, got %v", cfg.SignDelay)
	}
	if cfg.ProposeDelay != time.Second {
		t.Errorf("expected 1s propose delay, got %v", cfg.ProposeDelay)
	}
	if cfg.LocalSessionFallback {
		t.Error("local session fallback must be off by default")
	}
	if cfg.Namespace != "decentralizeit" {
		t.Errorf("expected decentralizeit namespace, got %s", cfg.Namespace)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SIGN_DELAY", "0s")
	t.Setenv("PERSIST_OUTCOMES", "true")
	t.Setenv("LOCAL_SESSION_FALLBACK", "true")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.StoreDriver)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.SignDelay != 0 {
		t.Errorf("expected zero sign delay, got %v", cfg.SignDelay)
	}
	if !cfg.PersistOutcomes {
		t.Error("expected outcomes to be persisted")
	}
	if !cfg.LocalSessionFallback {
		t.Error("expected local session fallback to be enabled")
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PROPOSE_DELAY", "soon")
	t.Setenv("SEED_DEMO", "maybe")

	cfg := Load()

	if cfg.RedisDB != 0 {
		t.Errorf("expected fallback db 0, got %d", cfg.RedisDB)
	}
	if cfg.ProposeDelay != time.Second {
		t.Errorf("expected fallback delay, got %v", cfg.ProposeDelay)
	}
	if cfg.SeedDemo {
		t.Error("expected seed demo fallback to false")
	}
}
