package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/saxenaaman628/decentralizeit/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{ID: "user_1", Email: "alice@example.com", Name: "Alice", WalletAddress: "0xabc"}

	token, err := GenerateJWTToken(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTToken failed: %v", err)
	}

	got, err := ParseJWTToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWTToken failed: %v", err)
	}
	if got != user {
		t.Errorf("expected %+v, got %+v", user, got)
	}
}

func TestTokenRejections(t *testing.T) {
	user := models.User{ID: "user_1", Email: "alice@example.com", Name: "Alice"}
	valid, _ := GenerateJWTToken(user, "secret", time.Hour)
	expired, _ := GenerateJWTToken(user, "secret", -time.Hour)
	anonymous, _ := GenerateJWTToken(models.User{Name: "ghost"}, "secret", time.Hour)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not.a.token", "secret"},
		{"missing id", anonymous, "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJWTToken(tt.token, tt.secret); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
