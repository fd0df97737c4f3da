package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/saxenaaman628/decentralizeit/internal/models"
)

var ErrInvalidToken = errors.New("invalid session token")

func GenerateJWTToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"walletAddress": user.WalletAddress,
		"exp":           time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWTToken verifies the token and decodes its claims into a User.
func ParseJWTToken(tokenString, secret string) (models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.User{}, ErrInvalidToken
	}

	var user models.User
	if err := mapstructure.Decode(map[string]interface{}(claims), &user); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if user.ID == "" {
		return models.User{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return user, nil
}
