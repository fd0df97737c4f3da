// Package session holds the mocked identity of the current user. There is no
// password check: any non-empty email and name log in.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saxenaaman628/decentralizeit/internal/apperr"
	"github.com/saxenaaman628/decentralizeit/internal/logger"
	"github.com/saxenaaman628/decentralizeit/internal/models"
	"github.com/saxenaaman628/decentralizeit/internal/store"
)

// Session is passed explicitly to every repository and ledger call.
type Session struct {
	User *models.User
}

func Anonymous() Session {
	return Session{}
}

func For(user models.User) Session {
	return Session{User: &user}
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.User.ID != ""
}

// UserID returns the current user's id or "" when anonymous.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Require returns the user or ErrNotAuthenticated.
func (s Session) Require() (models.User, error) {
	if !s.Authenticated() {
		return models.User{}, apperr.ErrNotAuthenticated
	}
	return *s.User, nil
}

// Provider persists the single active user under the session key.
type Provider struct {
	store store.Store
	now   func() time.Time
}

func NewProvider(s store.Store) *Provider {
	return &Provider{store: s, now: time.Now}
}

func (p *Provider) Login(ctx context.Context, email, name string) (models.User, error) {
	return p.authenticate(ctx, email, name)
}

func (p *Provider) Register(ctx context.Context, email, name string) (models.User, error) {
	return p.authenticate(ctx, email, name)
}

func (p *Provider) authenticate(ctx context.Context, email, name string) (models.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	user := models.User{
		ID:            fmt.Sprintf("user_%d", p.now().UnixMilli()),
		Email:         email,
		Name:          name,
		WalletAddress: mockWalletAddress(),
	}
	if err := store.SaveObject(ctx, p.store, store.UserKey, user); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}

	logger.Info("user session started", zap.String("user_id", user.ID))
	return user, nil
}

// Current restores the persisted user. A malformed entry is cleared.
func (p *Provider) Current(ctx context.Context) (Session, error) {
	user, found, err := store.LoadObject(ctx, p.store, store.UserKey, validateUser)
	if err != nil {
		return Anonymous(), err
	}
	if !found {
		return Anonymous(), nil
	}
	return For(user), nil
}

func (p *Provider) Logout(ctx context.Context) error {
	if err := p.store.Del(ctx, store.UserKey); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrStorage, err)
	}
	return nil
}

func validateUser(u models.User) error {
	if u.ID == "" {
		return errors.New("user id missing")
	}
	if u.Email == "" || u.Name == "" {
		return errors.New("user email or name missing")
	}
	return nil
}

func mockWalletAddress() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "0x" + hex[:10]
}
