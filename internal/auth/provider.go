// Package auth выпускает и проверяет токены сессии администратора.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpired      = errors.New("token expired")
	ErrRevoked      = errors.New("token revoked")
)

// DefaultTTL срок жизни сессии
const DefaultTTL = 24 * time.Hour

// Config параметры подписи токенов
type Config struct {
	Secret string
	TTL    time.Duration
}

func (c Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}
	return nil
}

func (c Config) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

// Identity кому выдаётся токен
type Identity struct {
	Username string
	Role     string
}

// Token выданный токен и момент его истечения
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims проверенное содержимое токена
type Claims struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"-"`
	ID        string    `json:"-"`
}

// AuthProvider выпускает, проверяет и отзывает токены
type AuthProvider interface {
	Issue(ctx context.Context, id Identity) (Token, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	Revoke(ctx context.Context, token string) error
}

// Denylist хранит идентификаторы отозванных токенов до их истечения
type Denylist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// checkRevoked общая для провайдеров проверка списка отзыва
func checkRevoked(ctx context.Context, denylist Denylist, claims *Claims) (*Claims, error) {
	if denylist == nil || claims.ID == "" {
		return claims, nil
	}
	revoked, err := denylist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// revoke вносит токен в список отзыва. Истёкший или уже отозванный токен
// отзывать не нужно.
func revoke(ctx context.Context, p AuthProvider, denylist Denylist, token string) error {
	claims, err := p.Verify(ctx, token)
	switch {
	case errors.Is(err, ErrExpired), errors.Is(err, ErrRevoked):
		return nil
	case err != nil:
		return err
	}
	if denylist == nil {
		return nil
	}
	if err := denylist.Add(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
