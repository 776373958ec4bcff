package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider токены HS256 JWT
type JWTProvider struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

func NewJWTProvider(cfg Config, denylist Denylist) (*JWTProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &JWTProvider{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.ttl(),
		denylist: denylist,
		now:      time.Now,
	}, nil
}

// SetClock подменяет источник текущего времени
func (p *JWTProvider) SetClock(now func() time.Time) {
	p.now = now
}

func (p *JWTProvider) Issue(_ context.Context, id Identity) (Token, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)
	claims := jwtClaims{
		Username: id.Username,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (p *JWTProvider) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}

	return checkRevoked(ctx, p.denylist, &Claims{
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	})
}

func (p *JWTProvider) Revoke(ctx context.Context, token string) error {
	return revoke(ctx, p, p.denylist, token)
}
