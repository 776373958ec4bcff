package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/employability_booking/internal/auth"
	"github.com/Freeeeeet/employability_booking/internal/model"
	"go.uber.org/zap"
)

// AdminSeed учётная запись администратора, создаваемая при старте
type AdminSeed struct {
	Username string
	Password string
	Name     string
}

type AuthService struct {
	adminRepo AdminStore
	provider  auth.AuthProvider
	logger    *zap.Logger
}

func NewAuthService(adminRepo AdminStore, provider auth.AuthProvider, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		provider:  provider,
		logger:    logger,
	}
}

// Login проверяет логин и пароль и выпускает токен сессии
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Token, *model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.Token{}, nil, ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("get admin: %w", err)
	}
	if admin == nil {
		s.logger.Warn("Login with unknown username", zap.String("username", username))
		return auth.Token{}, nil, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(admin.PasswordHash, password)
	if err != nil {
		return auth.Token{}, nil, err
	}
	if !ok {
		s.logger.Warn("Login with wrong password", zap.String("username", username))
		return auth.Token{}, nil, ErrInvalidCredentials
	}

	token, err := s.provider.Issue(ctx, auth.Identity{Username: admin.Username, Role: model.RoleAdmin})
	if err != nil {
		return auth.Token{}, nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("Admin logged in", zap.String("username", admin.Username))
	return token, admin, nil
}

// Verify проверяет токен сессии
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return s.provider.Verify(ctx, token)
}

// Logout отзывает токен. Пустой или испорченный токен не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.provider.Revoke(ctx, token); err != nil && KindOf(err) != KindAuth {
		return err
	}
	return nil
}

// EnsureAdmin создаёт администратора, если его ещё нет. Существующий пароль не меняется.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed AdminSeed) error {
	existing, err := s.adminRepo.GetByUsername(ctx, seed.Username)
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	name := seed.Name
	if name == "" {
		name = seed.Username
	}
	if err := s.adminRepo.Create(ctx, &model.Admin{
		Username:     seed.Username,
		PasswordHash: hash,
		Name:         name,
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("Admin account created", zap.String("username", seed.Username))
	return nil
}

// ResetPassword меняет пароль администратора
func (s *AuthService) ResetPassword(ctx context.Context, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.adminRepo.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	s.logger.Info("Admin password changed", zap.String("username", username))
	return nil
}
