package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	*base.Repository
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт администратора
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, admin.Username, admin.PasswordHash, admin.Name).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	return nil
}

// GetByUsername получает администратора по логину
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `
		SELECT id, username, password_hash, name, created_at
		FROM admins
		WHERE username = $1
	`

	var admin model.Admin
	err := r.QueryRow(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Name,
		&admin.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}

	return &admin, nil
}

// UpdatePassword меняет хеш пароля администратора
func (r *AdminRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	affected, err := r.ExecAffected(ctx, `UPDATE admins SET password_hash = $1 WHERE username = $2`, passwordHash, username)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}
