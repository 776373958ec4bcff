package sqlite

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

type AdminRepository struct {
	*DB
}

func NewAdminRepository(db *DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// Create создаёт администратора
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	now := r.nowMillis()
	res, err := r.Conn(ctx).ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, name, created_at) VALUES (?, ?, ?, ?)`,
		admin.Username, admin.PasswordHash, admin.Name, now,
	)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read admin id: %w", err)
	}
	admin.ID = id
	admin.CreatedAt = fromMillis(now)
	return nil
}

// GetByUsername получает администратора по логину
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var (
		admin     model.Admin
		createdAt int64
	)
	err := r.Conn(ctx).QueryRowContext(ctx,
		`SELECT id, username, password_hash, name, created_at FROM admins WHERE username = ?`, username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.Name, &createdAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	admin.CreatedAt = fromMillis(createdAt)
	return &admin, nil
}

// UpdatePassword меняет хеш пароля администратора
func (r *AdminRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := r.Conn(ctx).ExecContext(ctx,
		`UPDATE admins SET password_hash = ? WHERE username = ?`, passwordHash, username,
	)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	return nil
}
