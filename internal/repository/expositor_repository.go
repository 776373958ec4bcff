package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expositorColumns = `id, name, last_name, email, phone, speciality, bio, is_active, created_at, updated_at`

type ExpositorRepository struct {
	*base.Repository
}

func NewExpositorRepository(pool *pgxpool.Pool) *ExpositorRepository {
	return &ExpositorRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового экспозитора
func (r *ExpositorRepository) Create(ctx context.Context, e *model.Expositor) error {
	query := `
		INSERT INTO expositors (name, last_name, email, phone, speciality, bio, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		e.Name,
		e.LastName,
		e.Email,
		e.Phone,
		e.Speciality,
		e.Bio,
		e.IsActive,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "expositors_email_key") {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create expositor: %w", err)
	}

	return nil
}

// GetByID получает экспозитора по ID
func (r *ExpositorRepository) GetByID(ctx context.Context, id int64) (*model.Expositor, error) {
	query := `SELECT ` + expositorColumns + ` FROM expositors WHERE id = $1`

	e, err := scanExpositor(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expositor by id: %w", err)
	}

	return e, nil
}

// EmailTaken проверяет, занят ли email другим экспозитором
func (r *ExpositorRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM expositors
			WHERE email = $1 AND id <> $2
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check expositor email: %w", err)
	}

	return exists, nil
}

// List возвращает всех экспозиторов, отсортированных по фамилии и имени
func (r *ExpositorRepository) List(ctx context.Context) ([]*model.Expositor, error) {
	query := `SELECT ` + expositorColumns + ` FROM expositors ORDER BY last_name, name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list expositors: %w", err)
	}
	defer rows.Close()

	expositors := make([]*model.Expositor, 0)
	for rows.Next() {
		e, err := scanExpositor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expositor: %w", err)
		}
		expositors = append(expositors, e)
	}

	return expositors, rows.Err()
}

// Update обновляет данные экспозитора
func (r *ExpositorRepository) Update(ctx context.Context, e *model.Expositor) error {
	query := `
		UPDATE expositors
		SET name = $1, last_name = $2, email = $3, phone = $4, speciality = $5, bio = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		e.Name,
		e.LastName,
		e.Email,
		e.Phone,
		e.Speciality,
		e.Bio,
		e.IsActive,
		e.ID,
	).Scan(&e.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrNotFound
		}
		if base.IsUniqueViolation(err, "expositors_email_key") {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("update expositor: %w", err)
	}

	return nil
}

// HasActiveSlots проверяет, есть ли у экспозитора активные слоты
func (r *ExpositorRepository) HasActiveSlots(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM time_slots
			WHERE expositor_id = $1 AND is_active
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active slots: %w", err)
	}

	return exists, nil
}

// Delete удаляет экспозитора вместе с его неактивными слотами.
// Удаление не выполняется, если у экспозитора появился активный слот.
func (r *ExpositorRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM expositors
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM time_slots WHERE expositor_id = $1 AND is_active)
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete expositor: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanExpositor(row pgx.Row) (*model.Expositor, error) {
	var e model.Expositor
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.LastName,
		&e.Email,
		&e.Phone,
		&e.Speciality,
		&e.Bio,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
