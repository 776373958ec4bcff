package sqlite

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

const expositorColumns = `id, name, last_name, email, phone, speciality, bio, is_active, created_at, updated_at`

type ExpositorRepository struct {
	*DB
}

func NewExpositorRepository(db *DB) *ExpositorRepository {
	return &ExpositorRepository{DB: db}
}

// Create создаёт нового экспозитора
func (r *ExpositorRepository) Create(ctx context.Context, e *model.Expositor) error {
	now := r.nowMillis()
	res, err := r.Conn(ctx).ExecContext(ctx, `
		INSERT INTO expositors (name, last_name, email, phone, speciality, bio, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.LastName, nullable(e.Email), nullable(e.Phone), e.Speciality, nullable(e.Bio), e.IsActive, now, now,
	)
	if err != nil {
		if isUniqueViolation(err, "expositors.email") {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create expositor: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read expositor id: %w", err)
	}
	e.ID = id
	e.CreatedAt = fromMillis(now)
	e.UpdatedAt = e.CreatedAt
	return nil
}

// GetByID получает экспозитора по ID
func (r *ExpositorRepository) GetByID(ctx context.Context, id int64) (*model.Expositor, error) {
	row := r.Conn(ctx).QueryRowContext(ctx, `SELECT `+expositorColumns+` FROM expositors WHERE id = ?`, id)
	e, err := scanExpositor(row)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expositor by id: %w", err)
	}
	return e, nil
}

// EmailTaken проверяет, занят ли email другим экспозитором
func (r *ExpositorRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.Conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM expositors WHERE email = ? AND id <> ?)`, email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check expositor email: %w", err)
	}
	return exists, nil
}

// List возвращает всех экспозиторов, отсортированных по фамилии и имени
func (r *ExpositorRepository) List(ctx context.Context) ([]*model.Expositor, error) {
	rows, err := r.Conn(ctx).QueryContext(ctx, `SELECT `+expositorColumns+` FROM expositors ORDER BY last_name, name`)
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
	now := r.nowMillis()
	res, err := r.Conn(ctx).ExecContext(ctx, `
		UPDATE expositors
		SET name = ?, last_name = ?, email = ?, phone = ?, speciality = ?, bio = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.LastName, nullable(e.Email), nullable(e.Phone), e.Speciality, nullable(e.Bio), e.IsActive, now, e.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "expositors.email") {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("update expositor: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	e.UpdatedAt = fromMillis(now)
	return nil
}

// HasActiveSlots проверяет, есть ли у экспозитора активные слоты
func (r *ExpositorRepository) HasActiveSlots(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.Conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM time_slots WHERE expositor_id = ? AND is_active = 1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active slots: %w", err)
	}
	return exists, nil
}

// Delete удаляет экспозитора, если у него нет активных слотов
func (r *ExpositorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.Conn(ctx).ExecContext(ctx, `
		DELETE FROM expositors
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM time_slots WHERE expositor_id = ? AND is_active = 1)`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("delete expositor: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpositor(row scanner) (*model.Expositor, error) {
	var (
		e                    model.Expositor
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.LastName,
		&e.Email,
		&e.Phone,
		&e.Speciality,
		&e.Bio,
		&e.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return &e, nil
}
