package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// slotSelect выбирает слот вместе с карточкой экспозитора и числом подтверждённых записей
const slotSelect = `
	SELECT ts.id, ts.date, ts.start_time, ts.end_time, ts.max_attendees, ts.title, ts.description,
	       ts.expositor_id, ts.is_active, ts.created_at, ts.updated_at,
	       e.id, e.name, e.last_name, e.speciality, e.bio,
	       (SELECT COUNT(*) FROM bookings b WHERE b.time_slot_id = ts.id AND b.status = 'confirmed')
	FROM time_slots ts
	JOIN expositors e ON e.id = ts.expositor_id
`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (id, date, start_time, end_time, max_attendees, title, description, expositor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.MaxAttendees,
		slot.Title,
		slot.Description,
		slot.ExpositorID,
		slot.IsActive,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID вместе с экспозитором и числом записей
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	slot, err := scanSlot(r.QueryRow(ctx, slotSelect+` WHERE ts.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetForBooking блокирует строку слота до конца транзакции и
// возвращает его с актуальным числом подтверждённых записей.
// Вызывать только внутри WithinTx.
func (r *SlotRepository) GetForBooking(ctx context.Context, id string) (*model.TimeSlot, error) {
	query := `
		SELECT id, date, start_time, end_time, max_attendees, title, description,
		       expositor_id, is_active, created_at, updated_at
		FROM time_slots
		WHERE id = $1
		FOR UPDATE
	`

	var slot model.TimeSlot
	err := r.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxAttendees,
		&slot.Title,
		&slot.Description,
		&slot.ExpositorID,
		&slot.IsActive,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM bookings WHERE time_slot_id = $1 AND status = 'confirmed'`
	if err := r.QueryRow(ctx, countQuery, id).Scan(&slot.ConfirmedCount); err != nil {
		return nil, fmt.Errorf("count confirmed bookings: %w", err)
	}

	return &slot, nil
}

// FindOverlapping ищет слот на ту же дату, пересекающийся с [start, end)
func (r *SlotRepository) FindOverlapping(ctx context.Context, date, start, end string) (*model.TimeSlot, error) {
	query := slotSelect + `
		WHERE ts.date = $1 AND ts.start_time < $3 AND $2 < ts.end_time
		ORDER BY ts.start_time
		LIMIT 1
	`

	slot, err := scanSlot(r.QueryRow(ctx, query, date, start, end))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping slot: %w", err)
	}

	return slot, nil
}

// List возвращает страницу слотов и общее количество по фильтру
func (r *SlotRepository) List(ctx context.Context, filter model.SlotFilter) ([]*model.TimeSlot, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "ts.is_active")
	}
	if filter.FromDate != "" {
		args = append(args, filter.FromDate)
		conds = append(conds, fmt.Sprintf("ts.date >= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM time_slots ts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	query := slotSelect + where + ` ORDER BY ts.date, ts.start_time`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*model.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, total, rows.Err()
}

// SetActive включает или выключает слот
func (r *SlotRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE time_slots
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("update slot active: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	var (
		slot model.TimeSlot
		exp  model.ExpositorSummary
	)
	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxAttendees,
		&slot.Title,
		&slot.Description,
		&slot.ExpositorID,
		&slot.IsActive,
		&slot.CreatedAt,
		&slot.UpdatedAt,
		&exp.ID,
		&exp.Name,
		&exp.LastName,
		&exp.Speciality,
		&exp.Bio,
		&slot.ConfirmedCount,
	)
	if err != nil {
		return nil, err
	}
	slot.Expositor = &exp
	return &slot, nil
}
