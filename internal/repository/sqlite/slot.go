package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

const slotSelect = `
	SELECT ts.id, ts.date, ts.start_time, ts.end_time, ts.max_attendees, ts.title, ts.description,
	       ts.expositor_id, ts.is_active, ts.created_at, ts.updated_at,
	       e.id, e.name, e.last_name, e.speciality, e.bio,
	       (SELECT COUNT(*) FROM bookings b WHERE b.time_slot_id = ts.id AND b.status = 'confirmed')
	FROM time_slots ts
	JOIN expositors e ON e.id = ts.expositor_id
`

type SlotRepository struct {
	*DB
}

func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{DB: db}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	now := r.nowMillis()
	_, err := r.Conn(ctx).ExecContext(ctx, `
		INSERT INTO time_slots (id, date, start_time, end_time, max_attendees, title, description, expositor_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slot.ID, slot.Date, slot.StartTime, slot.EndTime, slot.MaxAttendees, nullable(slot.Title), nullable(slot.Description),
		slot.ExpositorID, slot.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	slot.CreatedAt = fromMillis(now)
	slot.UpdatedAt = slot.CreatedAt
	return nil
}

// GetByID получает слот по ID вместе с экспозитором и числом записей
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	slot, err := scanSlot(r.Conn(ctx).QueryRowContext(ctx, slotSelect+` WHERE ts.id = ?`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

// GetForBooking возвращает слот с числом подтверждённых записей. Отдельная
// блокировка строки не нужна: у базы единственное соединение, и транзакция
// держит его до коммита.
func (r *SlotRepository) GetForBooking(ctx context.Context, id string) (*model.TimeSlot, error) {
	return r.GetByID(ctx, id)
}

// FindOverlapping ищет слот на ту же дату, пересекающийся с [start, end)
func (r *SlotRepository) FindOverlapping(ctx context.Context, date, start, end string) (*model.TimeSlot, error) {
	query := slotSelect + `
		WHERE ts.date = ? AND ts.start_time < ? AND ? < ts.end_time
		ORDER BY ts.start_time
		LIMIT 1`
	slot, err := scanSlot(r.Conn(ctx).QueryRowContext(ctx, query, date, end, start))
	if err != nil {
		if isNotFound(err) {
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
		conds = append(conds, "ts.is_active = 1")
	}
	if filter.FromDate != "" {
		conds = append(conds, "ts.date >= ?")
		args = append(args, filter.FromDate)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.Conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM time_slots ts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	query := slotSelect + where + ` ORDER BY ts.date, ts.start_time`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset())
	}

	rows, err := r.Conn(ctx).QueryContext(ctx, query, args...)
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
	res, err := r.Conn(ctx).ExecContext(ctx,
		`UPDATE time_slots SET is_active = ?, updated_at = ? WHERE id = ?`, active, r.nowMillis(), id,
	)
	if err != nil {
		return fmt.Errorf("update slot active: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanSlot(row scanner) (*model.TimeSlot, error) {
	var (
		slot                 model.TimeSlot
		exp                  model.ExpositorSummary
		createdAt, updatedAt int64
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
		&createdAt,
		&updatedAt,
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
	slot.CreatedAt = fromMillis(createdAt)
	slot.UpdatedAt = fromMillis(updatedAt)
	slot.Expositor = &exp
	return &slot, nil
}
