package sqlite

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

const bookingColumns = `
	b.id, b.time_slot_id, b.first_name, b.last_name, b.email, b.phone, b.document, b.campus,
	b.academic_status, b.academic_level, b.advisory_topic, b.advisory_type, b.service_option,
	b.occupation, b.comments, b.status, b.created_at, b.updated_at
`

type BookingRepository struct {
	*DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	now := r.nowMillis()
	_, err := r.Conn(ctx).ExecContext(ctx, `
		INSERT INTO bookings (
			id, time_slot_id, first_name, last_name, email, phone, document, campus,
			academic_status, academic_level, advisory_topic, advisory_type, service_option,
			occupation, comments, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TimeSlotID, b.FirstName, b.LastName, b.Email, nullable(b.Phone), b.Document, b.Campus,
		nullable(b.AcademicStatus), nullable(b.AcademicLevel), nullable(b.AdvisoryTopic),
		nullable(b.AdvisoryType), nullable(b.ServiceOption), nullable(b.Occupation), nullable(b.Comments), string(b.Status), now, now,
	)
	if err != nil {
		if isUniqueViolation(err, "bookings.email") {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("create booking: %w", err)
	}
	b.CreatedAt = fromMillis(now)
	b.UpdatedAt = b.CreatedAt
	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.Conn(ctx).QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ?`, id)
	b, err := scanBooking(row)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return b, nil
}

// ExistsConfirmed проверяет наличие подтверждённой записи для email в слоте
func (r *BookingRepository) ExistsConfirmed(ctx context.Context, email, slotID string) (bool, error) {
	var exists bool
	err := r.Conn(ctx).QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE email = ? AND time_slot_id = ? AND status = 'confirmed'
		)`, email, slotID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate booking: %w", err)
	}
	return exists, nil
}

// List возвращает все бронирования со слотами, новые первыми
func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	rows, err := r.Conn(ctx).QueryContext(ctx, `
		SELECT `+bookingColumns+`,
		       ts.id, ts.date, ts.start_time, ts.end_time, ts.max_attendees, ts.title, ts.description,
		       ts.expositor_id, ts.is_active, ts.created_at, ts.updated_at
		FROM bookings b
		JOIN time_slots ts ON ts.id = b.time_slot_id
		ORDER BY b.created_at DESC, b.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var (
			b                        model.Booking
			slot                     model.TimeSlot
			status                   string
			bCreated, bUpdated       int64
			slotCreated, slotUpdated int64
		)
		err := rows.Scan(
			&b.ID, &b.TimeSlotID, &b.FirstName, &b.LastName, &b.Email, &b.Phone, &b.Document, &b.Campus,
			&b.AcademicStatus, &b.AcademicLevel, &b.AdvisoryTopic, &b.AdvisoryType, &b.ServiceOption,
			&b.Occupation, &b.Comments, &status, &bCreated, &bUpdated,
			&slot.ID, &slot.Date, &slot.StartTime, &slot.EndTime, &slot.MaxAttendees, &slot.Title,
			&slot.Description, &slot.ExpositorID, &slot.IsActive, &slotCreated, &slotUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Status = model.BookingStatus(status)
		b.CreatedAt = fromMillis(bCreated)
		b.UpdatedAt = fromMillis(bUpdated)
		slot.CreatedAt = fromMillis(slotCreated)
		slot.UpdatedAt = fromMillis(slotUpdated)
		b.TimeSlot = &slot
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	res, err := r.Conn(ctx).ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, string(status), r.nowMillis(), id,
	)
	if err != nil {
		if isUniqueViolation(err, "bookings.email") {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("update booking status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanBooking(row scanner) (*model.Booking, error) {
	var (
		b                    model.Booking
		status               string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&b.ID, &b.TimeSlotID, &b.FirstName, &b.LastName, &b.Email, &b.Phone, &b.Document, &b.Campus,
		&b.AcademicStatus, &b.AcademicLevel, &b.AdvisoryTopic, &b.AdvisoryType, &b.ServiceOption,
		&b.Occupation, &b.Comments, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return &b, nil
}
