package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
	b.id, b.time_slot_id, b.first_name, b.last_name, b.email, b.phone, b.document, b.campus,
	b.academic_status, b.academic_level, b.advisory_topic, b.advisory_type, b.service_option,
	b.occupation, b.comments, b.status, b.created_at, b.updated_at
`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, time_slot_id, first_name, last_name, email, phone, document, campus,
			academic_status, academic_level, advisory_topic, advisory_type, service_option,
			occupation, comments, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.TimeSlotID,
		booking.FirstName,
		booking.LastName,
		booking.Email,
		booking.Phone,
		booking.Document,
		booking.Campus,
		booking.AcademicStatus,
		booking.AcademicLevel,
		booking.AdvisoryTopic,
		booking.AdvisoryType,
		booking.ServiceOption,
		booking.Occupation,
		booking.Comments,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "ux_bookings_confirmed_email_slot") {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ExistsConfirmed проверяет наличие подтверждённой записи для email в слоте
func (r *BookingRepository) ExistsConfirmed(ctx context.Context, email, slotID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE email = $1 AND time_slot_id = $2 AND status = 'confirmed'
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, email, slotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check duplicate booking: %w", err)
	}

	return exists, nil
}

// List возвращает все бронирования со слотами, новые первыми
func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       ts.id, ts.date, ts.start_time, ts.end_time, ts.max_attendees, ts.title, ts.description,
		       ts.expositor_id, ts.is_active, ts.created_at, ts.updated_at
		FROM bookings b
		JOIN time_slots ts ON ts.id = b.time_slot_id
		ORDER BY b.created_at DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var (
			b    model.Booking
			slot model.TimeSlot
		)
		err := rows.Scan(
			&b.ID,
			&b.TimeSlotID,
			&b.FirstName,
			&b.LastName,
			&b.Email,
			&b.Phone,
			&b.Document,
			&b.Campus,
			&b.AcademicStatus,
			&b.AcademicLevel,
			&b.AdvisoryTopic,
			&b.AdvisoryType,
			&b.ServiceOption,
			&b.Occupation,
			&b.Comments,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
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
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.TimeSlot = &slot
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		if base.IsUniqueViolation(err, "ux_bookings_confirmed_email_slot") {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("update booking status: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.TimeSlotID,
		&b.FirstName,
		&b.LastName,
		&b.Email,
		&b.Phone,
		&b.Document,
		&b.Campus,
		&b.AcademicStatus,
		&b.AcademicLevel,
		&b.AdvisoryTopic,
		&b.AdvisoryType,
		&b.ServiceOption,
		&b.Occupation,
		&b.Comments,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
