package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "booking.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func createExpositor(t *testing.T, repo *ExpositorRepository, email string) *model.Expositor {
	t.Helper()
	e := &model.Expositor{Name: "María", LastName: "González", Speciality: "RRHH", IsActive: true}
	if email != "" {
		e.Email = strPtr(email)
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func createSlot(t *testing.T, repo *SlotRepository, expositorID int64, date, start, end string, max int) *model.TimeSlot {
	t.Helper()
	slot := &model.TimeSlot{
		ID:           uuid.NewString(),
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		MaxAttendees: max,
		ExpositorID:  expositorID,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), slot))
	return slot
}

func newBooking(slotID, email string) *model.Booking {
	return &model.Booking{
		ID:         uuid.NewString(),
		TimeSlotID: slotID,
		FirstName:  "Ana",
		LastName:   "Pérez",
		Email:      email,
		Document:   "V-1",
		Campus:     "Caracas",
		Status:     model.BookingStatusConfirmed,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestExpositorRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewExpositorRepository(db)

	first := createExpositor(t, repo, "maria@ucv.ve")
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		dup := &model.Expositor{Name: "Otra", LastName: "Persona", Speciality: "RRHH", Email: strPtr("maria@ucv.ve")}
		assert.ErrorIs(t, repo.Create(ctx, dup), model.ErrEmailTaken)
	})

	t.Run("null emails do not collide", func(t *testing.T) {
		createExpositor(t, repo, "")
		createExpositor(t, repo, "")
	})

	t.Run("email taken excludes self", func(t *testing.T) {
		taken, err := repo.EmailTaken(ctx, "maria@ucv.ve", first.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.EmailTaken(ctx, "maria@ucv.ve", 0)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("update", func(t *testing.T) {
		first.Speciality = "Coaching"
		first.Bio = strPtr("bio")
		require.NoError(t, repo.Update(ctx, first))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Coaching", got.Speciality)
		assert.Equal(t, "bio", *got.Bio)

		missing := *first
		missing.ID = 9999
		assert.ErrorIs(t, repo.Update(ctx, &missing), model.ErrNotFound)
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list ordered by last name", func(t *testing.T) {
		zeta := &model.Expositor{Name: "Zoe", LastName: "Aguilar", Speciality: "RRHH", IsActive: true}
		require.NoError(t, repo.Create(ctx, zeta))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, list)
		assert.Equal(t, "Aguilar", list[0].LastName)
	})
}

func TestExpositorDeleteCascadesInactiveSlots(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	expositors := NewExpositorRepository(db)
	slots := NewSlotRepository(db)
	bookings := NewBookingRepository(db)

	e := createExpositor(t, expositors, "")
	slot := createSlot(t, slots, e.ID, "2025-03-03", "09:00", "10:00", 5)
	require.NoError(t, bookings.Create(ctx, newBooking(slot.ID, "a@x.com")))

	active, err := expositors.HasActiveSlots(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, active)
	assert.ErrorIs(t, expositors.Delete(ctx, e.ID), model.ErrNotFound)

	require.NoError(t, slots.SetActive(ctx, slot.ID, false))
	require.NoError(t, expositors.Delete(ctx, e.ID))

	gone, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	list, err := bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSlotRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	e := createExpositor(t, NewExpositorRepository(db), "")
	repo := NewSlotRepository(db)

	past := createSlot(t, repo, e.ID, "2025-01-10", "09:00", "10:00", 5)
	morning := createSlot(t, repo, e.ID, "2025-03-03", "09:00", "11:00", 5)
	afternoon := createSlot(t, repo, e.ID, "2025-03-03", "14:00", "16:00", 5)
	require.NoError(t, repo.SetActive(ctx, afternoon.ID, false))

	t.Run("get enriches expositor", func(t *testing.T) {
		got, err := repo.GetByID(ctx, morning.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Expositor)
		assert.Equal(t, "María González", got.Expositor.FullName())
		assert.Equal(t, 0, got.ConfirmedCount)
	})

	t.Run("overlap", func(t *testing.T) {
		got, err := repo.FindOverlapping(ctx, "2025-03-03", "10:00", "12:00")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, morning.ID, got.ID)

		// Касание границ не пересечение
		got, err = repo.FindOverlapping(ctx, "2025-03-03", "11:00", "14:00")
		require.NoError(t, err)
		assert.Nil(t, got)

		// Неактивные слоты тоже учитываются
		got, err = repo.FindOverlapping(ctx, "2025-03-03", "15:00", "15:30")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, afternoon.ID, got.ID)
	})

	t.Run("list filters and orders", func(t *testing.T) {
		all, total, err := repo.List(ctx, model.SlotFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, all, 3)
		assert.Equal(t, []string{past.ID, morning.ID, afternoon.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

		active, total, err := repo.List(ctx, model.SlotFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, active, 2)

		upcoming, total, err := repo.List(ctx, model.SlotFilter{FromDate: "2025-03-01", Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, upcoming, 1)
		assert.Equal(t, afternoon.ID, upcoming[0].ID)
	})

	t.Run("set active on missing slot", func(t *testing.T) {
		assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), model.ErrNotFound)
	})
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	e := createExpositor(t, NewExpositorRepository(db), "")
	slots := NewSlotRepository(db)
	slot := createSlot(t, slots, e.ID, "2025-03-03", "09:00", "10:00", 5)
	repo := NewBookingRepository(db)

	first := newBooking(slot.ID, "ana@example.com")
	first.Phone = strPtr("+58 412")
	require.NoError(t, repo.Create(ctx, first))

	t.Run("confirmed duplicate rejected by index", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, newBooking(slot.ID, "ana@example.com")), model.ErrAlreadyBooked)

		exists, err := repo.ExistsConfirmed(ctx, "ana@example.com", slot.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("cancel frees the pair", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, first.ID, model.BookingStatusCancelled))

		exists, err := repo.ExistsConfirmed(ctx, "ana@example.com", slot.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		second := newBooking(slot.ID, "ana@example.com")
		require.NoError(t, repo.Create(ctx, second))

		// Вернуть первую запись в confirmed нельзя: пара снова занята
		assert.ErrorIs(t, repo.UpdateStatus(ctx, first.ID, model.BookingStatusConfirmed), model.ErrAlreadyBooked)
	})

	t.Run("slot counts confirmed only", func(t *testing.T) {
		got, err := slots.GetForBooking(ctx, slot.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ConfirmedCount)
	})

	t.Run("list newest first with slot", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, model.BookingStatusConfirmed, list[0].Status)
		assert.Equal(t, model.BookingStatusCancelled, list[1].Status)
		require.NotNil(t, list[0].TimeSlot)
		assert.Equal(t, "2025-03-03", list[0].TimeSlot.Date)
		assert.Equal(t, "+58 412", *list[1].Phone)
	})

	t.Run("missing", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", model.BookingStatusCancelled), model.ErrNotFound)
	})
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewExpositorRepository(db)

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, &model.Expositor{Name: "Tx", LastName: "User", Speciality: "RRHH"}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	db.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) }
	repo := NewAdminRepository(db)

	admin := &model.Admin{Username: "admin", PasswordHash: "hash", Name: "Administrador"}
	require.NoError(t, repo.Create(ctx, admin))
	assert.NotZero(t, admin.ID)

	got, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(db.now()))

	require.NoError(t, repo.UpdatePassword(ctx, "admin", "new-hash"))
	got, err = repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "ghost", "x"), model.ErrNotFound)

	missing, err := repo.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
