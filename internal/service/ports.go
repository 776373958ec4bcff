package service

import (
	"context"

	"github.com/Freeeeeet/employability_booking/internal/model"
)

// Transactor выполняет fn в одной транзакции. Хранилища, получившие
// переданный контекст, работают внутри неё.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ExpositorStore interface {
	Create(ctx context.Context, e *model.Expositor) error
	GetByID(ctx context.Context, id int64) (*model.Expositor, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]*model.Expositor, error)
	Update(ctx context.Context, e *model.Expositor) error
	HasActiveSlots(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type SlotStore interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	// GetForBooking должен блокировать слот до конца транзакции
	GetForBooking(ctx context.Context, id string) (*model.TimeSlot, error)
	FindOverlapping(ctx context.Context, date, start, end string) (*model.TimeSlot, error)
	List(ctx context.Context, filter model.SlotFilter) ([]*model.TimeSlot, int, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ExistsConfirmed(ctx context.Context, email, slotID string) (bool, error)
	List(ctx context.Context) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// BookingNotifier сообщает администраторам о новой записи
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking) error
}

// BookingMetrics учитывает исходы попыток записи
type BookingMetrics interface {
	BookingOutcome(outcome string)
}

type noopNotifier struct{}

func (noopNotifier) BookingConfirmed(context.Context, *model.Booking) error { return nil }

type noopMetrics struct{}

func (noopMetrics) BookingOutcome(string) {}
