package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Исходы попытки записи для метрик
const (
	OutcomeConfirmed = "confirmed"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeInactive  = "inactive"
	OutcomeFull      = "full"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

const notifyTimeout = 10 * time.Second

type BookingService struct {
	tx          Transactor
	slotRepo    SlotStore
	bookingRepo BookingStore
	notifier    BookingNotifier
	metrics     BookingMetrics
	logger      *zap.Logger
}

func NewBookingService(
	tx Transactor,
	slotRepo SlotStore,
	bookingRepo BookingStore,
	notifier BookingNotifier,
	metrics BookingMetrics,
	logger *zap.Logger,
) *BookingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &BookingService{
		tx:          tx,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateBooking записывает посетителя на слот. Проверка мест, дубликата
// и вставка выполняются в одной транзакции под блокировкой слота.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		s.metrics.BookingOutcome(OutcomeInvalid)
		return nil, err
	}

	booking := &model.Booking{
		ID:             uuid.NewString(),
		TimeSlotID:     req.TimeSlotID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          optional(req.Phone),
		Document:       req.Document,
		Campus:         req.Campus,
		AcademicStatus: optional(req.AcademicStatus),
		AcademicLevel:  optional(req.AcademicLevel),
		AdvisoryTopic:  optional(req.AdvisoryTopic),
		AdvisoryType:   optional(req.AdvisoryType),
		ServiceOption:  optional(req.ServiceOption),
		Occupation:     optional(req.Occupation),
		Comments:       optional(req.Comments),
		Status:         model.BookingStatusConfirmed,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, err := s.slotRepo.GetForBooking(ctx, req.TimeSlotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return ErrSlotNotFound
		}
		if !slot.IsActive {
			return ErrSlotInactive
		}
		if !slot.HasCapacity() {
			return ErrSlotFull
		}

		exists, err := s.bookingRepo.ExistsConfirmed(ctx, req.Email, req.TimeSlotID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBooking
		}

		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			if errors.Is(err, model.ErrAlreadyBooked) {
				return ErrDuplicateBooking
			}
			return err
		}

		slot.ConfirmedCount++
		booking.TimeSlot = slot
		return nil
	})
	if err != nil {
		s.metrics.BookingOutcome(bookingOutcome(err))
		return nil, err
	}

	s.metrics.BookingOutcome(OutcomeConfirmed)
	s.logger.Info("Booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("slot_id", booking.TimeSlotID),
		zap.String("date", booking.TimeSlot.Date),
		zap.String("start_time", booking.TimeSlot.StartTime),
		zap.Int("confirmed", booking.TimeSlot.ConfirmedCount),
		zap.Int("max_attendees", booking.TimeSlot.MaxAttendees),
	)

	// Уведомление не влияет на результат записи
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.BookingConfirmed(notifyCtx, booking); err != nil {
		s.logger.Warn("Failed to notify about booking",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	return booking, nil
}

// ListBookings возвращает все записи со слотами, новые первыми
func (s *BookingService) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking отменяет запись и освобождает место. Повторная отмена ничего не меняет.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking *model.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if booking.Status == model.BookingStatusCancelled {
			return nil
		}

		if err := s.bookingRepo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("cancel booking: %w", err)
		}
		booking.Status = model.BookingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID),
		zap.String("slot_id", booking.TimeSlotID),
	)
	return booking, nil
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrSlotInactive):
		return OutcomeInactive
	case errors.Is(err, ErrSlotFull):
		return OutcomeFull
	case errors.Is(err, ErrDuplicateBooking):
		return OutcomeDuplicate
	}
	return OutcomeError
}
