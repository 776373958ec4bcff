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

// SlotConfig правила управления слотами
type SlotConfig struct {
	AllowOverlapping bool
	Location         *time.Location // часовой пояс для "сегодня"
	DefaultLimit     int
	MaxLimit         int
}

type SlotService struct {
	tx            Transactor
	slotRepo      SlotStore
	expositorRepo ExpositorStore
	cfg           SlotConfig
	now           func() time.Time
	logger        *zap.Logger
}

func NewSlotService(
	tx Transactor,
	slotRepo SlotStore,
	expositorRepo ExpositorStore,
	cfg SlotConfig,
	logger *zap.Logger,
) *SlotService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &SlotService{
		tx:            tx,
		slotRepo:      slotRepo,
		expositorRepo: expositorRepo,
		cfg:           cfg,
		now:           time.Now,
		logger:        logger,
	}
}

// SetClock подменяет источник текущего времени
func (s *SlotService) SetClock(now func() time.Time) {
	s.now = now
}

// Today возвращает текущую дату в настроенном часовом поясе
func (s *SlotService) Today() string {
	return s.now().In(s.cfg.Location).Format(model.DateLayout)
}

// CreateTimeSlot создаёт слот у существующего экспозитора
func (s *SlotService) CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*model.TimeSlot, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// HH:MM с ведущими нулями сравниваются как строки
	if req.StartTime >= req.EndTime {
		return nil, ErrInvalidRange
	}

	slot := &model.TimeSlot{
		ID:           uuid.NewString(),
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MaxAttendees: req.MaxAttendees,
		Title:        optional(req.Title),
		Description:  optional(req.Description),
		ExpositorID:  req.ExpositorID,
		IsActive:     true,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		expositor, err := s.expositorRepo.GetByID(ctx, req.ExpositorID)
		if err != nil {
			return fmt.Errorf("get expositor: %w", err)
		}
		if expositor == nil {
			return ErrUnknownExpositor
		}

		if !s.cfg.AllowOverlapping {
			existing, err := s.slotRepo.FindOverlapping(ctx, req.Date, req.StartTime, req.EndTime)
			if err != nil {
				return fmt.Errorf("find overlapping slot: %w", err)
			}
			if existing != nil {
				s.logger.Debug("Slot overlaps existing one",
					zap.String("date", req.Date),
					zap.String("existing_id", existing.ID),
				)
				return ErrOverlap
			}
		}

		if err := s.slotRepo.Create(ctx, slot); err != nil {
			return err
		}
		slot.Expositor = expositor.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Time slot created",
		zap.String("slot_id", slot.ID),
		zap.Int64("expositor_id", slot.ExpositorID),
		zap.String("date", slot.Date),
		zap.String("start_time", slot.StartTime),
		zap.String("end_time", slot.EndTime),
	)
	return slot, nil
}

// ToggleSlotActive включает или выключает слот. Записи на слот не затрагиваются.
func (s *SlotService) ToggleSlotActive(ctx context.Context, id string, active bool) (*model.TimeSlot, error) {
	if err := s.slotRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("set slot active: %w", err)
	}

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	s.logger.Info("Time slot toggled",
		zap.String("slot_id", id),
		zap.Bool("is_active", active),
	)
	return slot, nil
}

// ListTimeSlots возвращает страницу слотов для администратора.
// Без ShowPast прошедшие даты отбрасываются.
func (s *SlotService) ListTimeSlots(ctx context.Context, filter model.SlotFilter) (*model.SlotPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultLimit
	}
	if filter.Limit > s.cfg.MaxLimit {
		filter.Limit = s.cfg.MaxLimit
	}
	filter.FromDate = ""
	if !filter.ShowPast {
		filter.FromDate = s.Today()
	}

	slots, total, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	return &model.SlotPage{
		Slots:      slots,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// ListAvailableSlots возвращает все активные слоты для публичной страницы
func (s *SlotService) ListAvailableSlots(ctx context.Context) ([]*model.TimeSlot, error) {
	slots, _, err := s.slotRepo.List(ctx, model.SlotFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}
