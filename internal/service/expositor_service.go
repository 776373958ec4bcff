package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"go.uber.org/zap"
)

type ExpositorService struct {
	tx            Transactor
	expositorRepo ExpositorStore
	logger        *zap.Logger
}

func NewExpositorService(tx Transactor, expositorRepo ExpositorStore, logger *zap.Logger) *ExpositorService {
	return &ExpositorService{
		tx:            tx,
		expositorRepo: expositorRepo,
		logger:        logger,
	}
}

// CreateExpositor регистрирует экспозитора. Email, если указан, уникален.
func (s *ExpositorService) CreateExpositor(ctx context.Context, req CreateExpositorRequest) (*model.Expositor, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	expositor := &model.Expositor{
		Name:       req.Name,
		LastName:   req.LastName,
		Email:      optional(req.Email),
		Phone:      optional(req.Phone),
		Speciality: req.Speciality,
		Bio:        optional(req.Bio),
		IsActive:   true,
	}
	if req.IsActive != nil {
		expositor.IsActive = *req.IsActive
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if expositor.Email != nil {
			taken, err := s.expositorRepo.EmailTaken(ctx, *expositor.Email, 0)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
		}

		if err := s.expositorRepo.Create(ctx, expositor); err != nil {
			if errors.Is(err, model.ErrEmailTaken) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expositor created",
		zap.Int64("expositor_id", expositor.ID),
		zap.String("name", expositor.FullName()),
	)
	return expositor, nil
}

// UpdateExpositor применяет частичное обновление
func (s *ExpositorService) UpdateExpositor(ctx context.Context, id int64, req UpdateExpositorRequest) (*model.Expositor, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	var expositor *model.Expositor
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		expositor, err = s.expositorRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get expositor: %w", err)
		}
		if expositor == nil {
			return ErrExpositorNotFound
		}

		if req.Email != nil && *req.Email != "" {
			taken, err := s.expositorRepo.EmailTaken(ctx, *req.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
		}

		applyPatch(expositor, req)

		if err := s.expositorRepo.Update(ctx, expositor); err != nil {
			switch {
			case errors.Is(err, model.ErrEmailTaken):
				return ErrDuplicateEmail
			case errors.Is(err, model.ErrNotFound):
				return ErrExpositorNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expositor updated", zap.Int64("expositor_id", id))
	return expositor, nil
}

func applyPatch(e *model.Expositor, req UpdateExpositorRequest) {
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Speciality != nil {
		e.Speciality = *req.Speciality
	}
	if req.Email != nil {
		e.Email = optional(*req.Email)
	}
	if req.Phone != nil {
		e.Phone = optional(*req.Phone)
	}
	if req.Bio != nil {
		e.Bio = optional(*req.Bio)
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
}

// DeleteExpositor удаляет экспозитора без активных слотов вместе с его неактивными слотами
func (s *ExpositorService) DeleteExpositor(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		expositor, err := s.expositorRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get expositor: %w", err)
		}
		if expositor == nil {
			return ErrExpositorNotFound
		}

		active, err := s.expositorRepo.HasActiveSlots(ctx, id)
		if err != nil {
			return err
		}
		if active {
			return ErrHasActiveSlots
		}

		if err := s.expositorRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// Между проверкой и удалением появился активный слот
				return ErrHasActiveSlots
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Expositor deleted", zap.Int64("expositor_id", id))
	return nil
}

// ListExpositors возвращает всех экспозиторов по фамилии и имени
func (s *ExpositorService) ListExpositors(ctx context.Context) ([]*model.Expositor, error) {
	expositors, err := s.expositorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expositors: %w", err)
	}
	return expositors, nil
}

// GetExpositor возвращает экспозитора по ID
func (s *ExpositorService) GetExpositor(ctx context.Context, id int64) (*model.Expositor, error) {
	expositor, err := s.expositorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expositor: %w", err)
	}
	if expositor == nil {
		return nil, ErrExpositorNotFound
	}
	return expositor, nil
}
