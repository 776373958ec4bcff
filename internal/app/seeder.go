package app

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/model"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData демонстрационные данные
type SeedData struct {
	Days       int             `yaml:"days"`
	Expositors []SeedExpositor `yaml:"expositors"`
	Topics     []SeedTopic     `yaml:"topics"`
	Shifts     []SeedShift     `yaml:"shifts"`
}

type SeedExpositor struct {
	Name       string `yaml:"name"`
	LastName   string `yaml:"lastName"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Speciality string `yaml:"speciality"`
	Bio        string `yaml:"bio"`
}

type SeedTopic struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type SeedShift struct {
	StartTime    string `yaml:"startTime"`
	EndTime      string `yaml:"endTime"`
	MaxAttendees int    `yaml:"maxAttendees"`
	Offset       int    `yaml:"offset"`
}

// ParseSeed разбирает YAML; пустой ввод означает встроенные данные
func ParseSeed(raw []byte) (*SeedData, error) {
	if len(raw) == 0 {
		raw = defaultSeed
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(data.Expositors) == 0 || len(data.Topics) == 0 || len(data.Shifts) == 0 {
		return nil, fmt.Errorf("seed must define expositors, topics and shifts")
	}
	if data.Days <= 0 {
		data.Days = 7
	}
	return &data, nil
}

// SeedResult сколько записей создано
type SeedResult struct {
	Expositors int
	Slots      int
	Skipped    bool
}

// Seeder наполняет пустую базу через сервисы, поэтому действуют все правила
type Seeder struct {
	expositors *service.ExpositorService
	slots      *service.SlotService
	logger     *zap.Logger
}

func NewSeeder(expositors *service.ExpositorService, slots *service.SlotService, logger *zap.Logger) *Seeder {
	return &Seeder{
		expositors: expositors,
		slots:      slots,
		logger:     logger,
	}
}

// Run создаёт экспозиторов и слоты на data.Days дней начиная с завтра.
// Если экспозиторы уже есть, ничего не делает.
func (s *Seeder) Run(ctx context.Context, data *SeedData) (SeedResult, error) {
	existing, err := s.expositors.ListExpositors(ctx)
	if err != nil {
		return SeedResult{}, err
	}
	if len(existing) > 0 {
		s.logger.Info("Database already has expositors, skipping seed", zap.Int("expositors", len(existing)))
		return SeedResult{Skipped: true}, nil
	}

	var result SeedResult
	created := make([]*model.Expositor, 0, len(data.Expositors))
	for _, e := range data.Expositors {
		expositor, err := s.expositors.CreateExpositor(ctx, service.CreateExpositorRequest{
			Name:       e.Name,
			LastName:   e.LastName,
			Email:      e.Email,
			Phone:      e.Phone,
			Speciality: e.Speciality,
			Bio:        e.Bio,
		})
		if err != nil {
			return result, fmt.Errorf("seed expositor %s %s: %w", e.Name, e.LastName, err)
		}
		created = append(created, expositor)
		result.Expositors++
	}

	today, err := time.Parse(model.DateLayout, s.slots.Today())
	if err != nil {
		return result, fmt.Errorf("parse today: %w", err)
	}

	for day := 1; day <= data.Days; day++ {
		date := today.AddDate(0, 0, day).Format(model.DateLayout)
		for _, shift := range data.Shifts {
			idx := day - 1 + shift.Offset
			topic := data.Topics[idx%len(data.Topics)]
			expositor := created[idx%len(created)]

			_, err := s.slots.CreateTimeSlot(ctx, service.CreateTimeSlotRequest{
				Date:         date,
				StartTime:    shift.StartTime,
				EndTime:      shift.EndTime,
				MaxAttendees: shift.MaxAttendees,
				Title:        topic.Title,
				Description:  topic.Description,
				ExpositorID:  expositor.ID,
			})
			if err != nil {
				return result, fmt.Errorf("seed slot %s %s: %w", date, shift.StartTime, err)
			}
			result.Slots++
		}
	}

	s.logger.Info("Seed data created",
		zap.Int("expositors", result.Expositors),
		zap.Int("slots", result.Slots),
	)
	return result, nil
}
