package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/config"
	"github.com/Freeeeeet/employability_booking/internal/repository"
	"github.com/Freeeeeet/employability_booking/internal/repository/base"
	"github.com/Freeeeeet/employability_booking/internal/repository/sqlite"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store хранилища сервисов поверх выбранной БД
type Store struct {
	Tx         service.Transactor
	Expositors service.ExpositorStore
	Slots      service.SlotStore
	Bookings   service.BookingStore
	Admins     service.AdminStore

	migrator *Migrator
	ping     func(ctx context.Context) error
	close    func()
}

// OpenStore подключается к БД из конфигурации. Для PostgreSQL миграции
// применяются при cfg.AutoMigrate, SQLite мигрирует при открытии всегда.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	migrator := NewPostgresMigrator(pool, logger)
	if cfg.AutoMigrate {
		if err := migrator.Run(ctx); err != nil {
			_ = migrator.Close()
			pool.Close()
			return nil, err
		}
	}

	logger.Info("Connected to PostgreSQL")
	return &Store{
		Tx:         base.NewRepository(pool),
		Expositors: repository.NewExpositorRepository(pool),
		Slots:      repository.NewSlotRepository(pool),
		Bookings:   repository.NewBookingRepository(pool),
		Admins:     repository.NewAdminRepository(pool),
		migrator:   migrator,
		ping:       pool.Ping,
		close: func() {
			_ = migrator.Close()
			pool.Close()
		},
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("Opened SQLite database", zap.String("path", cfg.DBDSN))
	return &Store{
		Tx:         db,
		Expositors: sqlite.NewExpositorRepository(db),
		Slots:      sqlite.NewSlotRepository(db),
		Bookings:   sqlite.NewBookingRepository(db),
		Admins:     sqlite.NewAdminRepository(db),
		migrator:   NewSQLiteMigrator(db.SQL(), logger),
		ping:       db.SQL().PingContext,
		close:      func() { _ = db.Close() },
	}, nil
}

// Migrator возвращает мигратор этой БД
func (s *Store) Migrator() *Migrator {
	return s.migrator
}

// Ping проверяет соединение с БД
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close закрывает соединения
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
