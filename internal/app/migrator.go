package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/employability_booking/internal/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Migrator обёртка над goose со встроенными миграциями
type Migrator struct {
	db      *sql.DB
	ownsDB  bool
	dialect migrations.Dialect
	logger  *zap.Logger
}

// NewPostgresMigrator создаёт мигратор поверх пула pgx
func NewPostgresMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	// Goose работает с *sql.DB, поэтому создаём его из пула
	return &Migrator{
		db:      stdlib.OpenDBFromPool(pool),
		ownsDB:  true,
		dialect: migrations.DialectPostgres,
		logger:  logger,
	}
}

// NewSQLiteMigrator создаёт мигратор поверх открытой базы SQLite
func NewSQLiteMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:      db,
		dialect: migrations.DialectSQLite,
		logger:  logger,
	}
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("Applying database migrations", zap.String("dialect", string(mg.dialect)))

	if err := migrations.Up(ctx, mg.db, mg.dialect, newGooseLogger(mg.logger)); err != nil {
		return err
	}

	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}
	mg.logger.Info("Migrations applied successfully", zap.Int64("version", version))
	return nil
}

// Down откатывает последнюю миграцию
func (mg *Migrator) Down(ctx context.Context) error {
	if err := migrations.Down(ctx, mg.db, mg.dialect, newGooseLogger(mg.logger)); err != nil {
		return err
	}
	mg.logger.Info("Rolled back one migration")
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := migrations.Version(ctx, mg.db, mg.dialect)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает соединение мигратора, если оно создано им самим
func (mg *Migrator) Close() error {
	// Пул pgx не закрываем, он управляется владельцем
	if mg.ownsDB && mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
