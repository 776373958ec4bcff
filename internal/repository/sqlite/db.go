// Package sqlite реализует репозитории поверх встроенного SQLite.
// Используется для локальной разработки и тестов.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Querier общий интерфейс *sql.DB и *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// DB соединение с файлом SQLite
type DB struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open открывает базу, настраивает соединение и применяет миграции.
// Используется одно соединение: SQLite допускает одного писателя, и так
// транзакции бронирования выполняются строго последовательно.
func Open(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrations.Up(ctx, sqlDB, migrations.DialectSQLite, nil); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{sqlDB: sqlDB, now: time.Now}, nil
}

// SQL возвращает исходный *sql.DB
func (d *DB) SQL() *sql.DB {
	return d.sqlDB
}

// Close закрывает соединение
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Conn возвращает транзакцию из контекста, если она есть
func (d *DB) Conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.sqlDB
}

// WithinTx выполняет fn в транзакции
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (d *DB) nowMillis() int64 {
	return d.now().UTC().UnixMilli()
}

// nullable разыменовывает необязательное поле для передачи драйверу
func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation сообщает о нарушении UNIQUE. SQLite не называет индекс,
// поэтому target сверяется со списком колонок в тексте ошибки ("bookings.email").
func isUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return target == "" || strings.Contains(err.Error(), target)
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		(target == "" || strings.Contains(message, strings.ToLower(target)))
}
