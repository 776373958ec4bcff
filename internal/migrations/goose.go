package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// goose хранит диалект и файловую систему в глобальных переменных
var gooseMu sync.Mutex

func source(dialect Dialect) (fs.FS, string, error) {
	switch dialect {
	case DialectPostgres:
		return Postgres, "postgres", nil
	case DialectSQLite:
		return SQLite, "sqlite", nil
	default:
		return nil, "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func prepare(dialect Dialect, logger goose.Logger) (string, error) {
	fsys, dir, err := source(dialect)
	if err != nil {
		return "", err
	}
	if logger == nil {
		logger = goose.NopLogger()
	}
	goose.SetLogger(logger)
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Up применяет все pending миграции для диалекта
func Up(ctx context.Context, db *sql.DB, dialect Dialect, logger goose.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(dialect, logger)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down откатывает последнюю миграцию
func Down(ctx context.Context, db *sql.DB, dialect Dialect, logger goose.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(dialect, logger)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, dir); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func Version(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := prepare(dialect, nil); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
