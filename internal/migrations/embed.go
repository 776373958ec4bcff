// Package migrations содержит SQL-миграции goose для каждой поддерживаемой БД.
package migrations

import "embed"

// Postgres миграции для основного хранилища
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite миграции для локального хранилища и тестов
//
//go:embed sqlite/*.sql
var SQLite embed.FS
