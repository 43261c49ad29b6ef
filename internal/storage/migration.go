package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"voice-interview/internal/log"
)

//go:embed migrations
var dbMigrations embed.FS

// migrateDB накатывает встроенные миграции и возвращает версию схемы
func migrateDB(db *sql.DB) (uint, error) {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("источник миграций: %w", err)
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return 0, fmt.Errorf("драйвер миграций sqlite3: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return 0, fmt.Errorf("инициализация миграций: %w", err)
	}

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return 0, fmt.Errorf("версия схемы: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("схема версии %d в незавершенном состоянии", version)
	}

	log.Debugf("storage: схема базы версии %d", version)
	return version, nil
}
