package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open открывает базу sqlite по пути и накатывает миграции
func Open(path string) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы %s: %w", path, err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка настройки базы: %w", err)
	}

	// db tuning options
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	_, err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка миграции базы: %w", err)
	}

	return db, nil
}
