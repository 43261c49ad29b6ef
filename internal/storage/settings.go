package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// KeyValueStore хранит строковые значения по ключу в таблице settings
type KeyValueStore struct {
	db *sql.DB
}

func NewKeyValueStore(db *sql.DB) *KeyValueStore {
	return &KeyValueStore{db: db}
}

// Get возвращает значение или ErrNotFound
func (s *KeyValueStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ключа %s: %w", key, err)
	}
	return value, nil
}

// Put записывает значение, перезаписывая старое
func (s *KeyValueStore) Put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи ключа %s: %w", key, err)
	}
	return nil
}
