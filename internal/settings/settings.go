package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"voice-interview/internal/log"
	"voice-interview/internal/storage"
)

// StorageKey ключ, под которым лежат настройки
const StorageKey = "interviewSettings"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	TextSizeSmall  = "sm"
	TextSizeMedium = "md"
	TextSizeLarge  = "lg"
)

// Settings пользовательские настройки интерфейса и озвучки
type Settings struct {
	Volume   float64 `json:"volume"`
	Theme    string  `json:"theme"`
	TextSize string  `json:"textSize"`
}

// ErrInvalid недопустимые значения настроек
var ErrInvalid = errors.New("invalid settings")

// Defaults настройки по умолчанию
func Defaults() Settings {
	return Settings{
		Volume:   0.8,
		Theme:    ThemeLight,
		TextSize: TextSizeMedium,
	}
}

// Validate проверяет диапазоны
func (s Settings) Validate() error {
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("%w: volume must be within 0..1, got %v", ErrInvalid, s.Volume)
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, s.Theme)
	}
	switch s.TextSize {
	case TextSizeSmall, TextSizeMedium, TextSizeLarge:
	default:
		return fmt.Errorf("%w: unknown text size %q", ErrInvalid, s.TextSize)
	}
	return nil
}

// Patch частичное изменение: nil поля не трогаются
type Patch struct {
	Volume   *float64 `json:"volume,omitempty"`
	Theme    *string  `json:"theme,omitempty"`
	TextSize *string  `json:"textSize,omitempty"`
}

// Store хранилище строк по ключу. Отсутствие ключа - storage.ErrNotFound
type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Manager держит настройки в памяти и пишет их в хранилище при каждом изменении
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current Settings
}

// Load читает настройки один раз при старте.
// Сохраненные значения накладываются на значения по умолчанию,
// отсутствующие или испорченные данные дают значения по умолчанию.
func Load(store Store) *Manager {
	m := &Manager{store: store, current: Defaults()}

	raw, err := store.Get(StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return m
	case err != nil:
		log.Warnf("settings: ошибка чтения, используются значения по умолчанию: %v", err)
		return m
	}

	merged := Defaults()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		log.Warnf("settings: испорченные данные, используются значения по умолчанию: %v", err)
		return m
	}
	if err := merged.Validate(); err != nil {
		log.Warnf("settings: недопустимые значения, используются значения по умолчанию: %v", err)
		return m
	}

	m.current = merged
	return m
}

func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Volume громкость озвучки
func (m *Manager) Volume() float64 {
	return m.Get().Volume
}

// Update применяет изменения и сразу сохраняет их
func (m *Manager) Update(p Patch) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current
	if p.Volume != nil {
		next.Volume = *p.Volume
	}
	if p.Theme != nil {
		next.Theme = *p.Theme
	}
	if p.TextSize != nil {
		next.TextSize = *p.TextSize
	}
	if err := next.Validate(); err != nil {
		return m.current, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return m.current, fmt.Errorf("ошибка сериализации настроек: %w", err)
	}
	if err := m.store.Put(StorageKey, string(data)); err != nil {
		return m.current, fmt.Errorf("ошибка сохранения настроек: %w", err)
	}

	m.current = next
	return next, nil
}
