package speech

import (
	"context"
	"errors"
	"fmt"
)

// EventKind тип события распознавания
type EventKind string

const (
	EventInterim EventKind = "interim"
	EventFinal   EventKind = "final"
	EventError   EventKind = "error"
	EventEnded   EventKind = "ended"
)

// Event одно событие потока распознавания.
// Text заполнен для interim/final, Err - для error.
// Stream номер потока, переданный в Recognizer.Start.
type Event struct {
	Stream uint64    `json:"stream"`
	Kind   EventKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Err    string    `json:"error,omitempty"`
}

// Recognizer платформенный поток распознавания речи (непрерывный, с промежуточными результатами).
// Каждый Start открывает новый поток с номером stream; события потока несут этот номер.
// Next блокируется до следующего события или отмены контекста.
type Recognizer interface {
	Start(lang string, stream uint64) error
	Stop() error
	Abort() error
	Next(ctx context.Context) (Event, error)
}

// Synthesizer платформенный синтез речи
type Synthesizer interface {
	Speak(text, lang string, volume float64) error
	Cancel() error
}

var ErrUnsupportedPlatform = errors.New("speech recognition is not supported on this platform")

// RecognitionError ошибка, о которой сообщила платформа во время записи
type RecognitionError struct {
	Code string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("speech recognition error: %s", e.Code)
}
