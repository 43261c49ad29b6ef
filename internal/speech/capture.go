package speech

import (
	"fmt"
	"strings"

	"voice-interview/internal/log"
)

type captureState int

const (
	stateIdle captureState = iota
	stateListening
	stateStopping
)

// Capture накапливает транскрипт из потока распознавания.
// В транскрипт попадают только финальные сегменты, промежуточные хранятся как превью.
// Не потокобезопасен: события и команды должны приходить из одного места.
type Capture struct {
	rec    Recognizer
	lang   string
	state  captureState
	stream uint64

	transcript strings.Builder
	interim    string

	// после автоперезапуска платформа может повторить последний финальный сегмент
	lastFinal      string
	restarted      bool
	restarts       int
	lastRecognized *RecognitionError
}

// NewCapture оборачивает платформенный распознаватель.
// Если распознавателя нет, возвращает ErrUnsupportedPlatform.
func NewCapture(rec Recognizer, lang string) (*Capture, error) {
	if rec == nil {
		return nil, ErrUnsupportedPlatform
	}
	return &Capture{rec: rec, lang: lang}, nil
}

// Start начинает непрерывное распознавание. Транскрипт не очищается.
func (c *Capture) Start() error {
	if c.state == stateListening {
		return nil
	}
	if err := c.open(); err != nil {
		c.state = stateIdle
		return fmt.Errorf("start recognition (%s): %w", c.lang, err)
	}
	c.state = stateListening
	c.restarted = false
	c.interim = ""
	c.lastRecognized = nil
	return nil
}

// Stop мягко завершает поток. Финальные сегменты, пришедшие до "ended", еще учитываются.
func (c *Capture) Stop() error {
	if c.state != stateListening {
		return nil
	}
	c.state = stateStopping
	c.interim = ""
	if err := c.rec.Stop(); err != nil {
		c.state = stateIdle
		return fmt.Errorf("stop recognition: %w", err)
	}
	return nil
}

// Abort немедленно завершает поток без учета незавершенных сегментов
func (c *Capture) Abort() error {
	if c.state == stateIdle {
		return nil
	}
	c.state = stateIdle
	c.interim = ""
	if err := c.rec.Abort(); err != nil {
		return fmt.Errorf("abort recognition: %w", err)
	}
	return nil
}

// Reset заменяет накопленный транскрипт.
// Хвост предыдущего остановленного потока после этого игнорируется.
func (c *Capture) Reset(text string) {
	c.transcript.Reset()
	c.transcript.WriteString(text)
	c.interim = ""
	c.lastFinal = ""
	if c.state == stateStopping {
		c.state = stateIdle
	}
}

// SetLanguage меняет язык. Активный поток прерывается, чтобы не держать микрофон.
func (c *Capture) SetLanguage(lang string) error {
	if lang == c.lang {
		return nil
	}
	err := c.Abort()
	c.lang = lang
	return err
}

func (c *Capture) Language() string {
	return c.lang
}

// Transcript возвращает накопленный финальный текст
func (c *Capture) Transcript() string {
	return c.transcript.String()
}

// Interim возвращает текущий промежуточный текст (только для отображения)
func (c *Capture) Interim() string {
	return c.interim
}

// Listening сообщает, что вызывающий код хочет слушать
func (c *Capture) Listening() bool {
	return c.state == stateListening
}

// Stream номер текущего потока распознавания
func (c *Capture) Stream() uint64 {
	return c.stream
}

// Restarts количество автоматических перезапусков
func (c *Capture) Restarts() int {
	return c.restarts
}

// Handle применяет одно событие потока.
// События чужих потоков (хвосты остановленных или прерванных) отбрасываются.
// Возвращает *RecognitionError для ошибок платформы; прослушивание при этом выключается.
func (c *Capture) Handle(ev Event) error {
	if ev.Stream != c.stream {
		log.Debugf("speech: dropped %s event of stream %d, current %d", ev.Kind, ev.Stream, c.stream)
		return nil
	}

	switch c.state {
	case stateIdle:
		// остатки прерванного или уже сброшенного потока
		return nil
	case stateStopping:
		switch ev.Kind {
		case EventFinal:
			c.appendFinal(ev.Text)
		case EventEnded, EventError:
			c.state = stateIdle
		}
		return nil
	}

	switch ev.Kind {
	case EventInterim:
		c.interim = ev.Text
	case EventFinal:
		c.interim = ""
		c.appendFinal(ev.Text)
	case EventError:
		c.state = stateIdle
		c.interim = ""
		recErr := &RecognitionError{Code: ev.Err}
		c.lastRecognized = recErr
		return recErr
	case EventEnded:
		// поток закончился сам, а мы все еще слушаем: перезапускаем
		c.restarts++
		c.interim = ""
		log.Debugf("speech: stream ended while listening, restart #%d", c.restarts)
		if err := c.open(); err != nil {
			c.state = stateIdle
			recErr := &RecognitionError{Code: err.Error()}
			c.lastRecognized = recErr
			return recErr
		}
		c.restarted = true
	default:
		log.Warnf("speech: unknown event kind %q", ev.Kind)
	}
	return nil
}

// LastError последняя ошибка распознавания с момента Start
func (c *Capture) LastError() *RecognitionError {
	return c.lastRecognized
}

// open запускает новый поток под следующим номером
func (c *Capture) open() error {
	c.stream++
	return c.rec.Start(c.lang, c.stream)
}

func (c *Capture) appendFinal(text string) {
	segment := strings.TrimSpace(text)
	if segment == "" {
		return
	}
	if c.restarted {
		c.restarted = false
		if segment == c.lastFinal {
			return
		}
	}
	if c.transcript.Len() > 0 {
		c.transcript.WriteByte(' ')
	}
	c.transcript.WriteString(segment)
	c.lastFinal = segment
}
