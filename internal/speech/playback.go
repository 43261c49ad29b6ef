package speech

import (
	"fmt"

	"voice-interview/internal/log"
)

// Playback озвучивает текст. В каждый момент звучит не больше одной фразы:
// новая фраза отменяет текущую.
type Playback struct {
	synth   Synthesizer
	current string
}

// NewPlayback оборачивает синтезатор. Без синтезатора озвучка просто пропускается.
func NewPlayback(synth Synthesizer) *Playback {
	return &Playback{synth: synth}
}

// Available сообщает, есть ли синтез речи на платформе
func (p *Playback) Available() bool {
	return p != nil && p.synth != nil
}

// Speak отменяет текущую фразу и запускает новую
func (p *Playback) Speak(text, lang string, volume float64) error {
	if !p.Available() {
		return nil
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	if err := p.synth.Cancel(); err != nil {
		log.Warnf("speech: cancel before speak failed: %v", err)
	}
	p.current = ""
	if err := p.synth.Speak(text, lang, volume); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	p.current = text
	return nil
}

// Cancel останавливает текущую фразу
func (p *Playback) Cancel() error {
	if !p.Available() {
		return nil
	}
	p.current = ""
	return p.synth.Cancel()
}

// Current последняя запущенная фраза
func (p *Playback) Current() string {
	if p == nil {
		return ""
	}
	return p.current
}
