package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voice-interview/internal/log"
	"voice-interview/internal/speech"
)

const (
	helloTimeout = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// ErrBridgeClosed браузер отключился
var ErrBridgeClosed = errors.New("speech bridge closed")

// clientMessage кадр от браузера: hello, затем события распознавания
type clientMessage struct {
	Type        string           `json:"type"`
	Recognition bool             `json:"recognition,omitempty"`
	Synthesis   bool             `json:"synthesis,omitempty"`
	Stream      uint64           `json:"stream,omitempty"`
	Kind        speech.EventKind `json:"kind,omitempty"`
	Text        string           `json:"text,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// serverMessage команда браузеру
type serverMessage struct {
	Type   string   `json:"type"`
	Lang   string   `json:"lang,omitempty"`
	Stream uint64   `json:"stream,omitempty"`
	Text   string   `json:"text,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
	Error  string   `json:"error,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// клиент отдается этим же сервером
		return true
	},
}

// bridge пересылает команды речи в браузер и события распознавания обратно
type bridge struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	events  chan speech.Event
	done    chan struct{}
}

func newBridge(conn *websocket.Conn) *bridge {
	return &bridge{
		conn:   conn,
		events: make(chan speech.Event, 64),
		done:   make(chan struct{}),
	}
}

func (b *bridge) send(msg serverMessage) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	select {
	case <-b.done:
		return ErrBridgeClosed
	default:
	}

	_ = b.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return b.conn.WriteJSON(msg)
}

// readLoop читает кадры до ошибки соединения, затем закрывает done
func (b *bridge) readLoop(ctx context.Context, forward bool) {
	defer close(b.done)
	for {
		mt, data, err := b.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("speech bridge: read: %v", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var msg clientMessage
		if json.Unmarshal(data, &msg) != nil {
			continue
		}
		if strings.ToLower(msg.Type) != "speech" || !forward {
			continue
		}
		ev := speech.Event{Stream: msg.Stream, Kind: msg.Kind, Text: msg.Text, Err: msg.Error}
		select {
		case b.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

type bridgeRecognizer struct {
	b *bridge
}

// Start браузер повторяет stream в каждом кадре speech этого потока
func (r *bridgeRecognizer) Start(lang string, stream uint64) error {
	return r.b.send(serverMessage{Type: "recognition.start", Lang: lang, Stream: stream})
}

func (r *bridgeRecognizer) Stop() error {
	return r.b.send(serverMessage{Type: "recognition.stop"})
}

func (r *bridgeRecognizer) Abort() error {
	return r.b.send(serverMessage{Type: "recognition.abort"})
}

func (r *bridgeRecognizer) Next(ctx context.Context) (speech.Event, error) {
	select {
	case ev := <-r.b.events:
		return ev, nil
	case <-r.b.done:
		return speech.Event{}, ErrBridgeClosed
	case <-ctx.Done():
		return speech.Event{}, ctx.Err()
	}
}

type bridgeSynthesizer struct {
	b *bridge
}

func (s *bridgeSynthesizer) Speak(text, lang string, volume float64) error {
	return s.b.send(serverMessage{Type: "speak", Text: text, Lang: lang, Volume: &volume})
}

func (s *bridgeSynthesizer) Cancel() error {
	return s.b.send(serverMessage{Type: "speak.cancel"})
}

// ServeSpeech подключает речь браузера к сессии.
// Первый кадр - hello с возможностями платформы.
func (s *Server) ServeSpeech(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("speech bridge: upgrade: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	var hello clientMessage
	if err := conn.ReadJSON(&hello); err != nil || strings.ToLower(hello.Type) != "hello" {
		_ = conn.WriteJSON(serverMessage{Type: "error", Error: "hello expected"})
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	b := newBridge(conn)

	// интерфейсы остаются nil, если платформа не умеет
	var rec speech.Recognizer
	var synth speech.Synthesizer
	if hello.Recognition {
		rec = &bridgeRecognizer{b: b}
	}
	if hello.Synthesis {
		synth = &bridgeSynthesizer{b: b}
	}

	log.Infof("speech bridge: подключен %s (recognition=%t, synthesis=%t)", clientAddr(r), hello.Recognition, hello.Synthesis)
	detach := s.machine.AttachSpeech(rec, synth)
	defer detach()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go b.readLoop(ctx, rec != nil)

	if rec == nil {
		<-b.done
	} else if err := s.machine.RunSpeech(ctx, rec); err != nil && !errors.Is(err, ErrBridgeClosed) {
		log.Debugf("speech bridge: %v", err)
	}
	log.Infof("speech bridge: отключен %s", clientAddr(r))
}
