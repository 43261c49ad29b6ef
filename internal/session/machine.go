package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voice-interview/internal/config"
	"voice-interview/internal/interview"
	"voice-interview/internal/interviewer"
	"voice-interview/internal/log"
	"voice-interview/internal/metrics"
	"voice-interview/internal/speech"
)

const defaultVolume = 0.8

// Machine единственная живая сессия интервью.
// Все переходы сериализуются мьютексом; удаленные вызовы делаются без него
// и помечаются номером поколения сессии.
type Machine struct {
	mu sync.Mutex

	config      *config.Config
	interviewer Interviewer
	results     ResultRecorder
	volume      VolumeSource
	metrics     *metrics.Metrics

	// фоновые задачи (оценка) живут до Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// речь браузера; capture == nil, если распознавание недоступно
	attachID   uint64
	recognizer speech.Recognizer
	capture    *speech.Capture
	playback   *speech.Playback
	detached   string

	sessionID  string
	generation uint64
	pending    bool

	screen     Screen
	uiLanguage string
	applicant  *interview.ApplicantInfo
	questions  []interview.Question
	index      int
	ledger     *interview.Ledger
	answering  bool

	introduction         string
	introductionComplete bool
	recording            bool

	loading    bool
	evaluation *interview.Evaluation
	resultID   string
	errMsg     string
}

// New создает сессию на экране Home. results и volume могут быть nil.
func New(cfg *config.Config, svc Interviewer, results ResultRecorder, volume VolumeSource, m *metrics.Metrics) *Machine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		config:      cfg,
		interviewer: svc,
		results:     results,
		volume:      volume,
		metrics:     m,
		ctx:         ctx,
		cancel:      cancel,
		playback:    speech.NewPlayback(nil),
		sessionID:   uuid.New().String(),
		screen:      ScreenHome,
		uiLanguage:  cfg.GetDefaultLanguage(),
	}
}

// Close отменяет фоновые задачи и освобождает микрофон
func (m *Machine) Close() {
	m.cancel()
	m.mu.Lock()
	m.abortCapture()
	m.cancelPlayback()
	m.mu.Unlock()
	m.wg.Wait()
}

// Wait ждет завершения фоновых задач
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Start Home -> Form
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.screen {
	case ScreenForm:
		return nil
	case ScreenHome:
		m.screen = ScreenForm
		m.errMsg = ""
		return nil
	}
	return m.invalid("start")
}

// Back возвращает на предыдущий экран: Form -> Home, Preview -> Form, Introduction -> Preview
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.screen {
	case ScreenForm:
		// незавершенная генерация вопросов больше не нужна
		m.generation++
		m.pending = false
		m.screen = ScreenHome
		m.errMsg = ""
	case ScreenPreview:
		m.screen = ScreenForm
		m.errMsg = ""
	case ScreenIntroduction:
		m.abortCapture()
		m.cancelPlayback()
		m.recording = false
		m.screen = ScreenPreview
		m.errMsg = ""
	default:
		return m.invalid("back")
	}
	return nil
}

// SetLanguage меняет язык интерфейса.
// Если меняется язык распознавания, активная запись прерывается.
func (m *Machine) SetLanguage(lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.config.IsSupportedLanguage(lang) {
		return &interview.ValidationError{Fields: []string{"language"}}
	}
	m.uiLanguage = lang
	m.syncCaptureLanguage()
	return nil
}

// Submit проверяет данные кандидата и запрашивает вопросы: Form -> Preview.
// При ошибке сессия остается на Form с сообщением.
func (m *Machine) Submit(ctx context.Context, info interview.ApplicantInfo) error {
	m.mu.Lock()
	if m.screen != ScreenForm {
		defer m.mu.Unlock()
		return m.invalid("submit")
	}
	if m.pending {
		m.mu.Unlock()
		return ErrInFlight
	}

	info = info.Normalize()
	if info.Language == "" {
		info.Language = m.uiLanguage
	}
	if info.Purpose == "" && len(m.config.Purposes) > 0 {
		info.Purpose = m.config.Purposes[0]
	}
	if err := m.validateApplicant(info); err != nil {
		m.errMsg = m.config.MessagesFor(info.Language).MissingFields
		m.mu.Unlock()
		return err
	}

	m.applicant = &info
	m.syncCaptureLanguage()
	m.pending = true
	m.errMsg = ""
	gen := m.generation
	logger := log.WithField("session", m.sessionID)
	m.mu.Unlock()

	logger.Infof("генерация вопросов: %s, %s (%s)", info.Position, info.CompanyName, info.Language)
	questions, err := m.interviewer.GenerateQuestions(ctx, info)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation || m.screen != ScreenForm {
		logger.Debugf("результат генерации отброшен: сессия изменилась")
		return ErrStale
	}
	m.pending = false

	if err == nil && len(questions) == 0 {
		err = &interviewer.GenerationError{Err: errors.New("no questions returned")}
	}
	if err != nil {
		logger.Warnf("генерация вопросов не удалась: %v", err)
		m.questions = nil
		m.errMsg = m.messages().ErrorGeneratingQuestions
		return err
	}

	m.questions = questions
	m.ledger = interview.NewLedger(questions, m.config.GetNoAnswerText())
	m.index = 0
	m.screen = ScreenPreview
	m.metrics.IncrementInterviewsStarted()
	return nil
}

// PreviewNext Preview -> Introduction
func (m *Machine) PreviewNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.screen {
	case ScreenIntroduction:
		return nil
	case ScreenPreview:
		m.screen = ScreenIntroduction
		m.errMsg = ""
		m.recording = false
		m.introductionComplete = false
		m.resetTranscript("")
		m.speak(m.messages().IntroductionGreeting)
		return nil
	}
	return m.invalid("preview next")
}

// StartIntroduction начинает запись самопрезентации (в том числе повторную)
func (m *Machine) StartIntroduction() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenIntroduction {
		return m.invalid("start introduction")
	}
	if m.recording {
		return nil
	}

	m.resetTranscript("")
	m.introductionComplete = false
	m.errMsg = ""
	if err := m.startCapture(); err != nil {
		return err
	}
	m.recording = true
	return nil
}

// StopIntroduction останавливает запись. Самопрезентация считается записанной,
// если текст длиннее минимальной длины.
func (m *Machine) StopIntroduction() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenIntroduction {
		return m.invalid("stop introduction")
	}
	if !m.recording {
		return nil
	}
	m.recording = false
	m.stopCapture()
	m.checkIntroduction()
	return nil
}

// CompleteIntroduction сохраняет самопрезентацию и начинает интервью: Introduction -> Interview
func (m *Machine) CompleteIntroduction() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.screen {
	case ScreenInterview:
		return nil
	case ScreenIntroduction:
	default:
		return m.invalid("complete introduction")
	}

	if m.recording {
		m.recording = false
		m.stopCapture()
		m.checkIntroduction()
	}
	if !m.introductionComplete {
		m.errMsg = m.messages().IntroductionTooShort
		return ErrIntroductionTooShort
	}

	m.introduction = strings.TrimSpace(m.transcript())
	m.abortCapture()
	m.errMsg = ""
	m.screen = ScreenInterview
	m.enterQuestion(0)
	return nil
}

// Restart полный сброс сессии, доступен с любого экрана
func (m *Machine) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.abortCapture()
	m.cancelPlayback()
	m.resetTranscript("")

	m.generation++
	m.pending = false
	m.sessionID = uuid.New().String()
	m.screen = ScreenHome
	m.applicant = nil
	m.questions = nil
	m.index = 0
	m.ledger = nil
	m.answering = false
	m.introduction = ""
	m.introductionComplete = false
	m.recording = false
	m.loading = false
	m.evaluation = nil
	m.resultID = ""
	m.errMsg = ""
	m.syncCaptureLanguage()

	log.WithField("session", m.sessionID).Info("сессия сброшена")
}

// AttachSpeech подключает речь браузера. Новое подключение заменяет предыдущее.
// rec или synth равны nil, если платформа их не поддерживает.
// Возвращает функцию отключения.
func (m *Machine) AttachSpeech(rec speech.Recognizer, synth speech.Synthesizer) (detach func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	text := m.transcript()
	m.abortCapture()
	m.cancelPlayback()

	m.attachID++
	id := m.attachID
	m.recognizer = rec
	m.capture = nil
	m.detached = text
	m.playback = speech.NewPlayback(synth)
	m.recording = false

	if rec != nil {
		capture, err := speech.NewCapture(rec, m.speechLanguage())
		if err == nil {
			capture.Reset(text)
			m.capture = capture
		}
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.attachID != id {
			return
		}
		m.detached = m.transcript()
		m.recognizer = nil
		m.capture = nil
		m.playback = speech.NewPlayback(nil)
		m.recording = false
	}
}

// HandleSpeechEvent применяет событие распознавания от rec.
// События от уже отключенного распознавателя игнорируются.
func (m *Machine) HandleSpeechEvent(rec speech.Recognizer, ev speech.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.capture == nil || rec != m.recognizer {
		return nil
	}

	err := m.capture.Handle(ev)
	var recErr *speech.RecognitionError
	if errors.As(err, &recErr) {
		msgs := m.messages()
		m.errMsg = fmt.Sprintf("%s: %s. %s", msgs.ErrorOccurred, recErr.Code, msgs.CheckMicPermissions)
		m.recording = false
		log.WithField("session", m.sessionID).Warnf("ошибка распознавания: %s", recErr.Code)
	}

	if m.screen == ScreenIntroduction && !m.recording {
		// хвост остановленного потока тоже входит в самопрезентацию
		m.checkIntroduction()
	}
	return err
}

// RunSpeech читает поток событий rec до ошибки или отмены контекста
func (m *Machine) RunSpeech(ctx context.Context, rec speech.Recognizer) error {
	for {
		ev, err := rec.Next(ctx)
		if err != nil {
			return err
		}
		m.HandleSpeechEvent(rec, ev)
	}
}

// Snapshot возвращает текущее состояние сессии
func (m *Machine) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view()
}

func (m *Machine) view() View {
	v := View{
		SessionID:            m.sessionID,
		Generation:           m.generation,
		Screen:               m.screen,
		Language:             m.uiLanguage,
		SpeechLanguage:       m.speechLanguage(),
		Questions:            append([]interview.Question{}, m.questions...),
		CurrentIndex:         m.index,
		Answers:              []interview.Answer{},
		Introduction:         m.introduction,
		IntroductionComplete: m.introductionComplete,
		Recording:            m.recording,
		Answering:            m.answering,
		Transcript:           m.transcript(),
		Loading:              m.loading || m.pending,
		ResultID:             m.resultID,
		Error:                m.errMsg,
		RecognitionAvailable: m.capture != nil,
		SynthesisAvailable:   m.playback.Available(),
	}
	if m.applicant != nil {
		info := *m.applicant
		v.Applicant = &info
	}
	if m.capture != nil {
		v.Listening = m.capture.Listening()
		v.Interim = m.capture.Interim()
	}
	if m.ledger != nil {
		v.Answers = m.ledger.Entries()
	}
	if m.screen == ScreenInterview && m.index < len(m.questions) {
		q := m.questions[m.index]
		v.CurrentQuestion = &q
		if a, ok := m.ledger.Get(q.ID); ok {
			v.CurrentMarked = a.MarkedForReview
		}
	}
	if m.screen == ScreenResults && m.evaluation != nil {
		ev := *m.evaluation
		v.Evaluation = &ev
		v.Passed = ev.Passed(m.config.GetPassThreshold())
	}
	return v
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, action, m.screen)
}

func (m *Machine) validateApplicant(info interview.ApplicantInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	var bad []string
	if !m.config.IsSupportedLanguage(info.Language) {
		bad = append(bad, "language")
	}
	if !m.config.IsSupportedPurpose(info.Purpose) {
		bad = append(bad, "purpose")
	}
	if len(bad) > 0 {
		return &interview.ValidationError{Fields: bad}
	}
	return nil
}

// speechLanguage язык кандидата, до заполнения формы - язык интерфейса
func (m *Machine) speechLanguage() string {
	if m.applicant != nil && m.applicant.Language != "" {
		return m.applicant.Language
	}
	return m.uiLanguage
}

func (m *Machine) messages() config.Messages {
	return m.config.MessagesFor(m.speechLanguage())
}

func (m *Machine) checkIntroduction() {
	complete := len(strings.TrimSpace(m.transcript())) > m.config.GetMinIntroductionLength()
	m.introductionComplete = complete
	if complete && m.errMsg == m.messages().IntroductionTooShort {
		m.errMsg = ""
	}
}

func (m *Machine) transcript() string {
	if m.capture == nil {
		return m.detached
	}
	return m.capture.Transcript()
}

func (m *Machine) resetTranscript(text string) {
	m.detached = text
	if m.capture != nil {
		m.capture.Reset(text)
	}
}

func (m *Machine) startCapture() error {
	if m.capture == nil {
		m.errMsg = m.messages().UnsupportedBrowser
		return speech.ErrUnsupportedPlatform
	}
	m.syncCaptureLanguage()
	if err := m.capture.Start(); err != nil {
		msgs := m.messages()
		m.errMsg = fmt.Sprintf("%s: %v. %s", msgs.ErrorOccurred, err, msgs.CheckMicPermissions)
		return err
	}
	return nil
}

func (m *Machine) stopCapture() {
	if m.capture == nil {
		return
	}
	if err := m.capture.Stop(); err != nil {
		log.Warnf("session: %v", err)
	}
}

func (m *Machine) abortCapture() {
	if m.capture == nil {
		return
	}
	if err := m.capture.Abort(); err != nil {
		log.Warnf("session: %v", err)
	}
}

func (m *Machine) syncCaptureLanguage() {
	if m.capture == nil {
		return
	}
	lang := m.speechLanguage()
	if m.capture.Language() == lang {
		return
	}
	if err := m.capture.SetLanguage(lang); err != nil {
		log.Warnf("session: %v", err)
	}
	m.recording = false
}

func (m *Machine) speak(text string) {
	if text == "" {
		return
	}
	vol := defaultVolume
	if m.volume != nil {
		vol = m.volume.Volume()
	}
	if err := m.playback.Speak(text, m.speechLanguage(), vol); err != nil {
		log.Warnf("session: %v", err)
	}
}

func (m *Machine) cancelPlayback() {
	if err := m.playback.Cancel(); err != nil {
		log.Warnf("session: cancel playback: %v", err)
	}
}
