package session

import (
	"context"
	"errors"

	"voice-interview/internal/interview"
	"voice-interview/internal/storage"
)

// Screen экран, на котором находится кандидат
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenForm         Screen = "form"
	ScreenPreview      Screen = "preview"
	ScreenIntroduction Screen = "introduction"
	ScreenInterview    Screen = "interview"
	ScreenResults      Screen = "results"
)

var (
	ErrInvalidTransition    = errors.New("transition is not allowed from the current screen")
	ErrInFlight             = errors.New("a request is already in flight")
	ErrStale                = errors.New("session changed while the request was in flight")
	ErrIntroductionTooShort = errors.New("introduction is too short")
)

// Interviewer удаленный сервис вопросов и оценки
type Interviewer interface {
	GenerateQuestions(ctx context.Context, info interview.ApplicantInfo) ([]interview.Question, error)
	EvaluateAnswers(ctx context.Context, info interview.ApplicantInfo, answers []interview.Answer, introduction string) (*interview.Evaluation, error)
}

// ResultRecorder архив завершенных интервью
type ResultRecorder interface {
	SaveResult(ctx context.Context, result *storage.InterviewResult) error
}

// VolumeSource источник громкости озвучки (настройки)
type VolumeSource interface {
	Volume() float64
}

// View снимок сессии для клиента
type View struct {
	SessionID  string `json:"sessionId"`
	Generation uint64 `json:"generation"`
	Screen     Screen `json:"screen"`

	Language       string `json:"language"`
	SpeechLanguage string `json:"speechLanguage"`

	Applicant *interview.ApplicantInfo `json:"applicant,omitempty"`
	Questions []interview.Question     `json:"questions"`

	CurrentIndex    int                 `json:"currentIndex"`
	CurrentQuestion *interview.Question `json:"currentQuestion,omitempty"`
	CurrentMarked   bool                `json:"currentMarkedForReview"`
	Answers         []interview.Answer  `json:"answers"`

	Introduction         string `json:"introduction"`
	IntroductionComplete bool   `json:"introductionComplete"`
	Recording            bool   `json:"recording"`

	Answering  bool   `json:"answering"`
	Listening  bool   `json:"listening"`
	Transcript string `json:"transcript"`
	Interim    string `json:"interim"`

	Loading    bool                  `json:"loading"`
	Evaluation *interview.Evaluation `json:"evaluation,omitempty"`
	Passed     bool                  `json:"passed"`
	ResultID   string                `json:"resultId,omitempty"`
	Error      string                `json:"error,omitempty"`

	RecognitionAvailable bool `json:"recognitionAvailable"`
	SynthesisAvailable   bool `json:"synthesisAvailable"`
}
