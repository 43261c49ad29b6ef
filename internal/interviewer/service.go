package interviewer

import (
	"context"
	"fmt"
	"strings"

	"voice-interview/internal/api"
	"voice-interview/internal/config"
	"voice-interview/internal/interview"
	"voice-interview/internal/log"
	"voice-interview/internal/metrics"
	"voice-interview/internal/prompts"
)

// Completer модель, отвечающая на диалог
type Completer interface {
	Complete(ctx context.Context, messages []api.Message, jsonMode bool) (string, error)
}

// GenerationError не удалось получить вопросы
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate interview questions: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EvaluationError не удалось оценить ответы
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate interview answers: %v", e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Service представляет удаленный сервис интервью поверх языковой модели
type Service struct {
	client  Completer
	config  *config.Config
	metrics *metrics.Metrics
}

// New создает новый сервис интервьюера
func New(client Completer, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		client:  client,
		config:  cfg,
		metrics: m,
	}
}

// GenerateQuestions генерирует вопросы по данным кандидата
func (s *Service) GenerateQuestions(ctx context.Context, info interview.ApplicantInfo) ([]interview.Question, error) {
	prompt := prompts.GenerateQuestionsPrompt(prompts.QuestionsPrompt{
		Applicant:    info,
		LanguageName: s.config.LanguageName(info.Language),
		Count:        s.config.GetQuestionCount(),
	})

	content, err := s.call(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	questions, err := ParseQuestions(content)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	log.Infof("interviewer: сгенерировано %d вопросов для %q (%s)", len(questions), info.Position, info.Language)
	s.metrics.AddQuestionsGenerated(len(questions))
	return questions, nil
}

// EvaluateAnswers оценивает ответы и самопрезентацию кандидата
func (s *Service) EvaluateAnswers(ctx context.Context, info interview.ApplicantInfo, answers []interview.Answer, introduction string) (*interview.Evaluation, error) {
	prompt := prompts.GenerateEvaluationPrompt(prompts.EvaluationPrompt{
		Applicant:     info,
		LanguageName:  s.config.LanguageName(info.Language),
		Answers:       answers,
		Introduction:  introduction,
		PassThreshold: s.config.GetPassThreshold(),
		PassDecision:  s.config.Decisions.Pass,
		FailDecision:  s.config.Decisions.Fail,
	})

	content, err := s.call(ctx, prompt)
	if err != nil {
		return nil, &EvaluationError{Err: err}
	}

	evaluation, err := ParseEvaluation(content)
	if err != nil {
		return nil, &EvaluationError{Err: err}
	}

	// решение всегда одно из двух фиксированных и согласовано с баллом
	evaluation.Decision = s.config.Decision(evaluation.OverallScore)

	log.Infof("interviewer: оценка %d (%s)", evaluation.OverallScore, info.Position)
	return evaluation, nil
}

// call делает один запрос к модели в JSON mode
func (s *Service) call(ctx context.Context, prompt string) (string, error) {
	messages := []api.Message{
		{Role: "system", Content: prompts.SystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, err := s.client.Complete(ctx, messages, true)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return "", fmt.Errorf("ошибка вызова модели: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("пустой ответ модели")
	}
	return content, nil
}
