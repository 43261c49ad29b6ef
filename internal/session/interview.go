package session

import (
	"context"
	"strings"
	"time"

	"voice-interview/internal/interview"
	"voice-interview/internal/log"
	"voice-interview/internal/storage"
)

// enterQuestion переходит к вопросу: запись останавливается, вопрос озвучивается,
// уже записанный ответ подгружается в транскрипт.
func (m *Machine) enterQuestion(i int) {
	m.stopCapture()
	m.index = i
	q := m.questions[i]
	m.speak(q.Text)

	if answer, ok := m.ledger.Get(q.ID); ok {
		m.resetTranscript(answer.AnswerText)
		m.answering = true
	} else {
		m.resetTranscript("")
		m.answering = false
	}
}

// StartAnswering очищает транскрипт и включает запись ответа на текущий вопрос
func (m *Machine) StartAnswering() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenInterview {
		return m.invalid("start answering")
	}

	m.answering = true
	m.errMsg = ""
	m.resetTranscript("")
	return m.startCapture()
}

// GoNext сохраняет ответ и переходит к следующему вопросу.
// На последнем вопросе интервью завершается и начинается оценка.
func (m *Machine) GoNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenInterview {
		return m.invalid("next")
	}

	m.stopCapture()
	m.saveCurrent()

	if m.index < len(m.questions)-1 {
		m.enterQuestion(m.index + 1)
		return nil
	}

	m.finish()
	return nil
}

// GoPrevious сохраняет ответ и возвращается на вопрос назад. На первом вопросе только сохраняет.
func (m *Machine) GoPrevious() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenInterview {
		return m.invalid("previous")
	}

	m.stopCapture()
	m.saveCurrent()

	if m.index > 0 {
		m.enterQuestion(m.index - 1)
	}
	return nil
}

// ToggleMark переключает отметку "на проверку" у текущего вопроса
func (m *Machine) ToggleMark() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenInterview {
		return false, m.invalid("mark")
	}
	return m.ledger.ToggleReview(m.questions[m.index].ID)
}

func (m *Machine) saveCurrent() {
	q := m.questions[m.index]
	text := strings.TrimSpace(m.transcript())
	if text == "" && m.answering {
		text = m.ledger.NoAnswerText()
	}
	if err := m.ledger.Upsert(q.ID, q.Text, text); err != nil {
		log.Errorf("session: %v", err)
		return
	}
	if text != "" && text != m.ledger.NoAnswerText() {
		m.metrics.IncrementAnswersRecorded()
	}
}

// finish Interview -> Results сразу, оценка приходит позже
func (m *Machine) finish() {
	answers := m.ledger.Finalize()
	m.abortCapture()
	m.cancelPlayback()
	m.resetTranscript("")
	m.answering = false

	m.screen = ScreenResults
	m.evaluation = nil
	m.resultID = ""
	m.errMsg = ""
	m.loading = true

	gen := m.generation
	job := evaluationJob{
		generation:   gen,
		sessionID:    m.sessionID,
		applicant:    *m.applicant,
		answers:      answers,
		introduction: m.introduction,
	}

	m.wg.Add(1)
	go m.evaluate(job)
}

type evaluationJob struct {
	generation   uint64
	sessionID    string
	applicant    interview.ApplicantInfo
	answers      []interview.Answer
	introduction string
}

func (m *Machine) evaluate(job evaluationJob) {
	defer m.wg.Done()

	logger := log.WithField("session", job.sessionID)
	logger.Infof("оценка %d ответов", len(job.answers))

	evaluation, err := m.interviewer.EvaluateAnswers(m.ctx, job.applicant, job.answers, job.introduction)

	m.mu.Lock()
	if job.generation != m.generation || m.screen != ScreenResults {
		m.mu.Unlock()
		logger.Debugf("результат оценки отброшен: сессия изменилась")
		return
	}
	m.loading = false
	if err != nil {
		m.errMsg = m.messages().ErrorEvaluating
		m.mu.Unlock()
		m.metrics.IncrementEvaluationsFailed()
		logger.Warnf("оценка не удалась: %v", err)
		return
	}
	m.evaluation = evaluation
	m.mu.Unlock()

	m.metrics.IncrementInterviewsCompleted()
	logger.Infof("оценка %d: %s", evaluation.OverallScore, evaluation.Decision)

	if m.results == nil {
		return
	}

	result := &storage.InterviewResult{
		InterviewID:  job.sessionID,
		Timestamp:    time.Now().UTC(),
		Applicant:    job.applicant,
		Introduction: job.introduction,
		Answers:      job.answers,
		Evaluation:   *evaluation,
	}
	ctx, cancel := context.WithTimeout(m.ctx, 10*time.Second)
	defer cancel()
	if err := m.results.SaveResult(ctx, result); err != nil {
		logger.Errorf("ошибка сохранения результата: %v", err)
		return
	}

	m.mu.Lock()
	if job.generation == m.generation {
		m.resultID = result.InterviewID
	}
	m.mu.Unlock()
}
